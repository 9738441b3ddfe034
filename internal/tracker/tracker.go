package tracker

import (
	"sort"
	"sync"
	"time"

	"github.com/alexanderramin/regimen/internal/domain"
)

// Completion describes an item leaving the active slot as done.
type Completion struct {
	Key     string
	Name    string
	At      time.Time
	Expired bool
}

// Progress is the read model polled by presentation layers.
type Progress struct {
	Completed int
	Total     int
	Elapsed   time.Duration
	Started   bool
}

// Percent returns completed/total in [0,1].
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	f := float64(p.Completed) / float64(p.Total)
	if f > 1 {
		return 1
	}
	return f
}

// Option configures a Tracker.
type Option func(*Tracker)

func WithClock(c Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithDefaultDuration sets the fallback used for unparseable duration text.
func WithDefaultDuration(seconds int) Option {
	return func(t *Tracker) {
		if seconds > 0 {
			t.defaultSeconds = seconds
		}
	}
}

// WithCompletionHandler registers fn to run when Tick detects an expired
// timer. It is called after the tracker lock is released.
func WithCompletionHandler(fn func(Completion)) Option {
	return func(t *Tracker) { t.onExpire = fn }
}

// Tracker owns one session's state: the item list, the completed set, the
// single active item and its timer. All methods are safe for concurrent use
// and none of them fail; invalid transitions are no-ops.
type Tracker struct {
	mu             sync.Mutex
	clock          Clock
	defaultSeconds int
	onExpire       func(Completion)

	items        []domain.Item
	completed    map[string]struct{}
	active       *domain.Item
	sessionStart *time.Time
	timer        *Timer
}

// New creates an idle tracker over items.
func New(items []domain.Item, opts ...Option) *Tracker {
	t := &Tracker{
		clock:          SystemClock{},
		defaultSeconds: DefaultDurationSeconds,
		items:          append([]domain.Item(nil), items...),
		completed:      make(map[string]struct{}),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// StartItem makes item the active one, discarding any previous timer.
// Re-starting a completed item takes it back out of the completed set.
func (t *Tracker) StartItem(item domain.Item) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	it := item
	t.active = &it
	delete(t.completed, item.Key)
	if t.sessionStart == nil {
		t.sessionStart = &now
	}
	t.timer = newTimer(ParseDuration(item.DurationText, t.defaultSeconds), now)
}

// Pause freezes a running timer. Reports whether anything changed.
func (t *Tracker) Pause() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer == nil {
		return false
	}
	return t.timer.pause(t.clock.Now())
}

// Resume continues a paused timer without counting the paused interval.
func (t *Tracker) Resume() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer == nil {
		return false
	}
	return t.timer.resume(t.clock.Now())
}

// Restart re-zeroes elapsed time on the active timer, keeping its duration.
func (t *Tracker) Restart() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer == nil {
		return false
	}
	t.timer.restart(t.clock.Now())
	return true
}

// Tick completes the active item when its running timer has expired.
// This is the only automatic transition.
func (t *Tracker) Tick() (Completion, bool) {
	t.mu.Lock()
	if t.timer == nil || t.active == nil || t.timer.Paused {
		t.mu.Unlock()
		return Completion{}, false
	}
	now := t.clock.Now()
	if !t.timer.Expired(now) {
		t.mu.Unlock()
		return Completion{}, false
	}
	c := t.completeActiveLocked(now, true)
	fn := t.onExpire
	t.mu.Unlock()

	if fn != nil {
		fn(c)
	}
	return c, true
}

// CompleteItem marks the active item done whether or not its timer expired.
func (t *Tracker) CompleteItem() (Completion, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return Completion{}, false
	}
	return t.completeActiveLocked(t.clock.Now(), false), true
}

func (t *Tracker) completeActiveLocked(now time.Time, expired bool) Completion {
	c := Completion{Key: t.active.Key, Name: t.active.Name, At: now, Expired: expired}
	t.completed[t.active.Key] = struct{}{}
	t.active = nil
	t.timer = nil
	return c
}

// ToggleComplete flips key's membership in the completed set and returns the
// new membership. The active item and its timer are left alone.
func (t *Tracker) ToggleComplete(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.completed[key]; ok {
		delete(t.completed, key)
		return false
	}
	t.completed[key] = struct{}{}
	return true
}

// ResetSession returns the tracker to its initial empty state.
// The item list is kept.
func (t *Tracker) ResetSession() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.completed = make(map[string]struct{})
	t.active = nil
	t.timer = nil
	t.sessionStart = nil
}

func (t *Tracker) Progress() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := Progress{Total: len(t.items)}
	// Keys left over from an older protocol revision are not counted.
	for _, it := range t.items {
		if _, ok := t.completed[it.Key]; ok {
			p.Completed++
		}
	}
	if t.sessionStart != nil {
		p.Started = true
		if d := t.clock.Now().Sub(*t.sessionStart); d > 0 {
			p.Elapsed = d
		}
	}
	return p
}

func (t *Tracker) Status() domain.TimerStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case t.timer == nil:
		return domain.TimerIdle
	case t.timer.Paused:
		return domain.TimerPaused
	default:
		return domain.TimerRunning
	}
}

// Active returns a copy of the active item.
func (t *Tracker) Active() (domain.Item, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return domain.Item{}, false
	}
	return *t.active, true
}

func (t *Tracker) IsCompleted(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.completed[key]
	return ok
}

// CompletedKeys returns the completed set sorted.
func (t *Tracker) CompletedKeys() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return sortedKeys(t.completed)
}

// Remaining returns the active timer's remaining time, zero when idle.
func (t *Tracker) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer == nil {
		return 0
	}
	return t.timer.Remaining(t.clock.Now())
}

// Elapsed returns the active timer's counted time, zero when idle.
func (t *Tracker) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer == nil {
		return 0
	}
	return t.timer.Elapsed(t.clock.Now())
}

// DurationSeconds returns the parsed duration of the active timer.
func (t *Tracker) DurationSeconds() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer == nil {
		return 0
	}
	return t.timer.DurationSeconds
}

// TimerDisplay renders the remaining time as MM:SS ("00:00" when idle).
func (t *Tracker) TimerDisplay() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer == nil {
		return FormatClock(0)
	}
	return t.timer.Display(t.clock.Now())
}

// SessionStart reports when the first item of this session was started.
func (t *Tracker) SessionStart() (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sessionStart == nil {
		return time.Time{}, false
	}
	return *t.sessionStart, true
}

func (t *Tracker) Items() []domain.Item {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.Item(nil), t.items...)
}

// Now exposes the tracker's clock reading.
func (t *Tracker) Now() time.Time {
	return t.clock.Now()
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
