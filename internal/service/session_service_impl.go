package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/alexanderramin/regimen/internal/db"
	"github.com/alexanderramin/regimen/internal/domain"
	"github.com/alexanderramin/regimen/internal/notify"
	"github.com/alexanderramin/regimen/internal/repository"
	"github.com/alexanderramin/regimen/internal/tracker"
	"github.com/google/uuid"
)

// SessionOption configures a SessionService.
type SessionOption func(*sessionService)

func WithClock(c tracker.Clock) SessionOption {
	return func(s *sessionService) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithNotifier(n notify.Notifier) SessionOption {
	return func(s *sessionService) { s.notifier = notify.OrNoop(n) }
}

func WithObserver(o UseCaseObserver) SessionOption {
	return func(s *sessionService) { s.observer = useCaseObserverOrNoop([]UseCaseObserver{o}) }
}

// WithDefaultDuration sets the timer length used for unparseable durations.
func WithDefaultDuration(seconds int) SessionOption {
	return func(s *sessionService) { s.defaultSeconds = seconds }
}

type sessionService struct {
	catalog     Catalog
	completions repository.CompletionRepo
	snapshots   repository.SnapshotRepo
	uow         db.UnitOfWork

	clock          tracker.Clock
	notifier       notify.Notifier
	observer       UseCaseObserver
	defaultSeconds int

	mu          sync.Mutex
	sessionType domain.SessionType
	session     *domain.ProtocolSession
	tr          *tracker.Tracker
}

func NewSessionService(
	catalog Catalog,
	completions repository.CompletionRepo,
	snapshots repository.SnapshotRepo,
	uow db.UnitOfWork,
	opts ...SessionOption,
) SessionService {
	s := &sessionService{
		catalog:        catalog,
		completions:    completions,
		snapshots:      snapshots,
		uow:            uow,
		clock:          tracker.SystemClock{},
		notifier:       notify.Noop{},
		observer:       NoopUseCaseObserver{},
		defaultSeconds: tracker.DefaultDurationSeconds,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *sessionService) today() string {
	return s.clock.Now().Format(domain.DateLayout)
}

// Open loads t's items, today's saved completion set and any snapshot left
// by an earlier invocation. Snapshots from a previous day are discarded.
func (s *sessionService) Open(ctx context.Context, t domain.SessionType) (view *SessionView, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "open-session", string(t), startedAt, err, fields) }()

	session, err := s.catalog.ProtocolSession(t)
	if err != nil {
		return nil, err
	}
	today := s.today()

	saved, err := s.completions.Load(ctx, today, t)
	if err != nil {
		return nil, fmt.Errorf("loading completions: %w", err)
	}

	var snap tracker.Snapshot
	date, loaded, err := s.snapshots.Load(ctx, t)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("loading snapshot: %w", err)
	case date != today:
		fields["stale_snapshot"] = date
		if err := s.snapshots.Delete(ctx, t); err != nil {
			return nil, fmt.Errorf("discarding stale snapshot: %w", err)
		}
	default:
		snap = loaded
	}
	snap.Completed = unionKeys(snap.Completed, saved)

	tr := tracker.Restore(snap, session.Items,
		tracker.WithClock(s.clock),
		tracker.WithDefaultDuration(s.defaultSeconds),
		tracker.WithCompletionHandler(s.completionHandler(ctx, t)),
	)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionType = t
	s.session = session
	s.tr = tr
	fields["completed"] = len(snap.Completed)
	return s.viewLocked(), nil
}

func (s *sessionService) completionHandler(ctx context.Context, t domain.SessionType) func(tracker.Completion) {
	return func(c tracker.Completion) {
		s.notifier.Notify(context.WithoutCancel(ctx), notify.Notification{SessionType: t, Completion: c})
	}
}

func (s *sessionService) Current() domain.SessionType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionType
}

func (s *sessionService) View() (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tr == nil {
		return nil, ErrNoSession
	}
	return s.viewLocked(), nil
}

func (s *sessionService) Start(ctx context.Context, key string) (*SessionView, error) {
	return s.mutate(ctx, "start-item", func(tr *tracker.Tracker) (*domain.CompletionEvent, error) {
		item, ok := domain.FindItem(s.session.Items, key)
		if !ok {
			return nil, fmt.Errorf("%q: %w", key, ErrUnknownItem)
		}
		tr.StartItem(item)
		return &domain.CompletionEvent{ItemKey: item.Key, Kind: domain.EventStart}, nil
	})
}

func (s *sessionService) Pause(ctx context.Context) (*SessionView, error) {
	return s.mutate(ctx, "pause", func(tr *tracker.Tracker) (*domain.CompletionEvent, error) {
		if !tr.Pause() {
			return nil, nil
		}
		return activeEvent(tr, domain.EventPause), nil
	})
}

func (s *sessionService) Resume(ctx context.Context) (*SessionView, error) {
	return s.mutate(ctx, "resume", func(tr *tracker.Tracker) (*domain.CompletionEvent, error) {
		if !tr.Resume() {
			return nil, nil
		}
		return activeEvent(tr, domain.EventResume), nil
	})
}

func (s *sessionService) Restart(ctx context.Context) (*SessionView, error) {
	return s.mutate(ctx, "restart", func(tr *tracker.Tracker) (*domain.CompletionEvent, error) {
		if !tr.Restart() {
			return nil, nil
		}
		return activeEvent(tr, domain.EventRestart), nil
	})
}

func (s *sessionService) Complete(ctx context.Context) (*SessionView, error) {
	return s.mutate(ctx, "complete-item", func(tr *tracker.Tracker) (*domain.CompletionEvent, error) {
		c, ok := tr.CompleteItem()
		if !ok {
			return nil, nil
		}
		return &domain.CompletionEvent{ItemKey: c.Key, Kind: domain.EventComplete}, nil
	})
}

// Toggle flips an item's checklist state. Keys that are not part of the
// session are rejected unless they are already marked complete, so stale
// keys can still be cleared.
func (s *sessionService) Toggle(ctx context.Context, key string) (*SessionView, error) {
	return s.mutate(ctx, "toggle-item", func(tr *tracker.Tracker) (*domain.CompletionEvent, error) {
		if _, ok := domain.FindItem(s.session.Items, key); !ok && !tr.IsCompleted(key) {
			return nil, fmt.Errorf("%q: %w", key, ErrUnknownItem)
		}
		kind := domain.EventToggleOff
		if tr.ToggleComplete(key) {
			kind = domain.EventToggleOn
		}
		return &domain.CompletionEvent{ItemKey: key, Kind: kind}, nil
	})
}

// Reset clears the session. A session that had started is recorded in the
// session log first.
func (s *sessionService) Reset(ctx context.Context) (view *SessionView, err error) {
	startedAt := time.Now()
	fields := map[string]any{}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { observe(ctx, s.observer, "reset-session", string(s.sessionType), startedAt, err, fields) }()
	if s.tr == nil {
		return nil, ErrNoSession
	}

	now := s.clock.Now()
	progress := s.tr.Progress()
	var log *domain.SessionLog
	if start, ok := s.tr.SessionStart(); ok {
		log = &domain.SessionLog{
			ID:             uuid.New().String(),
			SessionType:    s.sessionType,
			StartedAt:      start,
			EndedAt:        now,
			CompletedCount: progress.Completed,
			TotalCount:     progress.Total,
			CreatedAt:      now,
		}
		fields["session_log"] = log.ID
	}

	s.tr.ResetSession()
	fields["cleared"] = progress.Completed

	today := s.today()
	st := s.sessionType
	perr := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if log != nil {
			if err := repository.NewSQLiteSessionLogRepo(tx).Create(ctx, log); err != nil {
				return err
			}
		}
		if err := repository.NewSQLiteCompletionRepo(tx).Save(ctx, today, st, nil); err != nil {
			return err
		}
		if err := repository.NewSQLiteSnapshotRepo(tx).Delete(ctx, st); err != nil {
			return err
		}
		return repository.NewSQLiteEventRepo(tx).Append(ctx, &domain.CompletionEvent{SessionType: st, Kind: domain.EventReset, At: now})
	})
	view = s.viewLocked()
	if perr != nil {
		return view, &PersistError{Op: "reset-session", Err: perr}
	}
	return view, nil
}

func (s *sessionService) Tick(ctx context.Context) (*SessionView, bool, error) {
	var fired bool
	view, err := s.mutateQuiet(ctx, "expire-item", func(tr *tracker.Tracker) (*domain.CompletionEvent, error) {
		c, ok := tr.Tick()
		if !ok {
			return nil, nil
		}
		fired = true
		return &domain.CompletionEvent{ItemKey: c.Key, Kind: domain.EventExpire}, nil
	})
	return view, fired, err
}

type mutation func(tr *tracker.Tracker) (*domain.CompletionEvent, error)

func (s *sessionService) mutate(ctx context.Context, name string, fn mutation) (*SessionView, error) {
	return s.run(ctx, name, fn, true)
}

// mutateQuiet only reports to the observer when something changed, so the
// once-a-second tick does not flood the log.
func (s *sessionService) mutateQuiet(ctx context.Context, name string, fn mutation) (*SessionView, error) {
	return s.run(ctx, name, fn, false)
}

func (s *sessionService) run(ctx context.Context, name string, fn mutation, always bool) (view *SessionView, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	var event *domain.CompletionEvent

	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if always || event != nil || err != nil {
			observe(ctx, s.observer, name, string(s.sessionType), startedAt, err, fields)
		}
	}()
	if s.tr == nil {
		return nil, ErrNoSession
	}

	event, err = fn(s.tr)
	if err != nil {
		return nil, err
	}
	view = s.viewLocked()
	if event == nil {
		fields["changed"] = false
		return view, nil
	}
	fields["item"] = event.ItemKey
	fields["kind"] = string(event.Kind)

	event.SessionType = s.sessionType
	event.At = s.clock.Now()
	if perr := s.persistLocked(ctx, event); perr != nil {
		err = &PersistError{Op: name, Err: perr}
		return view, err
	}
	return view, nil
}

// persistLocked writes the completion set, the snapshot and the event in
// one transaction.
func (s *sessionService) persistLocked(ctx context.Context, event *domain.CompletionEvent) error {
	today := s.today()
	st := s.sessionType
	keys := s.tr.CompletedKeys()
	snap := s.tr.Snapshot()
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteCompletionRepo(tx).Save(ctx, today, st, keys); err != nil {
			return err
		}
		if err := repository.NewSQLiteSnapshotRepo(tx).Save(ctx, st, today, snap); err != nil {
			return err
		}
		return repository.NewSQLiteEventRepo(tx).Append(ctx, event)
	})
}

func (s *sessionService) viewLocked() *SessionView {
	tr := s.tr
	v := &SessionView{
		SessionType:     s.sessionType,
		Title:           s.session.Title,
		Notes:           s.session.Notes,
		Date:            s.today(),
		Status:          tr.Status(),
		TimerDisplay:    tr.TimerDisplay(),
		Remaining:       tr.Remaining(),
		DurationSeconds: tr.DurationSeconds(),
		Progress:        tr.Progress(),
	}
	active, hasActive := tr.Active()
	if hasActive {
		v.Active = &active
	}
	known := make(map[string]bool, len(s.session.Items))
	for _, it := range s.session.Items {
		known[it.Key] = true
		v.Items = append(v.Items, ItemView{
			Item:            it,
			Completed:       tr.IsCompleted(it.Key),
			Active:          hasActive && active.Key == it.Key,
			DurationSeconds: tracker.ParseDuration(it.DurationText, s.defaultSeconds),
		})
	}
	for _, k := range tr.CompletedKeys() {
		if !known[k] {
			v.Extra++
		}
	}
	return v
}

func activeEvent(tr *tracker.Tracker, kind domain.EventKind) *domain.CompletionEvent {
	e := &domain.CompletionEvent{Kind: kind}
	if item, ok := tr.Active(); ok {
		e.ItemKey = item.Key
	}
	return e
}

func unionKeys(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, k := range a {
		set[k] = struct{}{}
	}
	for _, k := range b {
		set[k] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
