// Package notify delivers fire-and-forget completion signals.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/alexanderramin/regimen/internal/domain"
	"github.com/alexanderramin/regimen/internal/tracker"
)

// Notification is raised when an item's timer runs out.
type Notification struct {
	SessionType domain.SessionType
	tracker.Completion
}

// Notifier receives completion signals. Implementations must not block the
// caller for long and never report failure.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Noop discards every notification.
type Noop struct{}

func (Noop) Notify(context.Context, Notification) {}

// Bell writes a terminal bell followed by a one-line message.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

func (b *Bell) Notify(_ context.Context, n Notification) {
	if b == nil || b.w == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = fmt.Fprintf(b.w, "\a%s complete\n", n.Name)
}

// Multi fans a notification out to every non-nil notifier in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) {
	for _, nt := range m {
		if nt != nil {
			nt.Notify(ctx, n)
		}
	}
}

// Channel forwards notifications to a buffered channel, dropping them when
// the buffer is full.
type Channel struct {
	ch chan Notification
}

func NewChannel(size int) *Channel {
	if size <= 0 {
		size = 1
	}
	return &Channel{ch: make(chan Notification, size)}
}

func (c *Channel) Notify(_ context.Context, n Notification) {
	select {
	case c.ch <- n:
	default:
	}
}

// C returns the receive side.
func (c *Channel) C() <-chan Notification {
	return c.ch
}

// OrNoop returns n, or Noop when n is nil.
func OrNoop(n Notifier) Notifier {
	if n == nil {
		return Noop{}
	}
	return n
}
