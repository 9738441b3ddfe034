package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/alexanderramin/regimen/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(name string) Notification {
	return Notification{
		SessionType: "lllt/daily",
		Completion:  tracker.Completion{Key: "crown-treatment", Name: name, Expired: true},
	}
}

func TestBell_WritesBellAndName(t *testing.T) {
	var buf bytes.Buffer
	NewBell(&buf).Notify(context.Background(), sample("Crown Treatment"))

	assert.Equal(t, "\aCrown Treatment complete\n", buf.String())
}

func TestMulti_FansOutAndSkipsNil(t *testing.T) {
	var a, b bytes.Buffer
	m := Multi{NewBell(&a), nil, NewBell(&b)}

	m.Notify(context.Background(), sample("Wall Angels"))

	assert.Contains(t, a.String(), "Wall Angels")
	assert.Contains(t, b.String(), "Wall Angels")
}

func TestChannel_DropsWhenFull(t *testing.T) {
	c := NewChannel(1)
	ctx := context.Background()

	c.Notify(ctx, sample("first"))
	c.Notify(ctx, sample("second"))

	require.Len(t, c.C(), 1)
	got := <-c.C()
	assert.Equal(t, "first", got.Name)
}

func TestOrNoop(t *testing.T) {
	assert.Equal(t, Noop{}, OrNoop(nil))
	bell := NewBell(nil)
	assert.Same(t, bell, OrNoop(bell))
	bell.Notify(context.Background(), sample("x"))
}
