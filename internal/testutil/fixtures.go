package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/regimen/internal/domain"
)

var testItemCounter atomic.Int64

// Item options
type ItemOption func(*domain.Item)

func WithDuration(text string) ItemOption {
	return func(i *domain.Item) {
		i.DurationText = text
	}
}

func WithKey(key string) ItemOption {
	return func(i *domain.Item) {
		i.Key = key
	}
}

func WithEquipment(e string) ItemOption {
	return func(i *domain.Item) {
		i.Equipment = e
	}
}

func WithSteps(steps ...string) ItemOption {
	return func(i *domain.Item) {
		i.Steps = steps
	}
}

// NewTestItem builds an item keyed by the slug of its name. An empty name
// gets a generated one.
func NewTestItem(name string, opts ...ItemOption) domain.Item {
	if name == "" {
		name = fmt.Sprintf("Item %d", testItemCounter.Add(1))
	}
	it := domain.Item{
		Key:          domain.ItemKey(name),
		Name:         name,
		DurationText: "5 minutes",
	}
	for _, o := range opts {
		o(&it)
	}
	return it
}

// NewTestItems builds one default item per name.
func NewTestItems(names ...string) []domain.Item {
	items := make([]domain.Item, 0, len(names))
	for _, n := range names {
		items = append(items, NewTestItem(n))
	}
	return items
}

// NewTestProtocol builds a protocol with a single session holding items.
func NewTestProtocol(name, session string, items ...domain.Item) *domain.Protocol {
	return &domain.Protocol{
		Name:  name,
		Title: name,
		Sessions: []domain.ProtocolSession{
			{Name: session, Title: session, Items: items},
		},
	}
}
