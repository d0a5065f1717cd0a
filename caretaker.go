package xstate

import (
	"context"
)

// Caretaker retains mementos without ever inspecting their contents: it is
// a pure storage and eviction policy, never a state interpreter. Retention
// is append-only and indexable, with FIFO eviction delegated to the
// underlying Store.
type Caretaker struct {
	store Store
}

// NewCaretaker creates a Caretaker over the in-memory store. capacity caps
// retained snapshots (0 = unbounded); recording beyond it evicts the oldest.
func NewCaretaker(capacity int) *Caretaker {
	return &Caretaker{store: NewMemoryStore(capacity)}
}

// NewCaretakerWithStore creates a Caretaker over a custom Store, e.g. the
// redisstore adapter.
func NewCaretakerWithStore(store Store) *Caretaker {
	if store == nil {
		store = NewMemoryStore(0)
	}
	return &Caretaker{store: store}
}

// Record appends a memento.
func (c *Caretaker) Record(ctx context.Context, m *Memento) error {
	return c.store.Append(ctx, m)
}

// At returns the memento at index; ErrIndexOutOfRange for bad indexes.
func (c *Caretaker) At(ctx context.Context, index int) (*Memento, error) {
	return c.store.At(ctx, index)
}

// Len returns the number of retained mementos.
func (c *Caretaker) Len(ctx context.Context) (int, error) {
	return c.store.Len(ctx)
}

// Clear discards all retained mementos.
func (c *Caretaker) Clear(ctx context.Context) error {
	return c.store.Clear(ctx)
}
