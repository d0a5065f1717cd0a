package xstate

import (
	"fmt"
	"sync"
)

const (
	counterOrigin  = "counter"
	counterVersion = 1
)

// Counter is a reactive entity owning a single int64 field. It is mutated
// through commands (Increment, SetValue) or direct setter calls that also
// notify, and produces/consumes its own mementos.
type Counter struct {
	name  string
	hub   *Hub
	codec Codec

	mu    sync.RWMutex
	value int64
}

// NewCounter creates a Counter starting at zero. hub may be nil, in which
// case mutations do not notify.
func NewCounter(name string, hub *Hub) *Counter {
	return &Counter{name: name, hub: hub, codec: JSONCodec{}}
}

var _ Originator = (*Counter)(nil)

// NewCounterEngine is the construction entry point for counter entities:
// it yields a fresh Counter wired to an Engine's hub, stack and caretaker.
func NewCounterEngine(name string, init func(eb *EngineBuilder)) (*Engine, *Counter, error) {
	counter := NewCounter(name, nil)
	eng, err := New(counter, init)
	if err != nil {
		return nil, nil, err
	}
	counter.Bind(eng.Hub())
	return eng, counter, nil
}

// Bind attaches the hub that direct mutations notify. Intended for wiring
// an entity created before its engine; replaces any previous hub.
func (c *Counter) Bind(hub *Hub) {
	c.mu.Lock()
	c.hub = hub
	c.mu.Unlock()
}

// Name returns the entity name.
func (c *Counter) Name() string { return c.name }

// Value returns the current counter value.
func (c *Counter) Value() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set replaces the value and notifies attached observers. The returned
// error aggregates observer dispatch failures; the mutation itself has
// already been applied regardless.
func (c *Counter) Set(v int64) error {
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()
	return c.notifyChanged(v)
}

// Add applies a delta and notifies, with the same error semantics as Set.
func (c *Counter) Add(delta int64) error {
	c.mu.Lock()
	c.value += delta
	v := c.value
	c.mu.Unlock()
	return c.notifyChanged(v)
}

func (c *Counter) notifyChanged(v int64) error {
	c.mu.RLock()
	hub := c.hub
	c.mu.RUnlock()
	if hub == nil {
		return nil
	}
	return hub.Publish(EntityChanged, ChangeInfo{Entity: c.name, Value: v})
}

// counterState is the serialized snapshot schema.
type counterState struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// Snapshot captures the current state into an opaque Memento. Pure: no side
// effects on the counter and no notification.
func (c *Counter) Snapshot() (*Memento, error) {
	c.mu.RLock()
	st := counterState{Name: c.name, Value: c.value}
	c.mu.RUnlock()
	return Capture(counterOrigin, counterVersion, c.codec, st)
}

// Restore replaces the counter state from one of its own mementos. The
// memento is validated and decoded before anything is written, so a failed
// restore leaves the counter untouched.
func (c *Counter) Restore(m *Memento) error {
	st, err := Recover[counterState](counterOrigin, counterVersion, c.codec, m)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.value = st.Value
	v := c.value
	c.mu.Unlock()
	return c.notifyChanged(v)
}

// Increment returns a reversible command adding delta to the counter.
// Observer dispatch failures during the mutation are non-fatal to the
// command and do not reach the stack.
func Increment(c *Counter, delta int64) Command {
	return &incrementCommand{c: c, delta: delta}
}

type incrementCommand struct {
	c     *Counter
	delta int64
}

func (ic *incrementCommand) Execute() error {
	_ = ic.c.Add(ic.delta)
	return nil
}

func (ic *incrementCommand) Undo() error {
	_ = ic.c.Add(-ic.delta)
	return nil
}

func (ic *incrementCommand) Name() string { return fmt.Sprintf("increment(%d)", ic.delta) }

// SetValue returns a reversible command that records the previous value on
// Execute so Undo can restore it.
func SetValue(c *Counter, to int64) Command {
	return &setCommand{c: c, to: to}
}

type setCommand struct {
	c    *Counter
	to   int64
	prev int64
}

func (sc *setCommand) Execute() error {
	sc.prev = sc.c.Value()
	_ = sc.c.Set(sc.to)
	return nil
}

func (sc *setCommand) Undo() error {
	_ = sc.c.Set(sc.prev)
	return nil
}

func (sc *setCommand) Name() string { return fmt.Sprintf("set(%d)", sc.to) }
