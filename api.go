package xstate

import (
	"context"
)

// API represents the complete engine surface for extensibility.
type API interface {
	Execute(cmd Command) error
	Undo() error
	Redo() error
	Save(ctx context.Context) (*Memento, error)
	Restore(m *Memento) error
	RestoreAt(ctx context.Context, index int) error
	GetMetrics() Metrics
	Entity() Originator
	Hub() *Hub
	Stack() *Stack
	Caretaker() *Caretaker
}

var _ API = (*Engine)(nil)
