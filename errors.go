package xstate

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyHistory is returned by Undo when no command has been executed.
	ErrEmptyHistory = errors.New("xstate: empty history")
	// ErrEmptyRedo is returned by Redo when no command has been undone.
	ErrEmptyRedo = errors.New("xstate: empty redo stack")
	// ErrIncompatibleSnapshot is returned by Restore when a memento did not
	// originate from the entity type/version attempting to consume it.
	ErrIncompatibleSnapshot = errors.New("xstate: incompatible snapshot")
	// ErrIndexOutOfRange is returned by Caretaker.At for bad indexes.
	ErrIndexOutOfRange = errors.New("xstate: snapshot index out of range")

	// ErrIrreversible is returned when Undo is called on a command that
	// declared its effect cannot be reversed.
	ErrIrreversible = errors.New("xstate: command is irreversible")

	ErrNilCommand         = errors.New("xstate: nil command")
	ErrNoEntityConfigured = errors.New("xstate: no entity configured")
)

// ErrUnknownStore reports a snapshot store name with no registered factory.
type ErrUnknownStore struct{ name string }

func (e ErrUnknownStore) Error() string { return fmt.Sprintf("unknown snapshot store: %s", e.name) }

// CommandError wraps a failure from a command's Execute or Undo.
type CommandError struct {
	Op    string // "execute", "undo" or "redo"
	Name  string
	Cause error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("xstate: command %q %s failed: %v", e.Name, e.Op, e.Cause)
}

func (e *CommandError) Unwrap() error { return e.Cause }

// DispatchError reports a single observer that failed during Notify.
// Failures are isolated per observer and aggregated; one misbehaving
// observer never blocks dispatch to the rest.
type DispatchError struct {
	Identity string
	Cause    error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("xstate: observer %q dispatch failed: %v", e.Identity, e.Cause)
}

func (e *DispatchError) Unwrap() error { return e.Cause }
