package xstate

import (
	"fmt"
	"sync"
)

// Stack records executed commands for undo/redo. State is fully described by
// the pair (history, redo):
//
//	Execute: (H, R)      -> (H+[c], [])
//	Undo:    (H+[c], R)  -> (H, [c]+R)
//	Redo:    (H, [c]+R)  -> (H+[c], R)
//
// Branching history is not supported: executing after an undo discards the
// redo branch. Both sequences are LIFO.
type Stack struct {
	exec  Executor
	limit int

	mu      sync.RWMutex
	history []Command
	redo    []Command
}

// NewStack creates a Stack. limit caps history length (0 = unbounded); when
// exceeded, the oldest command is evicted and dropped. Middlewares wrap
// command execution; panic recovery is always applied first.
func NewStack(limit int, mws ...Middleware) *Stack {
	base := Executor(func(cmd Command) error { return cmd.Execute() })
	return &Stack{
		exec:  Chain(RecoveryMiddleware()(base), mws...),
		limit: limit,
	}
}

// Execute runs the command and pushes it onto history, clearing the redo
// stack. A failed command leaves the stack unchanged. Commands marked
// Irreversible are executed but never pushed.
func (s *Stack) Execute(cmd Command) error {
	if cmd == nil {
		return ErrNilCommand
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.exec(cmd); err != nil {
		return &CommandError{Op: "execute", Name: cmd.Name(), Cause: err}
	}

	if _, ok := cmd.(Irreversible); ok {
		return nil
	}

	s.history = append(s.history, cmd)
	if s.limit > 0 && len(s.history) > s.limit {
		s.history = append(s.history[:0], s.history[1:]...)
	}
	s.redo = s.redo[:0]
	return nil
}

// Undo pops the most recent command, runs its Undo and pushes it to the redo
// stack. If Undo itself fails, the command is restored to the top of history
// unchanged and the error is surfaced.
func (s *Stack) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) == 0 {
		return ErrEmptyHistory
	}

	cmd := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]

	if err := safeUndo(cmd); err != nil {
		s.history = append(s.history, cmd)
		return &CommandError{Op: "undo", Name: cmd.Name(), Cause: err}
	}

	s.redo = append(s.redo, cmd)
	return nil
}

// Redo pops from the redo stack, re-executes and pushes back to history.
// If execution fails, the command is restored to the top of the redo stack.
func (s *Stack) Redo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.redo) == 0 {
		return ErrEmptyRedo
	}

	cmd := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]

	if err := s.exec(cmd); err != nil {
		s.redo = append(s.redo, cmd)
		return &CommandError{Op: "redo", Name: cmd.Name(), Cause: err}
	}

	s.history = append(s.history, cmd)
	return nil
}

// HistoryLen returns the number of undoable commands.
func (s *Stack) HistoryLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// RedoLen returns the number of redoable commands.
func (s *Stack) RedoLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.redo)
}

// PeekHistory returns the command that the next Undo would reverse.
func (s *Stack) PeekHistory() (Command, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.history) == 0 {
		return nil, false
	}
	return s.history[len(s.history)-1], true
}

// PeekRedo returns the command that the next Redo would re-apply.
func (s *Stack) PeekRedo() (Command, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.redo) == 0 {
		return nil, false
	}
	return s.redo[len(s.redo)-1], true
}

// CanUndo reports whether history is non-empty.
func (s *Stack) CanUndo() bool { return s.HistoryLen() > 0 }

// CanRedo reports whether the redo stack is non-empty.
func (s *Stack) CanRedo() bool { return s.RedoLen() > 0 }

// safeUndo runs cmd.Undo with panic recovery so a misbehaving undo cannot
// corrupt the stack.
func safeUndo(cmd Command) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic recovered: %v", r)
		}
	}()
	return cmd.Undo()
}
