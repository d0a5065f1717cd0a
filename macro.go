package xstate

import (
	"errors"
	"fmt"
)

// Macro is a composite Command aggregating sub-commands. Execute runs them
// in order; Undo runs their undos in reverse order.
type Macro struct {
	name string
	cmds []Command
}

// NewMacro builds a macro from sub-commands. Nil sub-commands are skipped.
func NewMacro(name string, cmds ...Command) *Macro {
	m := &Macro{name: name}
	for _, c := range cmds {
		if c != nil {
			m.cmds = append(m.cmds, c)
		}
	}
	return m
}

var _ Command = (*Macro)(nil)

func (m *Macro) Name() string { return m.name }

// Len returns the number of sub-commands.
func (m *Macro) Len() int { return len(m.cmds) }

// Execute runs every sub-command in order. If one fails, the already
// executed prefix is undone in reverse order before the error propagates,
// so a failed macro leaves the entity at its pre-macro state.
func (m *Macro) Execute() error {
	for i, c := range m.cmds {
		err := c.Execute()
		if err == nil {
			continue
		}
		err = fmt.Errorf("macro %q: sub-command %q: %w", m.name, c.Name(), err)

		var rollback []error
		for j := i - 1; j >= 0; j-- {
			if uerr := m.cmds[j].Undo(); uerr != nil {
				rollback = append(rollback, fmt.Errorf("macro %q: rollback of %q: %w", m.name, m.cmds[j].Name(), uerr))
			}
		}
		if len(rollback) > 0 {
			return errors.Join(append([]error{err}, rollback...)...)
		}
		return err
	}
	return nil
}

// Undo reverses every sub-command in reverse order, stopping at the first
// failure.
func (m *Macro) Undo() error {
	for i := len(m.cmds) - 1; i >= 0; i-- {
		if err := m.cmds[i].Undo(); err != nil {
			return fmt.Errorf("macro %q: undo of %q: %w", m.name, m.cmds[i].Name(), err)
		}
	}
	return nil
}
