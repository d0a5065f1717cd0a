package xstate

// Command is an encapsulated, reversible unit of mutation.
//
// Undo must be a true inverse of Execute. A command whose effect cannot be
// reversed (a log-only action, an outbound notification) must not fake it
// with a no-op Undo: implement the Irreversible marker instead, and the
// Stack will run it without recording it in history.
type Command interface {
	Execute() error
	Undo() error
	Name() string
}

// Irreversible marks a Command that is excluded from undo history.
type Irreversible interface {
	Command
	Irreversible()
}

// NewCommand is an Adapter that builds a Command from a pair of closures.
func NewCommand(name string, execute, undo func() error) Command {
	return &funcCommand{name: name, execute: execute, undo: undo}
}

// NewIrreversible builds a Command with no inverse. The Stack executes it
// but never pushes it, so Undo can never reach it.
func NewIrreversible(name string, execute func() error) Irreversible {
	return &irreversibleCommand{name: name, execute: execute}
}

type funcCommand struct {
	name    string
	execute func() error
	undo    func() error
}

func (c *funcCommand) Execute() error {
	if c.execute == nil {
		return nil
	}
	return c.execute()
}

func (c *funcCommand) Undo() error {
	if c.undo == nil {
		return nil
	}
	return c.undo()
}

func (c *funcCommand) Name() string { return c.name }

type irreversibleCommand struct {
	name    string
	execute func() error
}

func (c *irreversibleCommand) Execute() error {
	if c.execute == nil {
		return nil
	}
	return c.execute()
}

func (c *irreversibleCommand) Undo() error { return ErrIrreversible }

func (c *irreversibleCommand) Name() string { return c.name }

func (c *irreversibleCommand) Irreversible() {}
