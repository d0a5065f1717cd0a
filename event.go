package xstate

import (
	"time"
)

// Category tags lifecycle events for the Observer pattern.
type Category string

const (
	CommandExecuted  Category = "command.executed"
	CommandUndone    Category = "command.undone"
	CommandRedone    Category = "command.redone"
	CommandFailed    Category = "command.failed"
	SnapshotRecorded Category = "snapshot.recorded"
	SnapshotRestored Category = "snapshot.restored"
	EntityChanged    Category = "entity.changed"
)

// Event is the immutable record dispatched to observers. The ID is assigned
// by the publishing Hub from a monotonically increasing sequence; consumers
// may retain copies but must never mutate one.
type Event struct {
	ID       uint64
	Category Category
	Payload  any
	At       time.Time
}

// CommandInfo is the payload carried by command lifecycle events.
type CommandInfo struct {
	Name     string
	Duration time.Duration
	Err      error
}

// SnapshotInfo is the payload carried by snapshot lifecycle events.
type SnapshotInfo struct {
	ID     string
	Origin string
}

// ChangeInfo is the payload carried by entity.changed events.
type ChangeInfo struct {
	Entity string
	Value  any
}
