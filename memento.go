package xstate

import (
	"encoding"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Memento is an opaque, immutable capture of an entity's internal state.
// The state bytes are unexported: a Caretaker (or a Store) can hold, move
// and persist a Memento but never interpret it. Decoding requires the
// origin tag, schema version and codec of the entity that produced it,
// via Recover.
type Memento struct {
	id      uuid.UUID
	origin  string
	version int
	codec   string
	takenAt time.Time
	state   []byte
}

// ID returns the snapshot identifier.
func (m *Memento) ID() string { return m.id.String() }

// Origin returns the entity type tag that produced the snapshot.
func (m *Memento) Origin() string { return m.origin }

// Version returns the schema version of the captured state.
func (m *Memento) Version() int { return m.version }

// TakenAt returns the capture timestamp.
func (m *Memento) TakenAt() time.Time { return m.takenAt }

// Originator is implemented by reactive entities that can capture and
// restore their own state. Snapshot is pure; Restore applies fully or, on
// validation failure, not at all.
type Originator interface {
	Snapshot() (*Memento, error)
	Restore(m *Memento) error
}

// Capture encodes entity state into a Memento. origin and version form the
// capability tag checked by Recover; c defaults to the JSON codec.
func Capture[T any](origin string, version int, c Codec, state T) (*Memento, error) {
	if c == nil {
		c = JSONCodec{}
	}
	data, err := c.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("xstate: capture %q: %w", origin, err)
	}
	return &Memento{
		id:      uuid.New(),
		origin:  origin,
		version: version,
		codec:   c.Name(),
		takenAt: time.Now(),
		state:   data,
	}, nil
}

// Recover decodes the state held by a Memento. It fails with
// ErrIncompatibleSnapshot when the memento did not originate from the given
// origin/version, or when its state no longer decodes; either way nothing is
// mutated, so callers can validate before applying.
func Recover[T any](origin string, version int, c Codec, m *Memento) (T, error) {
	var v T
	if m == nil {
		return v, fmt.Errorf("%w: nil memento", ErrIncompatibleSnapshot)
	}
	if m.origin != origin {
		return v, fmt.Errorf("%w: origin %q, want %q", ErrIncompatibleSnapshot, m.origin, origin)
	}
	if m.version != version {
		return v, fmt.Errorf("%w: version %d, want %d", ErrIncompatibleSnapshot, m.version, version)
	}
	if c == nil {
		var err error
		if c, err = NewCodec(m.codec); err != nil {
			c = JSONCodec{}
		}
	}
	if err := c.Unmarshal(m.state, &v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrIncompatibleSnapshot, err)
	}
	return v, nil
}

// mementoEnvelope is the persistence form used by stores. The state bytes
// travel as-is; stores still cannot interpret them without the entity's
// codec and capability tag.
type mementoEnvelope struct {
	ID      uuid.UUID `json:"id"`
	Origin  string    `json:"origin"`
	Version int       `json:"version"`
	Codec   string    `json:"codec"`
	TakenAt time.Time `json:"taken_at"`
	State   []byte    `json:"state"`
}

var (
	_ encoding.BinaryMarshaler   = (*Memento)(nil)
	_ encoding.BinaryUnmarshaler = (*Memento)(nil)
)

// MarshalBinary encodes the memento envelope for storage adapters.
func (m *Memento) MarshalBinary() ([]byte, error) {
	return json.Marshal(mementoEnvelope{
		ID:      m.id,
		Origin:  m.origin,
		Version: m.version,
		Codec:   m.codec,
		TakenAt: m.takenAt,
		State:   m.state,
	})
}

// UnmarshalBinary decodes a memento envelope produced by MarshalBinary.
func (m *Memento) UnmarshalBinary(data []byte) error {
	var env mementoEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("xstate: memento envelope: %w", err)
	}
	m.id = env.ID
	m.origin = env.Origin
	m.version = env.Version
	m.codec = env.Codec
	m.takenAt = env.TakenAt
	m.state = env.State
	return nil
}
