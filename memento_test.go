package xstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter_SnapshotRestoreRoundTrip(t *testing.T) {
	c := NewCounter("c", nil)
	require.NoError(t, c.Set(42))

	m, err := c.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "counter", m.Origin())
	assert.Equal(t, 1, m.Version())
	assert.NotEmpty(t, m.ID())

	// Snapshot then restore with no intervening mutation is a no-op.
	require.NoError(t, c.Restore(m))
	assert.EqualValues(t, 42, c.Value())

	require.NoError(t, c.Set(1000))
	require.NoError(t, c.Restore(m))
	assert.EqualValues(t, 42, c.Value())
}

func TestCounter_SnapshotIsPure(t *testing.T) {
	hub := NewHub()
	seen := &recordingObserver{id: "seen"}
	hub.Attach(seen)

	c := NewCounter("c", hub)
	_, err := c.Snapshot()
	require.NoError(t, err)

	assert.Empty(t, seen.events)
}

func TestCounter_RestoreRejectsForeignOrigin(t *testing.T) {
	c := NewCounter("c", nil)
	require.NoError(t, c.Set(7))

	foreign, err := Capture("document", 1, nil, map[string]string{"body": "hello"})
	require.NoError(t, err)

	err = c.Restore(foreign)
	assert.ErrorIs(t, err, ErrIncompatibleSnapshot)
	assert.EqualValues(t, 7, c.Value())
}

func TestCounter_RestoreRejectsVersionMismatch(t *testing.T) {
	c := NewCounter("c", nil)
	require.NoError(t, c.Set(7))

	stale, err := Capture(counterOrigin, counterVersion+1, nil, counterState{Name: "c", Value: 99})
	require.NoError(t, err)

	err = c.Restore(stale)
	assert.ErrorIs(t, err, ErrIncompatibleSnapshot)
	assert.EqualValues(t, 7, c.Value())
}

func TestCounter_FailedRestoreNeverPartiallyMutates(t *testing.T) {
	c := NewCounter("c", nil)
	require.NoError(t, c.Set(7))

	corrupt, err := Capture(counterOrigin, counterVersion, nil, counterState{Value: 3})
	require.NoError(t, err)
	corrupt.state = []byte("{not json")

	require.Error(t, c.Restore(corrupt))
	assert.EqualValues(t, 7, c.Value())
}

func TestMemento_EnvelopeIsOpaqueToCarriers(t *testing.T) {
	c := NewCounter("c", nil)
	require.NoError(t, c.Set(13))

	m, err := c.Snapshot()
	require.NoError(t, err)

	// A carrier can move the envelope without interpreting it.
	data, err := m.MarshalBinary()
	require.NoError(t, err)

	var carried Memento
	require.NoError(t, carried.UnmarshalBinary(data))
	assert.Equal(t, m.ID(), carried.ID())
	assert.Equal(t, m.Origin(), carried.Origin())

	other := NewCounter("other", nil)
	require.NoError(t, other.Restore(&carried))
	assert.EqualValues(t, 13, other.Value())
}

func TestRecover_NilMemento(t *testing.T) {
	_, err := Recover[counterState](counterOrigin, counterVersion, nil, nil)
	assert.ErrorIs(t, err, ErrIncompatibleSnapshot)
}
