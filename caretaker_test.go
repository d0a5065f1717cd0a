package xstate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotOf(t *testing.T, c *Counter, v int64) *Memento {
	t.Helper()
	require.NoError(t, c.Set(v))
	m, err := c.Snapshot()
	require.NoError(t, err)
	return m
}

func TestCaretaker_RecordAndAt(t *testing.T) {
	ctx := context.Background()
	c := NewCounter("c", nil)
	ct := NewCaretaker(0)

	first := snapshotOf(t, c, 1)
	second := snapshotOf(t, c, 2)
	require.NoError(t, ct.Record(ctx, first))
	require.NoError(t, ct.Record(ctx, second))

	n, err := ct.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := ct.At(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, first.ID(), got.ID())
}

func TestCaretaker_CapacityEvictsOldestFIFO(t *testing.T) {
	ctx := context.Background()
	c := NewCounter("c", nil)
	ct := NewCaretaker(2)

	first := snapshotOf(t, c, 1)
	second := snapshotOf(t, c, 2)
	third := snapshotOf(t, c, 3)
	require.NoError(t, ct.Record(ctx, first))
	require.NoError(t, ct.Record(ctx, second))
	require.NoError(t, ct.Record(ctx, third))

	n, err := ct.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Recording a third memento evicted the first; index 0 is now the second.
	got, err := ct.At(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, second.ID(), got.ID())
}

func TestCaretaker_AtOutOfRange(t *testing.T) {
	ctx := context.Background()
	ct := NewCaretaker(0)

	_, err := ct.At(ctx, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = ct.At(ctx, -1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestCaretaker_Clear(t *testing.T) {
	ctx := context.Background()
	c := NewCounter("c", nil)
	ct := NewCaretaker(0)

	require.NoError(t, ct.Record(ctx, snapshotOf(t, c, 1)))
	require.NoError(t, ct.Clear(ctx))

	n, err := ct.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestNewStore_UnknownName(t *testing.T) {
	_, err := NewStore("bogus", nil)
	require.Error(t, err)

	var unknown ErrUnknownStore
	assert.ErrorAs(t, err, &unknown)
}
