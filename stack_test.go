package xstate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStack_ExecuteUndoRedoTransitions(t *testing.T) {
	c := NewCounter("c", nil)
	s := NewStack(0)

	require.NoError(t, s.Execute(Increment(c, 5)))
	assert.EqualValues(t, 5, c.Value())
	require.NoError(t, s.Execute(Increment(c, 3)))
	assert.EqualValues(t, 8, c.Value())
	assert.Equal(t, 2, s.HistoryLen())
	assert.Equal(t, 0, s.RedoLen())

	require.NoError(t, s.Undo())
	assert.EqualValues(t, 5, c.Value())
	assert.Equal(t, 1, s.HistoryLen())
	assert.Equal(t, 1, s.RedoLen())

	require.NoError(t, s.Redo())
	assert.EqualValues(t, 8, c.Value())
	assert.Equal(t, 2, s.HistoryLen())
	assert.Equal(t, 0, s.RedoLen())
}

func TestStack_UndoIsLeftInverseOfExecute(t *testing.T) {
	c := NewCounter("c", nil)
	s := NewStack(0)

	deltas := []int64{5, 3, 10, -2, 7}
	for _, d := range deltas {
		require.NoError(t, s.Execute(Increment(c, d)))
	}
	assert.EqualValues(t, 23, c.Value())

	// Undoing the last N executions restores the state before them.
	require.NoError(t, s.Undo())
	require.NoError(t, s.Undo())
	require.NoError(t, s.Undo())
	assert.EqualValues(t, 8, c.Value())
}

func TestStack_ExecuteClearsRedoBranch(t *testing.T) {
	c := NewCounter("c", nil)
	s := NewStack(0)

	require.NoError(t, s.Execute(Increment(c, 1)))
	require.NoError(t, s.Execute(Increment(c, 2)))
	require.NoError(t, s.Undo())
	assert.True(t, s.CanRedo())

	require.NoError(t, s.Execute(Increment(c, 4)))
	assert.False(t, s.CanRedo())
	assert.ErrorIs(t, s.Redo(), ErrEmptyRedo)
}

func TestStack_EmptyErrors(t *testing.T) {
	s := NewStack(0)

	assert.ErrorIs(t, s.Undo(), ErrEmptyHistory)
	assert.ErrorIs(t, s.Redo(), ErrEmptyRedo)
	assert.ErrorIs(t, s.Execute(nil), ErrNilCommand)
}

func TestStack_FailedExecuteLeavesStackUnchanged(t *testing.T) {
	c := NewCounter("c", nil)
	s := NewStack(0)

	require.NoError(t, s.Execute(Increment(c, 5)))
	require.NoError(t, s.Undo())

	errBoom := errors.New("boom")
	err := s.Execute(NewCommand("boom", func() error { return errBoom }, nil))
	require.Error(t, err)

	var ce *CommandError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "execute", ce.Op)
	assert.ErrorIs(t, err, errBoom)

	// Not pushed, redo branch untouched.
	assert.Equal(t, 0, s.HistoryLen())
	assert.Equal(t, 1, s.RedoLen())
}

func TestStack_PanickingExecuteIsRecovered(t *testing.T) {
	s := NewStack(0)

	err := s.Execute(NewCommand("bomb", func() error { panic("kaboom") }, nil))
	require.Error(t, err)
	assert.Equal(t, 0, s.HistoryLen())
}

func TestStack_FailedUndoRestoresHistoryTop(t *testing.T) {
	s := NewStack(0)

	errStuck := errors.New("stuck")
	cmd := NewCommand("stubborn",
		func() error { return nil },
		func() error { return errStuck },
	)
	require.NoError(t, s.Execute(cmd))

	err := s.Undo()
	require.Error(t, err)
	assert.ErrorIs(t, err, errStuck)

	// Command is back on top of history, nothing moved to redo.
	assert.Equal(t, 1, s.HistoryLen())
	assert.Equal(t, 0, s.RedoLen())
	top, ok := s.PeekHistory()
	require.True(t, ok)
	assert.Equal(t, "stubborn", top.Name())
}

func TestStack_FailedRedoRestoresRedoTop(t *testing.T) {
	s := NewStack(0)

	errFlaky := errors.New("flaky")
	calls := 0
	cmd := NewCommand("flaky",
		func() error {
			calls++
			if calls > 1 {
				return errFlaky
			}
			return nil
		},
		func() error { return nil },
	)

	require.NoError(t, s.Execute(cmd))
	require.NoError(t, s.Undo())

	err := s.Redo()
	require.Error(t, err)
	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 1, s.RedoLen())
	assert.Equal(t, 0, s.HistoryLen())
}

func TestStack_HistoryLimitEvictsOldest(t *testing.T) {
	c := NewCounter("c", nil)
	s := NewStack(2)

	require.NoError(t, s.Execute(Increment(c, 1)))
	require.NoError(t, s.Execute(Increment(c, 2)))
	require.NoError(t, s.Execute(Increment(c, 4)))
	assert.Equal(t, 2, s.HistoryLen())

	// Only the two most recent commands remain undoable.
	require.NoError(t, s.Undo())
	require.NoError(t, s.Undo())
	assert.ErrorIs(t, s.Undo(), ErrEmptyHistory)
	assert.EqualValues(t, 1, c.Value())
}

func TestStack_IrreversibleCommandIsExcludedFromHistory(t *testing.T) {
	s := NewStack(0)

	ran := false
	cmd := NewIrreversible("audit-log", func() error {
		ran = true
		return nil
	})

	require.NoError(t, s.Execute(cmd))
	assert.True(t, ran)
	assert.Equal(t, 0, s.HistoryLen())
	assert.ErrorIs(t, s.Undo(), ErrEmptyHistory)
	assert.ErrorIs(t, cmd.Undo(), ErrIrreversible)
}
