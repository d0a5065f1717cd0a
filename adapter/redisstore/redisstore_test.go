package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trickstertwo/xstate"
)

// testStore returns a connected Store for testing, skipping when no Redis
// server is reachable.
func testStore(t *testing.T, capacity int64) *Store {
	t.Helper()

	cfg := Defaults()
	cfg.Key = "xstate:test:" + t.Name()
	cfg.Capacity = capacity
	cfg.OpTimeout = 2 * time.Second

	s, err := NewStore(cfg)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Clear(context.Background())
		_ = s.Close()
	})
	return s
}

func snapshot(t *testing.T, v int64) *xstate.Memento {
	t.Helper()
	c := xstate.NewCounter("c", nil)
	require.NoError(t, c.Set(v))
	m, err := c.Snapshot()
	require.NoError(t, err)
	return m
}

func TestStore_AppendAtRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := testStore(t, 0)

	first := snapshot(t, 1)
	second := snapshot(t, 2)
	require.NoError(t, s.Append(ctx, first))
	require.NoError(t, s.Append(ctx, second))

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := s.At(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, first.ID(), got.ID())
	assert.Equal(t, first.Origin(), got.Origin())

	// The persisted memento still restores into its entity.
	c := xstate.NewCounter("c", nil)
	require.NoError(t, c.Restore(got))
	assert.EqualValues(t, 1, c.Value())
}

func TestStore_CapacityEvictsOldest(t *testing.T) {
	ctx := context.Background()
	s := testStore(t, 2)

	second := snapshot(t, 2)
	require.NoError(t, s.Append(ctx, snapshot(t, 1)))
	require.NoError(t, s.Append(ctx, second))
	require.NoError(t, s.Append(ctx, snapshot(t, 3)))

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := s.At(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, second.ID(), got.ID())
}

func TestStore_AtOutOfRange(t *testing.T) {
	ctx := context.Background()
	s := testStore(t, 0)

	_, err := s.At(ctx, 0)
	assert.ErrorIs(t, err, xstate.ErrIndexOutOfRange)
	_, err = s.At(ctx, -1)
	assert.ErrorIs(t, err, xstate.ErrIndexOutOfRange)
}

func TestStore_BacksACaretaker(t *testing.T) {
	ctx := context.Background()
	s := testStore(t, 0)

	ct := xstate.NewCaretakerWithStore(s)
	require.NoError(t, ct.Record(ctx, snapshot(t, 9)))

	got, err := ct.At(ctx, 0)
	require.NoError(t, err)

	c := xstate.NewCounter("c", nil)
	require.NoError(t, c.Restore(got))
	assert.EqualValues(t, 9, c.Value())
}

func TestConfig_Validate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	cfg.Addr = ""
	assert.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.Key = ""
	assert.Error(t, cfg.Validate())
}

func TestConfigFromMap_Defaults(t *testing.T) {
	cfg := ConfigFromMap(map[string]any{
		"addr":       "localhost:6380",
		"key":        "snapshots",
		"capacity":   16,
		"op_timeout": "3s",
	})
	assert.Equal(t, "localhost:6380", cfg.Addr)
	assert.Equal(t, "snapshots", cfg.Key)
	assert.EqualValues(t, 16, cfg.Capacity)
	assert.Equal(t, 3*time.Second, cfg.OpTimeout)

	cfg = ConfigFromMap(nil)
	assert.Equal(t, Defaults().Addr, cfg.Addr)
	assert.Equal(t, Defaults().Key, cfg.Key)
}
