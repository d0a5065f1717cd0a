package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/trickstertwo/xstate"
)

// Store implements xstate.Store on a Redis list. Each entry is the opaque
// memento envelope; the store persists and evicts, never interprets.
type Store struct {
	cfg    Config
	client *redis.Client
}

var _ xstate.Store = (*Store)(nil)

// NewStore creates a Redis-backed snapshot store and verifies connectivity.
func NewStore(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("redisstore: %w", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.OpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redisstore: ping: %w", err)
	}

	return &Store{cfg: cfg, client: client}, nil
}

// Append pushes the memento envelope and trims to capacity (FIFO).
func (s *Store) Append(ctx context.Context, m *xstate.Memento) error {
	if m == nil {
		return fmt.Errorf("redisstore: nil memento")
	}
	data, err := m.MarshalBinary()
	if err != nil {
		return fmt.Errorf("redisstore: encode: %w", err)
	}

	octx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.client.RPush(octx, s.cfg.Key, data).Err(); err != nil {
		return fmt.Errorf("redisstore: rpush: %w", err)
	}
	if s.cfg.Capacity > 0 {
		if err := s.client.LTrim(octx, s.cfg.Key, -s.cfg.Capacity, -1).Err(); err != nil {
			return fmt.Errorf("redisstore: ltrim: %w", err)
		}
	}
	return nil
}

// At returns the memento at index, oldest first.
func (s *Store) At(ctx context.Context, index int) (*xstate.Memento, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: %d", xstate.ErrIndexOutOfRange, index)
	}

	octx, cancel := s.opContext(ctx)
	defer cancel()

	data, err := s.client.LIndex(octx, s.cfg.Key, int64(index)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %d", xstate.ErrIndexOutOfRange, index)
	}
	if err != nil {
		return nil, fmt.Errorf("redisstore: lindex: %w", err)
	}

	var m xstate.Memento
	if err := m.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("redisstore: decode: %w", err)
	}
	return &m, nil
}

// Len returns the number of retained mementos.
func (s *Store) Len(ctx context.Context) (int, error) {
	octx, cancel := s.opContext(ctx)
	defer cancel()

	n, err := s.client.LLen(octx, s.cfg.Key).Result()
	if err != nil {
		return 0, fmt.Errorf("redisstore: llen: %w", err)
	}
	return int(n), nil
}

// Clear discards all retained mementos.
func (s *Store) Clear(ctx context.Context) error {
	octx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.client.Del(octx, s.cfg.Key).Err(); err != nil {
		return fmt.Errorf("redisstore: del: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.OpTimeout > 0 {
		return context.WithTimeout(ctx, s.cfg.OpTimeout)
	}
	return ctx, func() {}
}
