package xstate

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Store is the Strategy interface for snapshot retention backends. The
// default is the in-memory ring; adapters may persist mementos elsewhere
// (always through the opaque binary envelope, never the state itself).
type Store interface {
	// Append adds a memento to the end of the sequence, evicting the oldest
	// entry if a configured capacity is exceeded (FIFO).
	Append(ctx context.Context, m *Memento) error
	// At returns the memento at index, or ErrIndexOutOfRange.
	At(ctx context.Context, index int) (*Memento, error)
	// Len returns the number of retained mementos.
	Len(ctx context.Context) (int, error)
	// Clear discards all retained mementos.
	Clear(ctx context.Context) error
}

// StoreFactory constructs stores from a config blob.
type StoreFactory func(cfg map[string]any) (Store, error)

const MemoryStoreName = "memory"

var (
	storeRegistryMu sync.RWMutex
	storeRegistry   = map[string]StoreFactory{
		MemoryStoreName: func(cfg map[string]any) (Store, error) {
			capacity := 0
			switch v := cfg["capacity"].(type) {
			case int:
				capacity = v
			case int64:
				capacity = int(v)
			case float64:
				capacity = int(v)
			}
			return NewMemoryStore(capacity), nil
		},
	}
)

// RegisterStore registers a snapshot store adapter by name.
func RegisterStore(name string, factory StoreFactory) error {
	if name == "" {
		return errors.New("store name must not be empty")
	}
	if factory == nil {
		return errors.New("store factory must not be nil")
	}
	storeRegistryMu.Lock()
	storeRegistry[name] = factory
	storeRegistryMu.Unlock()
	return nil
}

// NewStore constructs a store by name with config.
func NewStore(name string, cfg map[string]any) (Store, error) {
	storeRegistryMu.RLock()
	f, ok := storeRegistry[name]
	storeRegistryMu.RUnlock()
	if !ok {
		return nil, ErrUnknownStore{name: name}
	}
	return f(cfg)
}

// memoryStore keeps mementos in a capacity-bounded slice (ring semantics).
type memoryStore struct {
	capacity int

	mu       sync.RWMutex
	mementos []*Memento
}

// NewMemoryStore creates the in-memory store. capacity caps retention
// (0 = unbounded); at capacity, recording evicts the oldest entry.
func NewMemoryStore(capacity int) Store {
	return &memoryStore{capacity: capacity}
}

func (s *memoryStore) Append(_ context.Context, m *Memento) error {
	if m == nil {
		return fmt.Errorf("xstate: nil memento")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mementos = append(s.mementos, m)
	if s.capacity > 0 && len(s.mementos) > s.capacity {
		s.mementos = append(s.mementos[:0], s.mementos[1:]...)
	}
	return nil
}

func (s *memoryStore) At(_ context.Context, index int) (*Memento, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.mementos) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(s.mementos))
	}
	return s.mementos[index], nil
}

func (s *memoryStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.mementos), nil
}

func (s *memoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mementos = nil
	return nil
}
