package redisstore

import (
	"fmt"

	"github.com/trickstertwo/xstate"
)

// Adapter: Redis list snapshot Store (Strategy + Adapter patterns)

const StoreName = "redis-list"

func init() {
	if err := xstate.RegisterStore(StoreName, func(cfg map[string]any) (xstate.Store, error) {
		return NewStore(ConfigFromMap(cfg))
	}); err != nil {
		panic(fmt.Errorf("xstate: failed to register store %q: %w", StoreName, err))
	}
}

// Use builds a ready Store for EngineBuilder.WithStoreInstance, panicking
// on construction failure. Mirrors xlog/xclock "Use" behavior: explicit,
// fail-fast wiring at startup.
func Use(cfg Config) *Store {
	s, err := NewStore(cfg)
	if err != nil {
		panic(fmt.Errorf("redisstore.Use: %w", err))
	}
	return s
}
