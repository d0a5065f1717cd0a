package redisstore

// Package redisstore provides a Redis-backed snapshot store for xstate.
//
// Store name: "redis-list"
//
// Mementos are persisted as opaque binary envelopes in a Redis list; the
// store never interprets snapshot contents. Capacity is enforced with LTRIM
// (FIFO eviction of the oldest entries), matching the in-memory store's
// ring semantics.
//
// Minimal config keys:
// - addr: "host:port" (default "127.0.0.1:6379")
// - key: list key holding the snapshots (default "xstate:snapshots")
// - capacity: max retained snapshots, 0 = unbounded (default 0)
//
// Example builder usage:
//
//	engine, _ := xstate.NewEngineBuilder().
//	    WithEntity(entity).
//	    WithStore(redisstore.StoreName, map[string]any{
//	        "addr":     "localhost:6379",
//	        "key":      "editor:snapshots",
//	        "capacity": 64,
//	    }).
//	    Build()
