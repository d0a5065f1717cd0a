package redisstore

import (
	"fmt"
	"time"
)

// Config for the Redis snapshot store.
type Config struct {
	// Connection
	Addr     string
	Username string
	Password string
	DB       int

	// Key is the Redis list holding the snapshot envelopes.
	Key string
	// Capacity caps retained snapshots (0 = unbounded). At capacity, the
	// oldest entry is evicted.
	Capacity int64
	// OpTimeout bounds each Redis call (0 = rely on caller context).
	OpTimeout time.Duration
}

// Defaults returns a Config with safe defaults.
func Defaults() Config {
	return Config{
		Addr:      "127.0.0.1:6379",
		Key:       "xstate:snapshots",
		OpTimeout: 5 * time.Second,
	}
}

// Validate checks Config for readiness.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("config: addr required")
	}
	if c.Key == "" {
		return fmt.Errorf("config: key required")
	}
	if c.Capacity < 0 {
		return fmt.Errorf("config: capacity must be >= 0, got %d", c.Capacity)
	}
	return nil
}

// toMap converts Config to generic map for the store factory.
func (c Config) toMap() map[string]any {
	return map[string]any{
		"addr":       c.Addr,
		"username":   c.Username,
		"password":   c.Password,
		"db":         c.DB,
		"key":        c.Key,
		"capacity":   c.Capacity,
		"op_timeout": c.OpTimeout,
	}
}

// ConfigFromMap safely converts a generic map to Config with defaults.
func ConfigFromMap(m map[string]any) Config {
	c := Defaults()

	if v, ok := m["addr"].(string); ok && v != "" {
		c.Addr = v
	}
	if v, ok := m["username"].(string); ok {
		c.Username = v
	}
	if v, ok := m["password"].(string); ok {
		c.Password = v
	}
	if v, ok := m["db"].(int); ok {
		c.DB = v
	}
	if v, ok := m["key"].(string); ok && v != "" {
		c.Key = v
	}
	switch v := m["capacity"].(type) {
	case int:
		if v > 0 {
			c.Capacity = int64(v)
		}
	case int64:
		if v > 0 {
			c.Capacity = v
		}
	case float64:
		if v > 0 {
			c.Capacity = int64(v)
		}
	}
	switch v := m["op_timeout"].(type) {
	case time.Duration:
		if v > 0 {
			c.OpTimeout = v
		}
	case string:
		if p, err := time.ParseDuration(v); err == nil && p > 0 {
			c.OpTimeout = p
		}
	}

	return c
}
