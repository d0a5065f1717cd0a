package xstate

import (
	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xlog"
)

// EngineBuilder constructs Engine instances (Builder pattern). There is no
// process-wide default engine: every caller owns the instance it builds.
type EngineBuilder struct {
	entity Originator

	storeName string
	storeCfg  map[string]any
	storeInst Store

	snapshotCapacity int
	historyLimit     int

	middlewares []Middleware
	observers   []Observer
	logger      *xlog.Logger
	clock       xclock.Clock
}

// NewEngineBuilder returns a new builder with sensible defaults.
func NewEngineBuilder() *EngineBuilder {
	return &EngineBuilder{
		storeName: MemoryStoreName,
	}
}

// WithEntity sets the reactive entity the engine drives. Required.
func (eb *EngineBuilder) WithEntity(o Originator) *EngineBuilder {
	eb.entity = o
	return eb
}

// WithStore selects a registered snapshot store by name.
func (eb *EngineBuilder) WithStore(name string, cfg map[string]any) *EngineBuilder {
	eb.storeName = name
	eb.storeCfg = cfg
	return eb
}

// WithStoreInstance accepts a ready Store instance (e.g., from adapter Use()).
func (eb *EngineBuilder) WithStoreInstance(s Store) *EngineBuilder {
	eb.storeInst = s
	return eb
}

// WithSnapshotCapacity caps caretaker retention (0 = unbounded).
func (eb *EngineBuilder) WithSnapshotCapacity(n int) *EngineBuilder {
	if n >= 0 {
		eb.snapshotCapacity = n
	}
	return eb
}

// WithHistoryLimit caps the undo history (0 = unbounded).
func (eb *EngineBuilder) WithHistoryLimit(n int) *EngineBuilder {
	if n >= 0 {
		eb.historyLimit = n
	}
	return eb
}

func (eb *EngineBuilder) WithMiddleware(mw ...Middleware) *EngineBuilder {
	if len(mw) == 0 {
		return eb
	}
	eb.middlewares = append(eb.middlewares, mw...)
	return eb
}

func (eb *EngineBuilder) WithObserver(obs ...Observer) *EngineBuilder {
	for _, o := range obs {
		if o != nil {
			eb.observers = append(eb.observers, o)
		}
	}
	return eb
}

func (eb *EngineBuilder) WithLogger(l *xlog.Logger) *EngineBuilder {
	eb.logger = l
	return eb
}

func (eb *EngineBuilder) WithClock(c xclock.Clock) *EngineBuilder {
	eb.clock = c
	return eb
}

func (eb *EngineBuilder) Build() (*Engine, error) {
	if eb.entity == nil {
		return nil, ErrNoEntityConfigured
	}

	var clk xclock.Clock
	if eb.clock != nil {
		clk = eb.clock
	} else {
		clk = xclock.Default()
	}
	var lg *xlog.Logger
	if eb.logger != nil {
		lg = eb.logger
	} else {
		lg = xlog.Default()
	}

	var st Store
	var err error
	switch {
	case eb.storeInst != nil:
		st = eb.storeInst
	default:
		cfg := eb.storeCfg
		if cfg == nil {
			cfg = map[string]any{}
		}
		if _, ok := cfg["capacity"]; !ok && eb.snapshotCapacity > 0 {
			cfg["capacity"] = eb.snapshotCapacity
		}
		st, err = NewStore(eb.storeName, cfg)
		if err != nil {
			return nil, err
		}
	}

	hub := NewHub(WithHubLogger(lg), WithHubClock(clk))

	e := &Engine{
		entity:    eb.entity,
		hub:       hub,
		stack:     NewStack(eb.historyLimit, eb.middlewares...),
		caretaker: NewCaretakerWithStore(st),
		clock:     clk,
		logger:    lg,
		metrics:   &engineMetrics{},
	}

	// Attach logging observer first for dependable telemetry unless already
	// supplied externally.
	hasLoggingObserver := false
	for _, o := range eb.observers {
		if _, ok := o.(LoggingObserver); ok {
			hasLoggingObserver = true
			break
		}
	}
	if !hasLoggingObserver && lg != nil {
		hub.Attach(LoggingObserver{Logger: lg})
	}

	for _, o := range eb.observers {
		hub.Attach(o)
	}

	return e, nil
}

// New constructs an Engine via Builder for convenience.
func New(entity Originator, init func(eb *EngineBuilder)) (*Engine, error) {
	eb := NewEngineBuilder().WithEntity(entity)
	if init != nil {
		init(eb)
	}
	return eb.Build()
}
