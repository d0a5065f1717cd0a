package xstate

import (
	"context"
	"sync/atomic"

	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xlog"
)

// Engine is the Facade tying a reactive entity to its Command Stack,
// Notification Hub and snapshot Caretaker. Commands mutate the entity
// through the stack; lifecycle events flow through the hub; snapshots are
// retained by the caretaker.
type Engine struct {
	entity    Originator
	hub       *Hub
	stack     *Stack
	caretaker *Caretaker
	clock     xclock.Clock
	logger    *xlog.Logger
	metrics   *engineMetrics
}

// engineMetrics uses lock-free atomics, with an exponential moving average
// for command latency.
type engineMetrics struct {
	executed       atomic.Uint64
	undone         atomic.Uint64
	redone         atomic.Uint64
	snapshots      atomic.Uint64
	restores       atomic.Uint64
	errorCount     atomic.Uint64
	dispatchErrors atomic.Uint64
	processingNs   atomic.Int64
}

// Metrics is an observable snapshot of engine telemetry.
type Metrics struct {
	Executed         uint64
	Undone           uint64
	Redone           uint64
	Snapshots        uint64
	Restores         uint64
	Errors           uint64
	DispatchErrors   uint64
	AvgCommandTimeMs float64
}

// Entity returns the engine's reactive entity.
func (e *Engine) Entity() Originator { return e.entity }

// Hub returns the notification hub.
func (e *Engine) Hub() *Hub { return e.hub }

// Stack returns the command stack.
func (e *Engine) Stack() *Stack { return e.stack }

// Caretaker returns the snapshot caretaker.
func (e *Engine) Caretaker() *Caretaker { return e.caretaker }

// Execute runs a command through the stack and publishes the outcome. A
// failed command leaves the stack unchanged and is surfaced immediately;
// observer dispatch failures are counted and logged, never fatal.
func (e *Engine) Execute(cmd Command) error {
	if cmd == nil {
		return ErrNilCommand
	}

	start := e.clock.Now()
	err := e.stack.Execute(cmd)
	duration := e.clock.Since(start)
	e.recordProcessingTime(duration.Nanoseconds())

	if err != nil {
		e.metrics.errorCount.Add(1)
		e.publish(CommandFailed, CommandInfo{Name: cmd.Name(), Duration: duration, Err: err})
		return err
	}

	e.metrics.executed.Add(1)
	e.publish(CommandExecuted, CommandInfo{Name: cmd.Name(), Duration: duration})
	return nil
}

// Undo reverses the most recent command. Fails with ErrEmptyHistory when
// nothing has been executed.
func (e *Engine) Undo() error {
	var name string
	if cmd, ok := e.stack.PeekHistory(); ok {
		name = cmd.Name()
	}

	start := e.clock.Now()
	err := e.stack.Undo()
	duration := e.clock.Since(start)

	if err != nil {
		e.metrics.errorCount.Add(1)
		return err
	}

	e.metrics.undone.Add(1)
	e.publish(CommandUndone, CommandInfo{Name: name, Duration: duration})
	return nil
}

// Redo re-applies the most recently undone command. Fails with ErrEmptyRedo
// when the redo branch is empty.
func (e *Engine) Redo() error {
	var name string
	if cmd, ok := e.stack.PeekRedo(); ok {
		name = cmd.Name()
	}

	start := e.clock.Now()
	err := e.stack.Redo()
	duration := e.clock.Since(start)

	if err != nil {
		e.metrics.errorCount.Add(1)
		return err
	}

	e.metrics.redone.Add(1)
	e.publish(CommandRedone, CommandInfo{Name: name, Duration: duration})
	return nil
}

// Save captures the entity state and records the memento with the
// caretaker.
func (e *Engine) Save(ctx context.Context) (*Memento, error) {
	m, err := e.entity.Snapshot()
	if err != nil {
		e.metrics.errorCount.Add(1)
		return nil, err
	}
	if err := e.caretaker.Record(ctx, m); err != nil {
		e.metrics.errorCount.Add(1)
		return nil, err
	}

	e.metrics.snapshots.Add(1)
	e.publish(SnapshotRecorded, SnapshotInfo{ID: m.ID(), Origin: m.Origin()})
	return m, nil
}

// Restore applies a memento to the entity. A failed restore never partially
// mutates the entity.
func (e *Engine) Restore(m *Memento) error {
	if err := e.entity.Restore(m); err != nil {
		e.metrics.errorCount.Add(1)
		return err
	}

	e.metrics.restores.Add(1)
	e.publish(SnapshotRestored, SnapshotInfo{ID: m.ID(), Origin: m.Origin()})
	return nil
}

// RestoreAt restores the entity from the caretaker's memento at index.
func (e *Engine) RestoreAt(ctx context.Context, index int) error {
	m, err := e.caretaker.At(ctx, index)
	if err != nil {
		e.metrics.errorCount.Add(1)
		return err
	}
	return e.Restore(m)
}

// GetMetrics returns current engine metrics.
func (e *Engine) GetMetrics() Metrics {
	return Metrics{
		Executed:         e.metrics.executed.Load(),
		Undone:           e.metrics.undone.Load(),
		Redone:           e.metrics.redone.Load(),
		Snapshots:        e.metrics.snapshots.Load(),
		Restores:         e.metrics.restores.Load(),
		Errors:           e.metrics.errorCount.Load(),
		DispatchErrors:   e.metrics.dispatchErrors.Load(),
		AvgCommandTimeMs: float64(e.metrics.processingNs.Load()) / 1e6,
	}
}

// publish dispatches a lifecycle event. The engine is the publisher and
// treats observer failures as non-fatal: they are counted and logged.
func (e *Engine) publish(category Category, payload any) {
	if err := e.hub.Publish(category, payload); err != nil {
		e.metrics.dispatchErrors.Add(1)
		e.logger.Warn().
			Str("category", string(category)).
			Err(err).
			Msg("xstate: observer dispatch failed")
	}
}

// recordProcessingTime keeps an exponential moving average of command time.
func (e *Engine) recordProcessingTime(ns int64) {
	const alpha = 0.2 // 20% weight to new sample
	current := e.metrics.processingNs.Load()
	if current == 0 {
		e.metrics.processingNs.Store(ns)
		return
	}
	newAvg := int64(float64(ns)*alpha + float64(current)*(1-alpha))
	e.metrics.processingNs.Store(newAvg)
}
