package xstate

import (
	"strconv"
	"weak"

	"github.com/trickstertwo/xlog"
)

// Observer receives lifecycle events from a Hub. Implementations should be
// non-blocking. Identity is the key used for idempotent attach and detach.
type Observer interface {
	OnEvent(e Event)
	Identity() string
}

// ObserverFunc is an Adapter that lets a plain function satisfy Observer.
func ObserverFunc(identity string, fn func(e Event)) Observer {
	return funcObserver{id: identity, fn: fn}
}

type funcObserver struct {
	id string
	fn func(e Event)
}

func (o funcObserver) OnEvent(e Event) { o.fn(e) }
func (o funcObserver) Identity() string { return o.id }

// LoggingObserver is an Adapter that emits lifecycle events via xlog.
type LoggingObserver struct {
	Logger *xlog.Logger
}

func (o LoggingObserver) Identity() string { return "logging" }

func (o LoggingObserver) OnEvent(e Event) {
	if o.Logger == nil {
		return
	}
	ev := o.Logger.With(
		xlog.Str("category", string(e.Category)),
		xlog.Str("sequence", strconv.FormatUint(e.ID, 10)),
	)
	switch p := e.Payload.(type) {
	case CommandInfo:
		ev = ev.With(xlog.Str("command", p.Name), xlog.Dur("duration", p.Duration))
		if p.Err != nil {
			ev.Warn().Err(p.Err).Msg("xstate event")
			return
		}
	case SnapshotInfo:
		ev = ev.With(xlog.Str("snapshot_id", p.ID), xlog.Str("origin", p.Origin))
	}
	ev.Debug().Msg("xstate event")
}

// Ref is a non-owning, lifetime-checked handle to an Observer. The Hub never
// keeps an Observer alive through a weak Ref and never dispatches to a dead
// one; expired refs are pruned lazily during Notify.
type Ref interface {
	// Resolve returns the live Observer, or ok=false once it has expired.
	Resolve() (Observer, bool)
	// Identity returns the observer identity captured at attach time, valid
	// even after the backing observer is gone.
	Identity() string
}

// Strong wraps an Observer in a Ref that keeps it alive until detached.
func Strong(obs Observer) Ref { return strongRef{obs: obs} }

type strongRef struct{ obs Observer }

func (r strongRef) Resolve() (Observer, bool) { return r.obs, true }
func (r strongRef) Identity() string          { return r.obs.Identity() }

// Weak wraps a pointer-backed Observer in a Ref that does not keep it alive.
// Once the caller drops its last reference and the garbage collector reclaims
// the observer, the Ref stops resolving and the Hub prunes it.
func Weak[T any, P interface {
	Observer
	*T
}](obs P) Ref {
	return weakRef[T, P]{id: obs.Identity(), ptr: weak.Make((*T)(obs))}
}

type weakRef[T any, P interface {
	Observer
	*T
}] struct {
	id  string
	ptr weak.Pointer[T]
}

func (r weakRef[T, P]) Resolve() (Observer, bool) {
	p := r.ptr.Value()
	if p == nil {
		return nil, false
	}
	return P(p), true
}

func (r weakRef[T, P]) Identity() string { return r.id }
