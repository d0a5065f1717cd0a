package xstate

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xlog"
)

// Hub is the Subject of the Observer pattern. It owns an ordered collection
// of non-owning observer references (insertion order = dispatch order) and
// the event sequence counter. Ownership of observers stays with whoever
// created them; the Hub only holds Refs.
type Hub struct {
	clock  xclock.Clock
	logger *xlog.Logger

	mu      sync.RWMutex
	entries []*hubEntry

	seq atomic.Uint64
}

type hubEntry struct {
	id  string
	ref Ref
}

// HubOption configures a Hub.
type HubOption func(*Hub)

func WithHubLogger(l *xlog.Logger) HubOption {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}

func WithHubClock(c xclock.Clock) HubOption {
	return func(h *Hub) {
		if c != nil {
			h.clock = c
		}
	}
}

// NewHub creates a Hub with no observers attached.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		clock:  xclock.Default(),
		logger: xlog.Default(),
	}
	for _, o := range opts {
		if o != nil {
			o(h)
		}
	}
	return h
}

// Attach registers an observer the Hub keeps alive until detached.
// Attachment is idempotent per identity: if a live observer with the same
// identity is already attached, this is a no-op.
func (h *Hub) Attach(obs Observer) {
	if obs == nil {
		return
	}
	h.AttachRef(Strong(obs))
}

// AttachRef registers a prepared reference, strong or weak. An expired entry
// with the same identity is replaced.
func (h *Hub) AttachRef(r Ref) {
	if r == nil {
		return
	}
	id := r.Identity()

	h.mu.Lock()
	defer h.mu.Unlock()

	for i, e := range h.entries {
		if e.id != id {
			continue
		}
		if _, ok := e.ref.Resolve(); ok {
			return
		}
		h.entries[i] = &hubEntry{id: id, ref: r}
		return
	}
	h.entries = append(h.entries, &hubEntry{id: id, ref: r})
}

// Detach removes every entry whose identity matches. Safe to call for an
// identity that was never attached, including from inside an observer
// callback during dispatch.
func (h *Hub) Detach(identity string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	kept := h.entries[:0]
	for _, e := range h.entries {
		if e.id != identity {
			kept = append(kept, e)
		}
	}
	h.entries = kept
}

// Observers returns the number of currently attached references, including
// weak ones that have not been pruned yet.
func (h *Hub) Observers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Sequence returns the id of the most recently published event.
func (h *Hub) Sequence() uint64 { return h.seq.Load() }

// Publish constructs an Event with the next sequence id and dispatches it.
func (h *Hub) Publish(category Category, payload any) error {
	return h.Notify(Event{
		ID:       h.seq.Add(1),
		Category: category,
		Payload:  payload,
		At:       h.clock.Now(),
	})
}

// Notify dispatches an event to every currently live observer in attachment
// order. The entry list is snapshotted before dispatch, so observers may
// attach or detach (themselves included) from inside their callback; such
// changes take effect from the next Notify. Expired weak references are
// pruned as a side effect of this call.
//
// A panicking observer does not abort dispatch to the rest: each failure is
// recovered, logged, and aggregated into the returned error as a
// DispatchError. The caller decides whether the aggregate is fatal.
func (h *Hub) Notify(e Event) error {
	h.mu.RLock()
	snapshot := make([]*hubEntry, len(h.entries))
	copy(snapshot, h.entries)
	h.mu.RUnlock()

	var errs []error
	var dead []*hubEntry

	for _, entry := range snapshot {
		obs, ok := entry.ref.Resolve()
		if !ok {
			dead = append(dead, entry)
			continue
		}
		if err := h.dispatch(obs, e); err != nil {
			errs = append(errs, &DispatchError{Identity: entry.id, Cause: err})
		}
	}

	if len(dead) > 0 {
		h.prune(dead)
	}
	return errors.Join(errs...)
}

// dispatch delivers one event to one observer, converting a panic into an
// error so dispatch to the remaining observers continues.
func (h *Hub) dispatch(obs Observer, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic recovered: %v", r)
			h.logger.Warn().
				Str("observer", obs.Identity()).
				Str("category", string(e.Category)).
				Err(err).
				Msg("xstate: observer panic (recovered)")
		}
	}()
	obs.OnEvent(e)
	return nil
}

// prune removes exactly the expired entries observed during a dispatch,
// leaving entries attached concurrently untouched.
func (h *Hub) prune(dead []*hubEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	kept := h.entries[:0]
	for _, e := range h.entries {
		expired := false
		for _, d := range dead {
			if e == d {
				expired = true
				break
			}
		}
		if !expired {
			kept = append(kept, e)
		}
	}
	h.entries = kept
}
