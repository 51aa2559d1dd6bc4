package store

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
)

// Registry is the ordered set of observers subscribed to a store.
//
// Observers are notified in insertion order. Identity is the observer's ID:
// adding an ID that is already registered is a no-op, and removal matches on
// ID alone.
type Registry struct {
	mu        sync.RWMutex
	observers []Observer
	logger    *slog.Logger
}

// NewRegistry creates an empty Registry. Panics raised by observers during
// [Registry.NotifyAll] are logged to logger.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// Add appends o to the registry.
//
// Returns false if an observer with the same ID is already registered.
func (r *Registry) Add(o Observer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.observers {
		if existing.ID() == o.ID() {
			return false
		}
	}
	r.observers = append(r.observers, o)
	return true
}

// Remove deletes the observer with o's ID.
//
// Safe to call with an observer that was never added or already removed;
// returns false in that case.
func (r *Registry) Remove(o Observer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := o.ID()
	for i, existing := range r.observers {
		if existing.ID() == id {
			// copy so snapshots taken by NotifyAll are never rewritten
			next := make([]Observer, 0, len(r.observers)-1)
			next = append(next, r.observers[:i]...)
			r.observers = append(next, r.observers[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of registered observers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.observers)
}

// NotifyAll calls Notify on every observer registered at the time of the
// call, in insertion order, passing the same state to each.
//
// The lock is not held while observers run, so an observer may add or remove
// subscribers (its own included) without deadlocking. Such changes take
// effect from the next notification. Returns the number of observers called.
func (r *Registry) NotifyAll(state State) int {
	r.mu.RLock()
	observers := r.observers
	r.mu.RUnlock()

	for _, o := range observers {
		r.notifySafe(o, state)
	}
	return len(observers)
}

// notifySafe calls the observer with panic recovery.
// A panicking observer is logged with a correlation ID; the rest of the
// observers are still notified.
func (r *Registry) notifySafe(o Observer, state State) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("observer panic",
				"correlation_id", uuid.NewString(),
				"observer", o.ID(),
				"panic", fmt.Sprintf("%v", rec),
				"stack", string(debug.Stack()),
			)
		}
	}()
	o.Notify(state)
}
