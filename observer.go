package globalstore

import (
	"github.com/google/uuid"
	"github.com/jpalmerr/globalstore/internal/store"
)

// State is a snapshot of a store's shared state.
//
// Snapshots are replaced, never modified, so a State obtained from a store
// stays unchanged after later dispatches. Callers must not write to it.
type State = store.State

// Observer is notified with the new [State] after every dispatch.
//
// ID is the observer's identity: subscribing an ID twice is a no-op and
// unsubscribing matches on ID. Notify runs synchronously inside dispatch and
// should only schedule work, such as a component re-render.
type Observer = store.Observer

// ObserverFunc is an [Observer] backed by a function. Create one with
// [NewObserver].
type ObserverFunc struct {
	id string
	fn func(State)
}

// NewObserver wraps fn in an [Observer] with a fresh unique ID.
//
// Keep the returned value to unsubscribe later; a second NewObserver call with
// the same function is a different observer.
func NewObserver(fn func(State)) *ObserverFunc {
	return &ObserverFunc{id: uuid.NewString(), fn: fn}
}

// ID returns the observer's unique ID.
func (o *ObserverFunc) ID() string {
	return o.id
}

// Notify calls the wrapped function.
func (o *ObserverFunc) Notify(s State) {
	o.fn(s)
}

// Lookup reads a nested value from state using dot notation, such as
// "user.profile.name". Returns false if any segment is missing.
func Lookup(state State, path string) (any, bool) {
	return store.Lookup(state, path)
}
