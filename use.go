package globalstore

import (
	"strconv"
)

// Host is the part of a UI framework's component instance that a store needs
// in order to push updates to it.
//
// The [github.com/jpalmerr/globalstore/component] package provides a
// reference implementation; bindings for other frameworks implement Host on
// top of their own component model.
type Host interface {
	// Trigger returns the observer that schedules a re-render of this
	// instance. It must return an observer with the same ID on every render
	// of the same instance.
	Trigger() Observer

	// Effect declares a side effect for the current render. The host runs
	// setup once after the first render that declares key while mounted, and
	// runs the returned cleanup (which may be nil) on unmount or after the
	// first render that no longer declares key.
	Effect(key string, setup func() (cleanup func()))
}

// DispatchFunc dispatches an action on the store it was obtained from.
// See [Store.Dispatch].
type DispatchFunc func(action string, payload any) error

// Use returns the current state and the store's dispatch function. It is
// called on every render of a component.
//
// When shouldListen is true, the host's trigger is subscribed once the
// component mounts and unsubscribed when it unmounts, so the component is
// re-rendered after every dispatch in between. When shouldListen is false
// the component is never subscribed; it still gets a current snapshot
// whenever it renders for other reasons.
//
// Example:
//
//	func render(c *component.Instance) {
//	    state, dispatch := cart.Use(c, true)
//	    ...
//	}
func (s *Store) Use(h Host, shouldListen bool) (State, DispatchFunc) {
	// the key changes with shouldListen so toggling it re-runs the effect
	h.Effect(s.effectKey(shouldListen), func() func() {
		if !shouldListen {
			return nil
		}
		trigger := h.Trigger()
		s.Subscribe(trigger)
		return func() {
			s.Unsubscribe(trigger)
		}
	})

	return s.State(), s.Dispatch
}

func (s *Store) effectKey(shouldListen bool) string {
	return "globalstore:" + s.id + ":listen=" + strconv.FormatBool(shouldListen)
}

var defaultStore = newStore(defaultStoreName, nil, nil)

// Default returns the process-wide store used by [UseStore] and
// [InitStore].
//
// Prefer creating stores with [New] and passing them to the code that needs
// them; Default exists for applications that want a single implicit store.
func Default() *Store {
	return defaultStore
}

// UseStore is [Store.Use] on the [Default] store. shouldListen defaults to
// true when omitted.
func UseStore(h Host, shouldListen ...bool) (State, DispatchFunc) {
	listen := true
	if len(shouldListen) > 0 {
		listen = shouldListen[0]
	}
	return defaultStore.Use(h, listen)
}

// InitStore is [Store.Init] on the [Default] store.
func InitStore(actions Actions, initial State) error {
	return defaultStore.Init(actions, initial)
}
