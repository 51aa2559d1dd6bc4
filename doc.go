// Package globalstore provides a small shared-state store for component-based
// user interfaces.
//
// A [Store] holds one [State] snapshot, a registry of subscribed observers,
// and a table of named action handlers. Dispatching an action runs its
// handler against the current snapshot, shallow-merges the returned partial
// into a new snapshot, and synchronously notifies every subscriber. It
// follows the reducer pattern without middleware, batching, or persistence.
//
// # Quick Start
//
//	inc := globalstore.Typed(func(s globalstore.State, n int) (globalstore.State, error) {
//	    count, _ := s["count"].(int)
//	    return globalstore.State{"count": count + n}, nil
//	})
//
//	s, _ := globalstore.New(
//	    globalstore.WithInitialState(globalstore.State{"count": 0}),
//	    globalstore.WithActions(globalstore.Actions{"inc": inc}),
//	)
//
//	_ = s.Dispatch("inc", 5) // {count: 5}
//	_ = s.Dispatch("inc", 3) // {count: 8}
//
// # Components
//
// UI code reaches a store through [Store.Use], passing a [Host] for the
// component instance being rendered. A listening component is subscribed
// when it mounts and unsubscribed when it unmounts:
//
//	func render(c *component.Instance) {
//	    state, dispatch := s.Use(c, true)
//	    ...
//	}
//
// [UseStore] and [InitStore] operate on a process-wide [Default] store for
// applications that want one implicit store.
//
// # Errors
//
// Dispatching an unregistered name returns an [*UnknownActionError]. Handler
// errors are returned to the caller wrapped with the action name. A dispatch
// that starts while another one on the same store is still running (for
// example, from inside a handler or observer) fails with
// [ErrDispatchInProgress]. In every error case the state is unchanged.
//
// # Architecture
//
// The root package is the public API. Supporting packages:
//
//   - internal/store: snapshot container and subscriber registry
//   - component: reference [Host] implementation with mount/unmount effects
//   - config: YAML store definitions with declarative actions
//   - cmd/globalstore: CLI that runs and validates YAML store definitions
package globalstore
