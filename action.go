package globalstore

import (
	"fmt"
	"reflect"
)

// Handler computes a partial state update from the current state and a
// payload.
//
// Handlers must be pure: they read state and payload and return the keys to
// change. The returned partial is shallow-merged into the store; keys it does
// not mention keep their values. A non-nil error aborts the dispatch and
// leaves the state unchanged.
//
// The state passed in is a published snapshot and must not be modified.
type Handler func(state State, payload any) (State, error)

// Actions maps action names to their handlers.
type Actions map[string]Handler

// Typed adapts a handler with a concrete payload type into a [Handler].
//
// The payload is type-asserted to P before fn runs. A nil payload is passed
// as the zero value of P. Any other payload of the wrong type fails the
// dispatch with a [PayloadError].
//
// Example:
//
//	inc := globalstore.Typed(func(s globalstore.State, n int) (globalstore.State, error) {
//	    count, _ := s["count"].(int)
//	    return globalstore.State{"count": count + n}, nil
//	})
func Typed[P any](fn func(state State, payload P) (State, error)) Handler {
	return func(state State, payload any) (State, error) {
		var p P
		if payload != nil {
			v, ok := payload.(P)
			if !ok {
				return nil, &PayloadError{
					Want: reflect.TypeOf((*P)(nil)).Elem().String(),
					Got:  fmt.Sprintf("%T", payload),
				}
			}
			p = v
		}
		return fn(state, p)
	}
}

// Pure adapts a handler that cannot fail into a [Handler].
func Pure(fn func(state State, payload any) State) Handler {
	return func(state State, payload any) (State, error) {
		return fn(state, payload), nil
	}
}
