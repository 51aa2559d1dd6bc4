package store

import "strings"

// State is a snapshot of shared state keyed by name.
//
// A State published by a [Container] must be treated as read-only. Values are
// arbitrary; no schema is enforced on either keys or values.
type State map[string]any

// Observer receives the new snapshot after every change to a store.
//
// ID identifies the observer for removal; two observers with the same ID are
// the same subscriber. Notify should only schedule work (for a component, a
// re-render) and return quickly.
type Observer interface {
	ID() string
	Notify(state State)
}

// Merge returns a new State holding every key of base overlaid by every key
// of partial. Neither argument is modified. A nil partial yields a copy of
// base.
func Merge(base, partial State) State {
	merged := make(State, len(base)+len(partial))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range partial {
		merged[k] = v
	}
	return merged
}

// Lookup walks nested maps using dot notation and returns the value found.
//
// For example, "user.profile.name" reads {"user": {"profile": {"name": ...}}}.
// Both State and map[string]any levels are followed. The second result is
// false when any segment is missing or a non-map value is reached early.
func Lookup(state State, path string) (any, bool) {
	if path == "" {
		return nil, false
	}

	var current any = map[string]any(state)
	for _, part := range strings.Split(path, ".") {
		var obj map[string]any
		switch v := current.(type) {
		case State:
			obj = v
		case map[string]any:
			obj = v
		default:
			return nil, false
		}

		next, ok := obj[part]
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}
