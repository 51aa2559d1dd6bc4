package globalstore

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownAction is matched by every [UnknownActionError].
	ErrUnknownAction = errors.New("unknown action")

	// ErrDispatchInProgress is returned when a dispatch starts while another
	// dispatch on the same store has not finished. This covers a handler or
	// observer dispatching reentrantly as well as overlapping dispatches from
	// different goroutines. The rejected dispatch changes nothing.
	ErrDispatchInProgress = errors.New("dispatch already in progress")

	// ErrInvalidPayload is matched by every [PayloadError].
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrInvalidAction is returned when registering an action with an empty
	// name or a nil handler.
	ErrInvalidAction = errors.New("invalid action")
)

// UnknownActionError is returned by dispatch when no handler is registered
// under the requested name.
//
// Suggestion holds the closest registered action name, if one is close
// enough to be a likely typo, and is empty otherwise.
type UnknownActionError struct {
	Action     string
	Suggestion string
}

func (e *UnknownActionError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown action %q (did you mean %q?)", e.Action, e.Suggestion)
	}
	return fmt.Sprintf("unknown action %q", e.Action)
}

// Is reports whether target is [ErrUnknownAction].
func (e *UnknownActionError) Is(target error) bool {
	return target == ErrUnknownAction
}

// PayloadError is returned by handlers built with [Typed] when the payload
// does not have the handler's declared type.
type PayloadError struct {
	Want string
	Got  string
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("payload has type %s, want %s", e.Got, e.Want)
}

// Is reports whether target is [ErrInvalidPayload].
func (e *PayloadError) Is(target error) bool {
	return target == ErrInvalidPayload
}
