package config

import (
	"errors"
	"fmt"

	"github.com/jpalmerr/globalstore"
)

// ErrNotNumeric is returned by add actions when the payload or the current
// value is not a number.
var ErrNotNumeric = errors.New("value is not numeric")

// Build converts a parsed definition into the initial state and action
// handlers for a store.
func Build(cfg *Config) (globalstore.Actions, globalstore.State, error) {
	actions := make(globalstore.Actions, len(cfg.Actions))
	for _, ac := range cfg.Actions {
		h, err := buildHandler(ac)
		if err != nil {
			return nil, nil, fmt.Errorf("action %q: %w", ac.Name, err)
		}
		actions[ac.Name] = h
	}

	var initial globalstore.State
	if cfg.InitialState != nil {
		initial = globalstore.State(cfg.InitialState)
	}
	return actions, initial, nil
}

// NewStore builds a store from a parsed definition. Additional options, such
// as a logger, are applied after the definition's name, state, and actions.
func NewStore(cfg *Config, opts ...globalstore.Option) (*globalstore.Store, error) {
	actions, initial, err := Build(cfg)
	if err != nil {
		return nil, err
	}

	all := []globalstore.Option{
		globalstore.WithName(cfg.Name),
		globalstore.WithInitialState(initial),
		globalstore.WithActions(actions),
	}
	return globalstore.New(append(all, opts...)...)
}

// buildHandler converts a single ActionConfig to a handler.
func buildHandler(ac ActionConfig) (globalstore.Handler, error) {
	key := ac.Op.Key

	switch ac.Op.Type {
	case OpSet:
		return globalstore.Pure(func(_ globalstore.State, payload any) globalstore.State {
			return globalstore.State{key: payload}
		}), nil

	case OpAdd:
		return func(s globalstore.State, payload any) (globalstore.State, error) {
			sum, err := addNumbers(s[key], payload)
			if err != nil {
				return nil, fmt.Errorf("add to %q: %w", key, err)
			}
			return globalstore.State{key: sum}, nil
		}, nil

	case OpAppend:
		return func(s globalstore.State, payload any) (globalstore.State, error) {
			var current []any
			switch v := s[key].(type) {
			case nil:
			case []any:
				current = v
			default:
				return nil, fmt.Errorf("append to %q: value is %T, not a list", key, v)
			}
			// copy so the previous snapshot's list is never shared and grown
			next := make([]any, 0, len(current)+1)
			next = append(next, current...)
			return globalstore.State{key: append(next, payload)}, nil
		}, nil

	case OpToggle:
		return func(s globalstore.State, _ any) (globalstore.State, error) {
			switch v := s[key].(type) {
			case nil:
				return globalstore.State{key: true}, nil
			case bool:
				return globalstore.State{key: !v}, nil
			default:
				return nil, fmt.Errorf("toggle %q: value is %T, not a bool", key, v)
			}
		}, nil

	case OpAssign:
		value := ac.Value
		return globalstore.Pure(func(globalstore.State, any) globalstore.State {
			partial := make(globalstore.State, len(value))
			for k, v := range value {
				partial[k] = v
			}
			return partial
		}), nil

	default:
		return nil, fmt.Errorf("unknown op type %q", ac.Op.Type)
	}
}

// addNumbers adds b to a. A nil a counts as zero. Two ints stay an int;
// anything else numeric is added as float64.
func addNumbers(a, b any) (any, error) {
	if a == nil {
		a = 0
	}

	ai, aInt := a.(int)
	bi, bInt := b.(int)
	if aInt && bInt {
		return ai + bi, nil
	}

	af, ok := toFloat(a)
	if !ok {
		return nil, fmt.Errorf("current %w (%T)", ErrNotNumeric, a)
	}
	bf, ok := toFloat(b)
	if !ok {
		return nil, fmt.Errorf("payload %w (%T)", ErrNotNumeric, b)
	}
	return af + bf, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}
