// Package config provides YAML store definitions for globalstore.
//
// A definition declares a store's initial state, a set of declarative
// actions, and an optional script of dispatches. It lets a store be described
// in a file instead of code, and is what the globalstore CLI runs.
//
// Example definition:
//
//	name: cart
//
//	initial_state:
//	  count: 0
//	  items: []
//	  owner: ${USER:-guest}
//
//	actions:
//	  - name: inc
//	    op: add:count
//	  - name: add_item
//	    op: append:items
//	  - name: reset
//	    op: assign
//	    value:
//	      count: 0
//	      items: []
//
//	script:
//	  - action: inc
//	    payload: 5
//	  - action: add_item
//	    payload: apple
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultName = "default"

// Op types understood by declarative actions.
const (
	// OpSet stores the payload under Key.
	OpSet = "set"

	// OpAdd adds a numeric payload to the number under Key. A missing key
	// counts as zero.
	OpAdd = "add"

	// OpAppend appends the payload to the list under Key. A missing key
	// counts as an empty list.
	OpAppend = "append"

	// OpToggle negates the boolean under Key. A missing key counts as false.
	// The payload is ignored.
	OpToggle = "toggle"

	// OpAssign merges the action's fixed Value into the state. The payload is
	// ignored.
	OpAssign = "assign"
)

// Config is the root of a YAML store definition.
//
// It maps directly to the YAML file structure. Use [Load] or [Parse] to
// create a Config from YAML.
type Config struct {
	// Name is the store name. Defaults to "default".
	Name string `yaml:"name"`

	// InitialState is merged into the store before any action runs.
	// String values support environment variable substitution:
	// ${VAR} or ${VAR:-default}
	InitialState map[string]any `yaml:"initial_state"`

	// Actions declares the store's action handlers.
	Actions []ActionConfig `yaml:"actions"`

	// Script is an ordered list of dispatches run by `globalstore run`.
	Script []StepConfig `yaml:"script"`
}

// ActionConfig declares one action.
type ActionConfig struct {
	// Name is the action name used to dispatch it.
	Name string `yaml:"name"`

	// Op determines what the action does to the state.
	// Can be shorthand ("add:count", "assign") or structured.
	Op OpConfig `yaml:"op"`

	// Value is the fixed partial state merged by an assign op.
	// String values support environment variable substitution.
	Value map[string]any `yaml:"value"`
}

// OpConfig specifies the operation a declarative action performs.
//
// It supports two formats in YAML:
//
// Shorthand string:
//
//	op: set:user
//	op: add:count
//	op: assign
//
// Structured object:
//
//	op:
//	  type: add
//	  key: count
type OpConfig struct {
	// Type is the op type: "set", "add", "append", "toggle", "assign".
	Type string

	// Key is the state key the op works on (all types except assign).
	Key string
}

// StepConfig is one dispatch in a script.
type StepConfig struct {
	// Action is the name of a declared action.
	Action string `yaml:"action"`

	// Payload is passed to the action as decoded from YAML.
	Payload any `yaml:"payload"`
}

// UnmarshalYAML implements yaml.Unmarshaler for OpConfig.
func (o *OpConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		return o.parseShorthand(s)
	}

	if node.Kind == yaml.MappingNode {
		// temporary struct to avoid infinite recursion
		var raw struct {
			Type string `yaml:"type"`
			Key  string `yaml:"key"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		o.Type = raw.Type
		o.Key = raw.Key
		return nil
	}

	return fmt.Errorf("op must be a string or object, got %v", node.Kind)
}

// String returns the shorthand form of the op.
func (o OpConfig) String() string {
	if o.Key == "" {
		return o.Type
	}
	return o.Type + ":" + o.Key
}

// parseShorthand parses op shorthand syntax.
//
// Supported formats:
//   - "assign" → merge the action's value
//   - "set:key", "add:key", "append:key", "toggle:key" → op on key
func (o *OpConfig) parseShorthand(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if idx := strings.Index(s, ":"); idx != -1 {
		o.Type = s[:idx]
		o.Key = s[idx+1:]

		switch o.Type {
		case OpSet, OpAdd, OpAppend, OpToggle:
		default:
			return fmt.Errorf("unknown op type %q", o.Type)
		}
		return nil
	}

	switch s {
	case OpAssign:
		o.Type = s
	default:
		return fmt.Errorf("unknown op %q (expected 'assign', 'set:key', 'add:key', 'append:key', or 'toggle:key')", s)
	}
	return nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// already have an error, skip processing
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// expandValue expands environment variables in every string reachable from
// v through maps and lists, returning the expanded copy.
func expandValue(v any) (any, error) {
	switch val := v.(type) {
	case string:
		return expandEnvVars(val)
	case map[string]any:
		return expandMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			expanded, err := expandValue(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = expanded
		}
		return out, nil
	default:
		return v, nil
	}
}

func expandMap(m map[string]any) (map[string]any, error) {
	if m == nil {
		return nil, nil
	}
	out := make(map[string]any, len(m))
	for k, item := range m {
		expanded, err := expandValue(item)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = expanded
	}
	return out, nil
}

// Load reads and parses a YAML store definition.
//
// Returns an error if the file cannot be read, parsed, or validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML store definition data.
//
// Environment variables are expanded in string values of InitialState and
// of assign values. Name defaults to "default".
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Name == "" {
		cfg.Name = defaultName
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	expanded, err := expandMap(c.InitialState)
	if err != nil {
		return fmt.Errorf("initial_state.%w", err)
	}
	c.InitialState = expanded

	if len(c.Actions) == 0 {
		return errors.New("at least one action must be defined")
	}

	declared := make(map[string]struct{}, len(c.Actions))
	for i := range c.Actions {
		a := &c.Actions[i]

		if a.Name == "" {
			return fmt.Errorf("actions[%d]: name is required", i)
		}
		if _, exists := declared[a.Name]; exists {
			return fmt.Errorf("actions[%d] (%s): duplicate action name", i, a.Name)
		}
		declared[a.Name] = struct{}{}

		if err := validateOp(a); err != nil {
			return fmt.Errorf("actions[%d] (%s): %w", i, a.Name, err)
		}

		expanded, err := expandMap(a.Value)
		if err != nil {
			return fmt.Errorf("actions[%d] (%s): value.%w", i, a.Name, err)
		}
		a.Value = expanded
	}

	for i, step := range c.Script {
		if step.Action == "" {
			return fmt.Errorf("script[%d]: action is required", i)
		}
		if _, ok := declared[step.Action]; !ok {
			return fmt.Errorf("script[%d]: action %q is not declared", i, step.Action)
		}
	}

	return nil
}

// validateOp validates an action's op against its other fields.
func validateOp(a *ActionConfig) error {
	switch a.Op.Type {
	case "":
		return errors.New("op is required")
	case OpSet, OpAdd, OpAppend, OpToggle:
		if a.Op.Key == "" {
			return fmt.Errorf("op type '%s' requires a key", a.Op.Type)
		}
		if a.Value != nil {
			return fmt.Errorf("op type '%s' does not take a value", a.Op.Type)
		}
	case OpAssign:
		if len(a.Value) == 0 {
			return errors.New("op type 'assign' requires a value")
		}
	default:
		return fmt.Errorf("unknown op type %q", a.Op.Type)
	}
	return nil
}
