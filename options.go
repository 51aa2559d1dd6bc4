package globalstore

import (
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// storeConfig holds mutable state during Store construction.
type storeConfig struct {
	name     string
	logger   *slog.Logger
	initial  []State
	actions  []Actions
	registry prometheus.Registerer
	tracer   trace.Tracer
}

// Option is a function that configures a [Store] during construction.
//
// Option implements the functional options pattern. Options return an error
// if validation fails, and [New] returns that error.
//
// Built-in options: [WithName], [WithLogger], [WithInitialState],
// [WithActions], [WithMetrics], [WithTracer].
type Option func(*storeConfig) error

// WithName sets the store name used in logs, metric labels, and span
// attributes. Defaults to "default".
//
// Returns an error if the name is empty.
func WithName(name string) Option {
	return func(cfg *storeConfig) error {
		if name == "" {
			return errors.New("store name cannot be empty")
		}
		cfg.name = name
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the store.
//
// If not specified, [slog.Default] is used.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
//	s, err := globalstore.New(globalstore.WithLogger(logger))
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *storeConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithInitialState merges state into the store before it is returned.
//
// Can be given multiple times; partials are merged in order, as with
// repeated calls to [Store.Init].
func WithInitialState(state State) Option {
	return func(cfg *storeConfig) error {
		if state != nil {
			cfg.initial = append(cfg.initial, state)
		}
		return nil
	}
}

// WithActions registers handlers before the store is returned.
//
// Can be given multiple times; a later name overwrites an earlier one.
// Returns an error if any entry has an empty name or a nil handler.
func WithActions(actions Actions) Option {
	return func(cfg *storeConfig) error {
		if err := validateActions(actions); err != nil {
			return err
		}
		cfg.actions = append(cfg.actions, actions)
		return nil
	}
}

// WithMetrics registers Prometheus collectors for the store with reg.
//
// Collected metrics:
//   - globalstore_dispatch_total{store,action,result}
//   - globalstore_dispatch_duration_seconds{store,action}
//   - globalstore_subscribers{store}
//
// Several stores may share one registry; collectors are registered once and
// reused. Metrics are disabled when this option is not given.
//
// Returns an error if reg is nil.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(cfg *storeConfig) error {
		if reg == nil {
			return errors.New("metrics registerer cannot be nil")
		}
		cfg.registry = reg
		return nil
	}
}

// WithTracer sets the OpenTelemetry tracer used to create one span per
// dispatch.
//
// If not specified, the tracer comes from the global provider
// (otel.Tracer), which is a no-op until the application installs one.
//
// Returns an error if the tracer is nil.
func WithTracer(tracer trace.Tracer) Option {
	return func(cfg *storeConfig) error {
		if tracer == nil {
			return errors.New("tracer cannot be nil")
		}
		cfg.tracer = tracer
		return nil
	}
}
