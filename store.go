package globalstore

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
	"github.com/jpalmerr/globalstore/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultStoreName = "default"
	tracerName       = "github.com/jpalmerr/globalstore"
)

// Store is a shared state container with a subscriber registry and a table
// of named action handlers.
//
// A Store is created with [New] and functional options. Components read the
// current [State] and dispatch actions through [Store.Use]; other code can
// call [Store.Dispatch], [Store.Subscribe], and [Store.State] directly.
//
// Dispatch is run-to-completion: the handler runs, its partial is merged into
// a new snapshot, and every subscriber is notified before Dispatch returns.
// Only one dispatch runs at a time per store; a dispatch that starts while
// another is running fails with [ErrDispatchInProgress].
//
// All methods are safe for concurrent use.
type Store struct {
	id          string
	name        string
	state       *store.Container
	subscribers *store.Registry

	mu      sync.RWMutex
	actions map[string]Handler

	dispatching atomic.Bool

	logger  *slog.Logger
	metrics *metrics
	tracer  trace.Tracer
}

// New creates a new [Store] with the given options.
//
// With no options the store is empty, has no actions, logs to
// [slog.Default], traces through the global OpenTelemetry provider, and
// records no metrics.
//
// Example:
//
//	s, err := globalstore.New(
//	    globalstore.WithName("cart"),
//	    globalstore.WithInitialState(globalstore.State{"count": 0}),
//	    globalstore.WithActions(globalstore.Actions{"inc": inc}),
//	)
func New(opts ...Option) (*Store, error) {
	cfg := &storeConfig{name: defaultStoreName}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	s := newStore(cfg.name, cfg.logger, cfg.tracer)

	if cfg.registry != nil {
		m, err := newMetrics(cfg.registry, cfg.name)
		if err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		s.metrics = m
		s.metrics.setSubscribers(0)
	}

	for _, partial := range cfg.initial {
		s.state.Replace(partial)
	}
	for _, actions := range cfg.actions {
		s.registerAll(actions)
	}

	return s, nil
}

func newStore(name string, logger *slog.Logger, tracer trace.Tracer) *Store {
	// default to slog.Default() if no logger provided
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	logger = logger.With("store", name)

	return &Store{
		id:          uuid.NewString(),
		name:        name,
		state:       store.NewContainer(),
		subscribers: store.NewRegistry(logger),
		actions:     make(map[string]Handler),
		logger:      logger,
		tracer:      tracer,
	}
}

// Name returns the store name given with [WithName].
func (s *Store) Name() string {
	return s.name
}

// State returns the current snapshot.
//
// The snapshot is shared with every other reader and must not be modified.
// Later dispatches install a new snapshot and leave this one unchanged.
func (s *Store) State() State {
	return s.state.Get()
}

// Init merges initial into the state, if non-nil, and registers every entry
// of actions, overwriting handlers already registered under the same name.
//
// Init is meant to be called once per feature at startup, but repeated calls
// are cumulative: each merges rather than replaces. Subscribers are not
// notified.
//
// Returns an error wrapping [ErrInvalidAction], and changes nothing, if any
// entry has an empty name or a nil handler.
func (s *Store) Init(actions Actions, initial State) error {
	if err := validateActions(actions); err != nil {
		return err
	}

	if initial != nil {
		s.state.Replace(initial)
	}
	s.registerAll(actions)

	s.logger.Debug("store initialized",
		"actions", len(actions),
		"initial_keys", len(initial),
	)
	return nil
}

// Register adds or overwrites the handler for name.
//
// Returns an error wrapping [ErrInvalidAction] if name is empty or handler
// is nil.
func (s *Store) Register(name string, handler Handler) error {
	return s.Init(Actions{name: handler}, nil)
}

// Actions returns the registered action names in sorted order.
func (s *Store) Actions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.actions))
	for name := range s.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Subscribe adds o to the subscriber registry. It is notified after every
// later dispatch until [Store.Unsubscribe] is called with it.
//
// Returns false if an observer with the same ID is already subscribed.
func (s *Store) Subscribe(o Observer) bool {
	added := s.subscribers.Add(o)
	if added {
		s.metrics.setSubscribers(s.subscribers.Len())
		s.logger.Debug("observer subscribed", "observer", o.ID())
	}
	return added
}

// Unsubscribe removes the observer with o's ID. Unsubscribing an observer
// that is not subscribed is a no-op and returns false.
func (s *Store) Unsubscribe(o Observer) bool {
	removed := s.subscribers.Remove(o)
	if removed {
		s.metrics.setSubscribers(s.subscribers.Len())
		s.logger.Debug("observer unsubscribed", "observer", o.ID())
	}
	return removed
}

// Subscribers returns the number of subscribed observers.
func (s *Store) Subscribers() int {
	return s.subscribers.Len()
}

// Dispatch runs the handler registered as action with payload, merges its
// result into the state, and notifies every subscriber with the new
// snapshot. It is [Store.DispatchContext] with a background context.
func (s *Store) Dispatch(action string, payload any) error {
	return s.DispatchContext(context.Background(), action, payload)
}

// DispatchContext is [Store.Dispatch] with a parent context for the
// dispatch span.
//
// Errors:
//   - [*UnknownActionError] (matches [ErrUnknownAction]) if no handler is
//     registered as action
//   - the handler's error, wrapped with the action name
//   - [ErrDispatchInProgress] if another dispatch on this store is running
//
// On any error the state is unchanged and no subscriber is notified. A
// handler panic is not recovered and propagates to the caller.
func (s *Store) DispatchContext(ctx context.Context, action string, payload any) error {
	if !s.dispatching.CompareAndSwap(false, true) {
		s.metrics.observeDispatch(action, resultRejected, 0)
		s.logger.Warn("dispatch rejected", "action", action, "reason", "dispatch in progress")
		return fmt.Errorf("dispatch %q: %w", action, ErrDispatchInProgress)
	}
	defer s.dispatching.Store(false)

	_, span := s.tracer.Start(ctx, "globalstore.dispatch",
		trace.WithAttributes(
			attribute.String("globalstore.store", s.name),
			attribute.String("globalstore.action", action),
		),
	)
	defer span.End()

	start := time.Now()
	result := resultPanic
	defer func() {
		s.metrics.observeDispatch(action, result, time.Since(start))
	}()

	handler, err := s.lookup(action)
	if err != nil {
		result = resultUnknown
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn("unknown action", "action", action, "error", err.Error())
		return err
	}

	partial, err := handler(s.state.Get(), payload)
	if err != nil {
		result = resultError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("action %q: %w", action, err)
	}

	next := s.state.Replace(partial)
	notified := s.subscribers.NotifyAll(next)

	result = resultOK
	span.SetAttributes(
		attribute.Int("globalstore.changed_keys", len(partial)),
		attribute.Int("globalstore.notified", notified),
	)
	span.SetStatus(codes.Ok, "")
	s.logger.Debug("action dispatched",
		"action", action,
		"changed_keys", len(partial),
		"notified", notified,
	)
	return nil
}

// lookup resolves action to its handler.
func (s *Store) lookup(action string) (Handler, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if h, ok := s.actions[action]; ok {
		return h, nil
	}
	return nil, &UnknownActionError{
		Action:     action,
		Suggestion: closestName(action, s.actions),
	}
}

// registerAll stores every handler in actions. Callers validate first.
func (s *Store) registerAll(actions Actions) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, h := range actions {
		if _, exists := s.actions[name]; exists {
			s.logger.Debug("action handler replaced", "action", name)
		}
		s.actions[name] = h
	}
}

// validateActions rejects empty names and nil handlers.
func validateActions(actions Actions) error {
	for name, h := range actions {
		if name == "" {
			return fmt.Errorf("%w: action name is required", ErrInvalidAction)
		}
		if h == nil {
			return fmt.Errorf("%w: action %q has a nil handler", ErrInvalidAction, name)
		}
	}
	return nil
}

// closestName returns the registered name nearest to action by edit
// distance, or "" if none is within a third of the name's length (minimum 1).
func closestName(action string, actions map[string]Handler) string {
	maxDistance := len(action) / 3
	if maxDistance < 1 {
		maxDistance = 1
	}

	best := ""
	bestDistance := maxDistance + 1
	for name := range actions {
		d := levenshtein.ComputeDistance(action, name)
		// ties resolve alphabetically so the suggestion is deterministic
		if d < bestDistance || (d == bestDistance && name < best) {
			best = name
			bestDistance = d
		}
	}
	if bestDistance > maxDistance {
		return ""
	}
	return best
}
