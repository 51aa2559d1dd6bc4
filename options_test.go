package globalstore

import (
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace/noop"
)

func TestNew_OptionErrors(t *testing.T) {
	tests := []struct {
		name    string
		opt     Option
		wantErr string
	}{
		{"empty name", WithName(""), "store name cannot be empty"},
		{"nil logger", WithLogger(nil), "logger cannot be nil"},
		{"nil registry", WithMetrics(nil), "metrics registerer cannot be nil"},
		{"nil tracer", WithTracer(nil), "tracer cannot be nil"},
		{"invalid actions", WithActions(Actions{"": incHandler}), "action name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.opt)
			if err == nil {
				t.Fatal("New() error = nil, want error")
			}
			if s != nil {
				t.Errorf("New() store = %v, want nil on error", s)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("New() error = %q, want containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestWithActions_InvalidWrapsSentinel(t *testing.T) {
	_, err := New(WithActions(Actions{"inc": nil}))
	if !errors.Is(err, ErrInvalidAction) {
		t.Errorf("New() error = %v, want ErrInvalidAction", err)
	}
}

func TestWithInitialState_MergesInOrder(t *testing.T) {
	s := newTestStore(t,
		WithInitialState(State{"a": 1, "b": 1}),
		WithInitialState(nil),
		WithInitialState(State{"b": 2}),
	)

	want := State{"a": 1, "b": 2}
	if !reflect.DeepEqual(s.State(), want) {
		t.Errorf("State() = %v, want %v", s.State(), want)
	}
}

func TestWithActions_LaterOverwrites(t *testing.T) {
	s := newTestStore(t,
		WithActions(Actions{"set": Pure(func(State, any) State { return State{"v": 1} })}),
		WithActions(Actions{"set": Pure(func(State, any) State { return State{"v": 2} })}),
	)

	_ = s.Dispatch("set", nil)
	if s.State()["v"] != 2 {
		t.Errorf("v = %v, want 2", s.State()["v"])
	}
}

func TestWithName(t *testing.T) {
	s := newTestStore(t, WithName("cart"))
	if s.Name() != "cart" {
		t.Errorf("Name() = %q, want cart", s.Name())
	}
}

func TestWithLogger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := New(WithLogger(logger)); err != nil {
		t.Errorf("New() error = %v", err)
	}
}

func TestWithTracer(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("test")
	s := newTestStore(t, WithTracer(tracer), WithActions(Actions{"inc": incHandler}))

	if err := s.Dispatch("inc", 1); err != nil {
		t.Errorf("Dispatch() error = %v", err)
	}
}
