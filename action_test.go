package globalstore

import (
	"errors"
	"testing"
)

func TestTyped_AssertsPayload(t *testing.T) {
	h := Typed(func(_ State, name string) (State, error) {
		return State{"name": name}, nil
	})

	got, err := h(State{}, "ada")
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if got["name"] != "ada" {
		t.Errorf("name = %v, want ada", got["name"])
	}
}

func TestTyped_WrongPayloadType(t *testing.T) {
	h := Typed(func(_ State, n int) (State, error) {
		t.Error("handler ran with wrong payload type")
		return nil, nil
	})

	_, err := h(State{}, "five")
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("error = %v, want ErrInvalidPayload", err)
	}

	var pe *PayloadError
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T, want *PayloadError", err)
	}
	if pe.Want != "int" || pe.Got != "string" {
		t.Errorf("PayloadError = %+v, want Want=int Got=string", pe)
	}
}

func TestTyped_NilPayloadIsZeroValue(t *testing.T) {
	var got *struct{ ID int }
	called := false
	h := Typed(func(_ State, p *struct{ ID int }) (State, error) {
		called = true
		got = p
		return nil, nil
	})

	if _, err := h(State{}, nil); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if !called || got != nil {
		t.Errorf("called = %v, payload = %v, want called with nil", called, got)
	}
}

func TestTyped_InterfacePayload(t *testing.T) {
	h := Typed(func(_ State, err error) (State, error) {
		return State{"last_error": err.Error()}, nil
	})

	got, err := h(State{}, errors.New("oops"))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if got["last_error"] != "oops" {
		t.Errorf("last_error = %v, want oops", got["last_error"])
	}

	_, err = h(State{}, 42)
	var pe *PayloadError
	if !errors.As(err, &pe) || pe.Want != "error" {
		t.Errorf("error = %v, want PayloadError wanting error", err)
	}
}

func TestTyped_DispatchSurfacesPayloadError(t *testing.T) {
	s := newTestStore(t,
		WithInitialState(State{"count": 1}),
		WithActions(Actions{"inc": incHandler}),
	)

	err := s.Dispatch("inc", "one")
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("Dispatch() error = %v, want ErrInvalidPayload", err)
	}
	if s.State()["count"] != 1 {
		t.Errorf("count = %v, want 1", s.State()["count"])
	}
}

func TestPure(t *testing.T) {
	h := Pure(func(s State, p any) State {
		return State{"echo": p}
	})

	got, err := h(State{}, 3)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if got["echo"] != 3 {
		t.Errorf("echo = %v, want 3", got["echo"])
	}
}

func TestLookup(t *testing.T) {
	s := State{"cart": map[string]any{"items": 2}}

	if v, ok := Lookup(s, "cart.items"); !ok || v != 2 {
		t.Errorf("Lookup(cart.items) = %v, %v, want 2, true", v, ok)
	}
	if _, ok := Lookup(s, "cart.total"); ok {
		t.Error("Lookup(cart.total) ok = true, want false")
	}
}

func TestNewObserver_UniqueIDs(t *testing.T) {
	fn := func(State) {}
	a := NewObserver(fn)
	b := NewObserver(fn)

	if a.ID() == "" {
		t.Error("ID() is empty")
	}
	if a.ID() == b.ID() {
		t.Error("two observers from the same function share an ID")
	}
}
