package component

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jpalmerr/globalstore"
)

// counterStore returns a store with an "inc" action adding the payload to
// "count".
func counterStore(t *testing.T) *globalstore.Store {
	t.Helper()

	inc := globalstore.Typed(func(s globalstore.State, n int) (globalstore.State, error) {
		count, _ := s["count"].(int)
		return globalstore.State{"count": count + n}, nil
	})

	s, err := globalstore.New(
		globalstore.WithInitialState(globalstore.State{"count": 0}),
		globalstore.WithActions(globalstore.Actions{"inc": inc}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

// view is a component that renders from a store and keeps what it saw.
type view struct {
	*Instance
	seen     []globalstore.State
	dispatch globalstore.DispatchFunc
}

func newView(s *globalstore.Store, listen bool) *view {
	v := &view{}
	v.Instance = New(func(c *Instance) {
		state, dispatch := s.Use(c, listen)
		v.seen = append(v.seen, state)
		v.dispatch = dispatch
	})
	return v
}

func (v *view) last() globalstore.State {
	return v.seen[len(v.seen)-1]
}

func TestUse_ListeningComponentNotifiedUntilUnmount(t *testing.T) {
	s := counterStore(t)
	v := newView(s, true)

	v.Mount()
	if s.Subscribers() != 1 {
		t.Fatalf("Subscribers() = %d after mount, want 1", s.Subscribers())
	}

	for i := 0; i < 3; i++ {
		if err := v.dispatch("inc", 1); err != nil {
			t.Fatalf("dispatch() error = %v", err)
		}
	}
	if v.Notifications() != 3 {
		t.Errorf("Notifications() = %d, want 3", v.Notifications())
	}

	v.Flush()
	if v.last()["count"] != 3 {
		t.Errorf("rendered count = %v, want 3", v.last()["count"])
	}

	v.Unmount()
	if s.Subscribers() != 0 {
		t.Fatalf("Subscribers() = %d after unmount, want 0", s.Subscribers())
	}

	if err := s.Dispatch("inc", 1); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if v.Notifications() != 3 {
		t.Errorf("Notifications() = %d after unmount, want 3", v.Notifications())
	}
}

func TestUse_NonListeningComponent(t *testing.T) {
	s := counterStore(t)
	v := newView(s, false)

	v.Mount()
	if s.Subscribers() != 0 {
		t.Fatalf("Subscribers() = %d, want 0", s.Subscribers())
	}

	if err := s.Dispatch("inc", 7); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if v.Notifications() != 0 {
		t.Errorf("Notifications() = %d, want 0", v.Notifications())
	}

	// a render for any other reason sees the current state
	v.Rerender()
	if v.last()["count"] != 7 {
		t.Errorf("rendered count = %v, want 7", v.last()["count"])
	}
	if s.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d after rerender, want 0", s.Subscribers())
	}
}

func TestUse_TwoComponentsReceiveIdenticalState(t *testing.T) {
	s := counterStore(t)
	a := newView(s, true)
	b := newView(s, true)
	a.Mount()
	b.Mount()

	if err := s.Dispatch("inc", 2); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if a.Notifications() != 1 || b.Notifications() != 1 {
		t.Fatalf("notifications = %d, %d, want 1, 1", a.Notifications(), b.Notifications())
	}

	pa := reflect.ValueOf(a.LastNotified()).Pointer()
	pb := reflect.ValueOf(b.LastNotified()).Pointer()
	if pa != pb {
		t.Error("components received different state maps, want the identical snapshot")
	}
	if reflect.ValueOf(s.State()).Pointer() != pa {
		t.Error("notified state is not the store's current snapshot")
	}
}

func TestUse_RepeatedRendersSubscribeOnce(t *testing.T) {
	s := counterStore(t)
	v := newView(s, true)

	v.Mount()
	v.Rerender()
	v.Rerender()

	if s.Subscribers() != 1 {
		t.Errorf("Subscribers() = %d, want 1", s.Subscribers())
	}

	_ = s.Dispatch("inc", 1)
	if v.Notifications() != 1 {
		t.Errorf("Notifications() = %d, want 1", v.Notifications())
	}
}

func TestUse_TogglingListen(t *testing.T) {
	s := counterStore(t)
	listen := true
	c := New(func(c *Instance) {
		s.Use(c, listen)
	})

	c.Mount()
	if s.Subscribers() != 1 {
		t.Fatalf("Subscribers() = %d, want 1", s.Subscribers())
	}

	listen = false
	c.Rerender()
	if s.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d after listen=false, want 0", s.Subscribers())
	}

	listen = true
	c.Rerender()
	if s.Subscribers() != 1 {
		t.Errorf("Subscribers() = %d after listen=true, want 1", s.Subscribers())
	}
}

func TestUse_DispatchFromRenderedComponent(t *testing.T) {
	s := counterStore(t)
	v := newView(s, true)
	v.Mount()

	if err := v.dispatch("inc", 5); err != nil {
		t.Fatalf("dispatch() error = %v", err)
	}
	if err := v.dispatch("inc", 3); err != nil {
		t.Fatalf("dispatch() error = %v", err)
	}
	v.Flush()

	if v.last()["count"] != 8 {
		t.Errorf("count = %v, want 8", v.last()["count"])
	}

	err := v.dispatch("increment", 1)
	if !errors.Is(err, globalstore.ErrUnknownAction) {
		t.Errorf("dispatch(unknown) error = %v, want ErrUnknownAction", err)
	}
}

func TestUseStore_DefaultStore(t *testing.T) {
	err := globalstore.InitStore(globalstore.Actions{
		"component_test_set": globalstore.Pure(func(_ globalstore.State, p any) globalstore.State {
			return globalstore.State{"component_test_value": p}
		}),
	}, nil)
	if err != nil {
		t.Fatalf("InitStore() error = %v", err)
	}

	var dispatch globalstore.DispatchFunc
	c := New(func(c *Instance) {
		_, dispatch = globalstore.UseStore(c)
	})
	c.Mount()
	defer c.Unmount()

	if err := dispatch("component_test_set", "hello"); err != nil {
		t.Fatalf("dispatch() error = %v", err)
	}
	if c.Notifications() != 1 {
		t.Errorf("Notifications() = %d, want 1 (UseStore listens by default)", c.Notifications())
	}
	if got := globalstore.Default().State()["component_test_value"]; got != "hello" {
		t.Errorf("default state value = %v, want hello", got)
	}
}
