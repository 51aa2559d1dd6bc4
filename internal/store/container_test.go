package store

import (
	"reflect"
	"sync"
	"testing"
)

func TestNewContainer(t *testing.T) {
	c := NewContainer()
	if c == nil {
		t.Fatal("NewContainer() = nil")
	}

	// should start empty
	if len(c.Get()) != 0 {
		t.Errorf("Get() = %v, want empty", c.Get())
	}
}

func TestContainer_Replace(t *testing.T) {
	c := NewContainer()

	c.Replace(State{"a": 1, "b": 2})
	got := c.Replace(State{"b": 20})

	want := State{"a": 1, "b": 20}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Replace() = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(c.Get(), want) {
		t.Errorf("Get() = %v, want %v", c.Get(), want)
	}
}

func TestContainer_OldSnapshotUnchanged(t *testing.T) {
	c := NewContainer()
	c.Replace(State{"count": 1})

	old := c.Get()
	c.Replace(State{"count": 2, "extra": true})

	if old["count"] != 1 {
		t.Errorf("old snapshot count = %v, want 1", old["count"])
	}
	if _, ok := old["extra"]; ok {
		t.Error("old snapshot gained key from later Replace")
	}
}

func TestContainer_ReplaceReturnsNewMap(t *testing.T) {
	c := NewContainer()
	before := c.Get()
	after := c.Replace(nil)

	if reflect.ValueOf(before).Pointer() == reflect.ValueOf(after).Pointer() {
		t.Error("Replace(nil) returned the same map, want a new snapshot")
	}
}

func TestContainer_ConcurrentAccess(t *testing.T) {
	c := NewContainer()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Replace(State{"writer": id})
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = c.Get()["writer"]
			}
		}()
	}
	wg.Wait()

	if _, ok := c.Get()["writer"]; !ok {
		t.Error("Get() missing key after concurrent writes")
	}
}
