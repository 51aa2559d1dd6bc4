package store

import "sync"

// Container holds the current [State] snapshot of a store.
//
// The snapshot is replaced wholesale on every change; the map returned by
// [Container.Get] is never written to afterwards.
type Container struct {
	mu    sync.RWMutex
	state State
}

// NewContainer creates a Container holding an empty snapshot.
func NewContainer() *Container {
	return &Container{state: State{}}
}

// Get returns the current snapshot.
func (c *Container) Get() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Replace installs the shallow merge of the current snapshot and partial as
// the new snapshot and returns it.
//
// The partial is not validated. A nil or empty partial still produces a new
// snapshot, so subscribers always see a fresh map after a change.
func (c *Container) Replace(partial State) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = Merge(c.state, partial)
	return c.state
}
