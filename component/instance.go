package component

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jpalmerr/globalstore"
)

// RenderFunc renders an instance. It is called on mount and on every flush
// after a notification.
type RenderFunc func(c *Instance)

// effect is an effect declared during a render.
type effect struct {
	key   string
	setup func() func()
}

// Instance is a component instance with a render function and effects.
//
// Instance implements [globalstore.Host]; its trigger is the instance
// itself, so the trigger identity is stable for the instance's lifetime.
type Instance struct {
	id     string
	render RenderFunc

	mounted bool
	renders int

	// effects declared by the render in progress, in declaration order
	declared []effect
	// cleanups of committed effects by key, and their commit order
	active map[string]func()
	order  []string

	mu            sync.Mutex
	dirty         bool
	notifications int
	lastState     globalstore.State
}

// New creates an unmounted instance that renders with render.
func New(render RenderFunc) *Instance {
	return &Instance{
		id:     uuid.NewString(),
		render: render,
		active: make(map[string]func()),
	}
}

// ID returns the instance's unique ID. It is also the trigger's ID.
func (c *Instance) ID() string {
	return c.id
}

// Trigger returns the instance itself.
func (c *Instance) Trigger() globalstore.Observer {
	return c
}

// Notify marks the instance for re-render. It records the state it was given
// but does no rendering itself.
func (c *Instance) Notify(state globalstore.State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirty = true
	c.notifications++
	c.lastState = state
}

// Effect declares an effect for the render in progress. Calls outside a
// render are ignored.
func (c *Instance) Effect(key string, setup func() func()) {
	if c.declared == nil {
		return
	}
	c.declared = append(c.declared, effect{key: key, setup: setup})
}

// Mount renders the instance for the first time and then runs its effects.
// Mounting an instance that is already mounted does nothing.
func (c *Instance) Mount() {
	if c.mounted {
		return
	}
	c.mounted = true
	c.renderAndCommit()
}

// Flush re-renders the instance if it was notified since the last render.
// Returns whether a render happened. Unmounted instances never render.
func (c *Instance) Flush() bool {
	c.mu.Lock()
	dirty := c.dirty
	c.dirty = false
	c.mu.Unlock()

	if !dirty || !c.mounted {
		return false
	}
	c.renderAndCommit()
	return true
}

// Rerender renders the instance unconditionally, as a parent re-render or
// local state change would. Unmounted instances never render.
func (c *Instance) Rerender() {
	if !c.mounted {
		return
	}
	c.mu.Lock()
	c.dirty = false
	c.mu.Unlock()
	c.renderAndCommit()
}

// Unmount runs the cleanup of every active effect, in reverse commit order,
// and marks the instance unmounted.
func (c *Instance) Unmount() {
	if !c.mounted {
		return
	}
	c.mounted = false

	for i := len(c.order) - 1; i >= 0; i-- {
		key := c.order[i]
		if cleanup := c.active[key]; cleanup != nil {
			cleanup()
		}
	}
	c.active = make(map[string]func())
	c.order = nil
}

// Mounted reports whether the instance is mounted.
func (c *Instance) Mounted() bool {
	return c.mounted
}

// Renders returns how many times the instance has rendered.
func (c *Instance) Renders() int {
	return c.renders
}

// Notifications returns how many times Notify has been called.
func (c *Instance) Notifications() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notifications
}

// Dirty reports whether the instance has a pending re-render.
func (c *Instance) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// LastNotified returns the state passed to the most recent Notify, or nil.
func (c *Instance) LastNotified() globalstore.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastState
}

// renderAndCommit runs the render function, cleans up effects the render no
// longer declares, and runs setups for newly declared ones.
func (c *Instance) renderAndCommit() {
	c.declared = make([]effect, 0, len(c.order))
	c.render(c)
	c.renders++

	declared := c.declared
	c.declared = nil

	keep := make(map[string]bool, len(declared))
	for _, e := range declared {
		keep[e.key] = true
	}

	order := c.order[:0:0]
	for _, key := range c.order {
		if keep[key] {
			order = append(order, key)
			continue
		}
		if cleanup := c.active[key]; cleanup != nil {
			cleanup()
		}
		delete(c.active, key)
	}

	for _, e := range declared {
		if _, ok := c.active[e.key]; ok {
			continue
		}
		c.active[e.key] = e.setup()
		order = append(order, e.key)
	}
	c.order = order
}
