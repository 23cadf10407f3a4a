// internal/session/context.go
package session

import (
	"sync"
	"time"
)

// Context is the session gate shared by the controller.
// Only this package writes it; everyone else reads.
type Context struct {
	mu        sync.RWMutex
	startedAt time.Time
	armed     bool
}

// NewContext returns a disarmed context whose clock starts at now.
func NewContext(now time.Time) *Context {
	return &Context{startedAt: now}
}

// Armed reports whether input is currently accepted.
func (c *Context) Armed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.armed
}

// StartedAt is the time of the most recent arming.
func (c *Context) StartedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.startedAt
}

// Read returns both fields under one lock.
func (c *Context) Read() (armed bool, startedAt time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.armed, c.startedAt
}

func (c *Context) arm(now time.Time) {
	c.mu.Lock()
	c.armed = true
	c.startedAt = now
	c.mu.Unlock()
}

func (c *Context) disarm() {
	c.mu.Lock()
	c.armed = false
	c.mu.Unlock()
}
