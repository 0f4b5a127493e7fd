// Package autoplay drives the cascade the way a learner would, in a fixed
// script order, for the demonstration mode. The controller invokes the
// callback at the current step index exactly once, then waits for external
// advancement: the effect layer calls AdvanceStep when it observes the
// step's completion condition in a snapshot. Deactivating stops all further
// invocations; re-activating resumes from the current index, never from
// zero.
package autoplay

import (
	"sync"

	"github.com/hemosim/hemosim/internal/cascade"
)

// Step is one scripted beat: the action to invoke and the snapshot
// predicate that marks it finished.
type Step struct {
	Name   string
	Invoke func() bool
	Done   func(cascade.State) bool
}

// Controller sequences a script. It subscribes to a step index and nothing
// else; snapshot observation belongs to the effect layer above it.
type Controller struct {
	mu             sync.Mutex
	script         []Step
	active         bool
	index          int
	invokedThrough int // highest index whose Invoke has run
}

// NewController creates an inactive controller at step zero.
func NewController(script []Step) *Controller {
	return &Controller{script: script, invokedThrough: -1}
}

// Activate enables the controller and invokes the current step if it has
// not been invoked yet.
func (c *Controller) Activate() {
	c.mu.Lock()
	c.active = true
	c.mu.Unlock()
	c.maybeInvoke()
}

// Deactivate stops all pending invocations. The index is kept so a later
// Activate resumes mid-script.
func (c *Controller) Deactivate() {
	c.mu.Lock()
	c.active = false
	c.mu.Unlock()
}

// AdvanceStep moves to the next step and, when active, invokes it. Called
// by the effect layer once the current step's completion condition holds.
func (c *Controller) AdvanceStep() {
	c.mu.Lock()
	if c.index < len(c.script) {
		c.index++
	}
	c.mu.Unlock()
	c.maybeInvoke()
}

// Reset rewinds to step zero and deactivates. Used when the session
// generation changes.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.active = false
	c.index = 0
	c.invokedThrough = -1
	c.mu.Unlock()
}

// CurrentStepIndex returns the step the controller is waiting on.
func (c *Controller) CurrentStepIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Active reports whether the controller is driving.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Finished reports whether the script has run out.
func (c *Controller) Finished() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index >= len(c.script)
}

// CurrentStep returns the step under the cursor, if any.
func (c *Controller) CurrentStep() (Step, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index >= len(c.script) {
		return Step{}, false
	}
	return c.script[c.index], true
}

// maybeInvoke runs the current step's callback if the controller is active
// and the step has not been invoked. The callback runs outside the lock:
// store listeners may re-enter the controller (AdvanceStep) synchronously.
func (c *Controller) maybeInvoke() {
	c.mu.Lock()
	if !c.active || c.index >= len(c.script) || c.invokedThrough >= c.index {
		c.mu.Unlock()
		return
	}
	c.invokedThrough = c.index
	fn := c.script[c.index].Invoke
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}
