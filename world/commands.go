package world

import (
	"github.com/plus3/rigid/constraint"
	"github.com/plus3/rigid/object"
)

// Commands buffers registry changes requested while a step is running. They
// are applied once every system has executed, so systems never observe the
// world changing under them.
type Commands struct {
	adds         []object.WorldObject
	removes      []object.Uid
	addJoints    []constraint.Joint
	removeJoints []object.Uid
	defers       []func()
}

func newCommands() *Commands {
	return &Commands{}
}

// Defer queues a function execution operation.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Add queues the registration of obj.
func (c *Commands) Add(obj object.WorldObject) {
	c.adds = append(c.adds, obj)
}

// Remove queues the removal of the object with the given uid.
func (c *Commands) Remove(uid object.Uid) {
	c.removes = append(c.removes, uid)
}

// AddJoint queues the registration of a joint constraint.
func (c *Commands) AddJoint(j constraint.Joint) {
	c.addJoints = append(c.addJoints, j)
}

// RemoveJoint queues the removal of the joint with the given uid.
func (c *Commands) RemoveJoint(uid object.Uid) {
	c.removeJoints = append(c.removeJoints, uid)
}

// Flush applies all queued commands to w, removals first, and resets the buffer.
func (c *Commands) Flush(w *World) {
	for _, uid := range c.removes {
		w.Remove(uid)
	}

	for _, uid := range c.removeJoints {
		w.RemoveJoint(uid)
	}

	for _, obj := range c.adds {
		w.Add(obj)
	}

	for _, j := range c.addJoints {
		w.AddJoint(j)
	}

	for _, fn := range c.defers {
		fn()
	}

	clear(c.adds)
	clear(c.addJoints)
	clear(c.defers)
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.addJoints = c.addJoints[:0]
	c.removeJoints = c.removeJoints[:0]
	c.defers = c.defers[:0]
}
