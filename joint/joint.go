// Package joint defines the joint payloads wrapped by joint constraints.
package joint

import (
	"github.com/plus3/rigid/geom"
	"github.com/plus3/rigid/object"
)

// Anchor attaches one side of a joint. A nil Body anchors to the ground, in
// which case Position is in world space; otherwise it is in the body's frame.
type Anchor struct {
	Body     object.RigidBodyHandle
	Position geom.Isometry
}

// Ground anchors a joint side to a fixed world position.
func Ground(pos geom.Isometry) Anchor {
	return Anchor{Position: pos}
}

// On anchors a joint side to body at a position in the body's frame.
func On(body object.RigidBodyHandle, pos geom.Isometry) Anchor {
	return Anchor{Body: body, Position: pos}
}

type (
	BallInSocketHandle = *object.Handle[BallInSocket]
	FixedHandle        = *object.Handle[Fixed]
)

// BallInSocket keeps two anchor points together while leaving rotation free.
type BallInSocket struct {
	Anchor1 Anchor
	Anchor2 Anchor
}

// NewBallInSocket registers a ball-in-socket joint in arena.
func NewBallInSocket(arena *object.Arena, a1, a2 Anchor) BallInSocketHandle {
	return object.NewHandle(arena, BallInSocket{Anchor1: a1, Anchor2: a2})
}

// Bodies returns the bodies linked by the joint; ground sides are nil.
func (j *BallInSocket) Bodies() (object.RigidBodyHandle, object.RigidBodyHandle) {
	return j.Anchor1.Body, j.Anchor2.Body
}

// Fixed locks the relative position and orientation of its two anchors.
type Fixed struct {
	Anchor1 Anchor
	Anchor2 Anchor
}

// NewFixed registers a fixed joint in arena.
func NewFixed(arena *object.Arena, a1, a2 Anchor) FixedHandle {
	return object.NewHandle(arena, Fixed{Anchor1: a1, Anchor2: a2})
}

// Bodies returns the bodies linked by the joint; ground sides are nil.
func (j *Fixed) Bodies() (object.RigidBodyHandle, object.RigidBodyHandle) {
	return j.Anchor1.Body, j.Anchor2.Body
}
