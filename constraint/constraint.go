// Package constraint unifies contacts and joints into a single value a solver
// can iterate over without knowing where each constraint came from.
//
// Constraints only hold handles: building or cloning one never takes a lock.
// Locks are taken by whoever later borrows the handles inside.
package constraint

import (
	"errors"
	"fmt"

	"github.com/plus3/rigid/geom"
	"github.com/plus3/rigid/joint"
	"github.com/plus3/rigid/object"
)

// ErrUnknownConstraint is returned by Dispatch for a nil constraint.
var ErrUnknownConstraint = errors.New("constraint: unknown constraint")

// Kind identifies the variant of a Constraint.
type Kind uint8

const (
	// KindRBRB marks a contact between two rigid bodies.
	KindRBRB Kind = iota + 1
	// KindBallInSocket marks a ball-in-socket joint.
	KindBallInSocket
	// KindFixed marks a fixed joint.
	KindFixed
)

func (k Kind) String() string {
	switch k {
	case KindRBRB:
		return "rbrb"
	case KindBallInSocket:
		return "ball-in-socket"
	case KindFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// Constraint is implemented by *RBRB, *BallInSocket and *Fixed only.
type Constraint interface {
	Kind() Kind
	// Bodies returns the bodies the constraint acts on. Ground sides of a
	// joint are nil.
	Bodies() (object.RigidBodyHandle, object.RigidBodyHandle)
	// Clone duplicates the handle references, never the entities or joints.
	Clone() Constraint
	sealed()
}

// Joint is a Constraint backed by a standing joint: *BallInSocket or *Fixed.
// Only joints can be registered in a world; contacts are rebuilt every step.
type Joint interface {
	Constraint
	// JointUid returns the uid of the wrapped joint.
	JointUid() object.Uid
}

// RBRB is a contact between two distinct rigid bodies. Keeping A and B
// distinct is up to the caller.
type RBRB struct {
	A, B    object.RigidBodyHandle
	Contact geom.Contact
}

// NewRBRB creates a contact constraint.
func NewRBRB(a, b object.RigidBodyHandle, contact geom.Contact) *RBRB {
	return &RBRB{A: a, B: b, Contact: contact}
}

func (c *RBRB) Kind() Kind { return KindRBRB }
func (c *RBRB) sealed()    {}

func (c *RBRB) Bodies() (object.RigidBodyHandle, object.RigidBodyHandle) {
	return c.A, c.B
}

func (c *RBRB) Clone() Constraint {
	return &RBRB{A: c.A, B: c.B, Contact: c.Contact}
}

// Ordered returns the uids of the two bodies in lock acquisition order.
func (c *RBRB) Ordered() (object.Uid, object.Uid) {
	return object.Ordered(c.A.Uid(), c.B.Uid())
}

// BallInSocket wraps a standing ball-in-socket joint.
type BallInSocket struct {
	Joint joint.BallInSocketHandle
}

// NewBallInSocket creates a ball-in-socket constraint.
func NewBallInSocket(j joint.BallInSocketHandle) *BallInSocket {
	return &BallInSocket{Joint: j}
}

func (c *BallInSocket) Kind() Kind        { return KindBallInSocket }
func (c *BallInSocket) Clone() Constraint { return &BallInSocket{Joint: c.Joint} }
func (c *BallInSocket) sealed()           {}

func (c *BallInSocket) JointUid() object.Uid { return c.Joint.Uid() }

// Bodies takes a shared borrow on the joint while reading its anchors.
func (c *BallInSocket) Bodies() (a, b object.RigidBodyHandle) {
	c.Joint.View(func(j *joint.BallInSocket) { a, b = j.Bodies() })
	return a, b
}

// Fixed wraps a standing fixed joint.
type Fixed struct {
	Joint joint.FixedHandle
}

// NewFixed creates a fixed joint constraint.
func NewFixed(j joint.FixedHandle) *Fixed {
	return &Fixed{Joint: j}
}

func (c *Fixed) Kind() Kind        { return KindFixed }
func (c *Fixed) Clone() Constraint { return &Fixed{Joint: c.Joint} }
func (c *Fixed) sealed()           {}

func (c *Fixed) JointUid() object.Uid { return c.Joint.Uid() }

// Bodies takes a shared borrow on the joint while reading its anchors.
func (c *Fixed) Bodies() (a, b object.RigidBodyHandle) {
	c.Joint.View(func(j *joint.Fixed) { a, b = j.Bodies() })
	return a, b
}

// Handler receives each variant of a constraint. Solvers implement it to
// build their per-kind constraint rows.
type Handler interface {
	Contact(c *RBRB) error
	BallInSocket(c *BallInSocket) error
	Fixed(c *Fixed) error
}

// Dispatch routes c to the matching Handler method.
func Dispatch(c Constraint, h Handler) error {
	switch c := c.(type) {
	case *RBRB:
		return h.Contact(c)
	case *BallInSocket:
		return h.BallInSocket(c)
	case *Fixed:
		return h.Fixed(c)
	}
	return fmt.Errorf("%w: %T", ErrUnknownConstraint, c)
}

// Uid returns the identity of a joint constraint's joint. Contacts have none.
func Uid(c Constraint) (object.Uid, bool) {
	if j, ok := c.(Joint); ok {
		return j.JointUid(), true
	}
	return 0, false
}

// Set is the sequence of constraints handed to a solver for one step.
type Set []Constraint

// Counts tallies a Set by kind.
type Counts struct {
	Contacts     int
	BallInSocket int
	Fixed        int
}

// Clone duplicates every constraint of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for i, c := range s {
		out[i] = c.Clone()
	}
	return out
}

// Counts returns the number of constraints of each kind.
func (s Set) Counts() Counts {
	var counts Counts
	for _, c := range s {
		switch c.Kind() {
		case KindRBRB:
			counts.Contacts++
		case KindBallInSocket:
			counts.BallInSocket++
		case KindFixed:
			counts.Fixed++
		}
	}
	return counts
}
