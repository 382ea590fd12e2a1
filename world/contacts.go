package world

import (
	"github.com/kamstrup/intmap"
	"github.com/plus3/rigid/constraint"
	"github.com/plus3/rigid/geom"
	"github.com/plus3/rigid/object"
)

type placed struct {
	pos   geom.Isometry
	shape geom.Shape
}

// snapshot copies what the narrow phase needs so only one entity is locked at
// a time. Shapes are immutable, so the copy stays valid after release.
func snapshot(obj object.WorldObject) placed {
	view := obj.Borrow()
	defer view.Release()
	return placed{pos: view.Position(), shape: view.Shape()}
}

// ContactSystem turns broad-phase pairs into contact constraints. Pairs
// involving a sensor are recorded as proximities instead.
type ContactSystem struct {
	Prediction float64
}

func (c *ContactSystem) Execute(frame *StepFrame) error {
	proximities := intmap.New[object.Uid, *intmap.Set[object.Uid]](16)

	for _, pair := range frame.Pairs {
		a, b := snapshot(pair.A), snapshot(pair.B)
		contact, ok := geom.Collide(a.pos, a.shape, b.pos, b.shape, c.Prediction)
		if !ok {
			continue
		}

		if pair.A.IsSensor() || pair.B.IsSensor() {
			addProximity(proximities, pair.A.Uid(), pair.B.Uid())
			continue
		}

		frame.Constraints = append(frame.Constraints,
			constraint.NewRBRB(pair.A.UnwrapRigidBody(), pair.B.UnwrapRigidBody(), contact))
	}

	frame.World.setProximities(proximities)
	return nil
}

func addProximity(m *intmap.Map[object.Uid, *intmap.Set[object.Uid]], a, b object.Uid) {
	for _, p := range [][2]object.Uid{{a, b}, {b, a}} {
		set, ok := m.Get(p[0])
		if !ok {
			set = intmap.NewSet[object.Uid](4)
			m.Put(p[0], set)
		}
		set.Add(p[1])
	}
}

// JointSystem appends the world's standing joints to the step's constraints.
type JointSystem struct{}

func (JointSystem) Execute(frame *StepFrame) error {
	frame.Constraints = append(frame.Constraints, frame.World.Joints()...)
	return nil
}
