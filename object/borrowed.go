package object

import "github.com/plus3/rigid/geom"

// view is the accessor surface shared by both borrow flavors. It dispatches
// to the borrowed entity whatever its kind.
type view struct {
	kind     Kind
	uid      Uid
	entity   Entity
	unlock   func()
	released bool
}

func (v *view) live() Entity {
	if v.released {
		panic(errReleased)
	}
	return v.entity
}

// Position returns a copy of the entity's world position.
func (v *view) Position() geom.Isometry {
	return v.live().Position()
}

// Shape returns the entity's shape. The result is only valid until Release.
func (v *view) Shape() geom.Shape {
	return v.live().Shape()
}

// Margin returns the entity's collision margin.
func (v *view) Margin() float64 {
	return v.live().Margin()
}

// AABB returns the entity's bounds loosened by its margin.
func (v *view) AABB() geom.AABB {
	e := v.live()
	return e.Shape().AABB(e.Position()).Loosened(e.Margin())
}

func (v *view) IsRigidBody() bool { return v.kind == KindRigidBody }
func (v *view) IsSensor() bool    { return v.kind == KindSensor }
func (v *view) Uid() Uid          { return v.uid }

// Release unlocks the entity. Releasing twice panics.
func (v *view) Release() {
	if v.released {
		panic(errReleased)
	}
	v.released = true
	v.unlock()
}

// Borrowed is a shared borrow of a world object.
type Borrowed struct {
	view
}

// BorrowedMut is an exclusive borrow of a world object.
type BorrowedMut struct {
	view
	rigid  *RigidBody
	sensor *Sensor
}

// SetPosition moves the entity. Attached sensors move within their parent's frame.
func (b *BorrowedMut) SetPosition(pos geom.Isometry) {
	b.live()
	if b.kind == KindRigidBody {
		b.rigid.SetPosition(pos)
	} else {
		b.sensor.SetRelativePosition(pos)
	}
}

// RigidBody returns the borrowed body. It panics if the object is not a rigid body.
func (b *BorrowedMut) RigidBody() *RigidBody {
	b.live()
	if b.kind != KindRigidBody {
		panic(errNotRigidBody)
	}
	return b.rigid
}

// Sensor returns the borrowed sensor. It panics if the object is not a sensor.
func (b *BorrowedMut) Sensor() *Sensor {
	b.live()
	if b.kind != KindSensor {
		panic(errNotSensor)
	}
	return b.sensor
}
