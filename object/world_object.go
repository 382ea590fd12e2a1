package object

import "fmt"

// Kind tags the entity wrapped by a WorldObject.
type Kind uint8

const (
	// KindRigidBody marks a WorldObject wrapping a RigidBodyHandle.
	KindRigidBody Kind = iota + 1
	// KindSensor marks a WorldObject wrapping a SensorHandle.
	KindSensor
)

func (k Kind) String() string {
	switch k {
	case KindRigidBody:
		return "rigid-body"
	case KindSensor:
		return "sensor"
	default:
		return "invalid"
	}
}

const (
	errNotSensor    = "object: world object is not a sensor"
	errNotRigidBody = "object: world object is not a rigid body"
	errInvalid      = "object: zero world object"
	errReleased     = "object: borrow already released"
)

// WorldObject is an entity registered in a world: either a rigid body or a
// sensor. It is a small value; copying it shares the handle, never the entity.
// The zero value is not a valid object.
type WorldObject struct {
	kind   Kind
	rigid  RigidBodyHandle
	sensor SensorHandle
}

// FromRigidBody wraps a rigid body handle.
func FromRigidBody(h RigidBodyHandle) WorldObject {
	if h == nil {
		panic("object: nil rigid body handle")
	}
	return WorldObject{kind: KindRigidBody, rigid: h}
}

// FromSensor wraps a sensor handle.
func FromSensor(h SensorHandle) WorldObject {
	if h == nil {
		panic("object: nil sensor handle")
	}
	return WorldObject{kind: KindSensor, sensor: h}
}

// Kind returns the tag of the object.
func (o WorldObject) Kind() Kind {
	return o.kind
}

// IsRigidBody reports whether the object wraps a rigid body.
func (o WorldObject) IsRigidBody() bool {
	return o.kind == KindRigidBody
}

// IsSensor reports whether the object wraps a sensor.
func (o WorldObject) IsSensor() bool {
	return o.kind == KindSensor
}

// UnwrapSensor returns the sensor handle. It panics if the object is not a sensor.
func (o WorldObject) UnwrapSensor() SensorHandle {
	if o.kind != KindSensor {
		panic(errNotSensor)
	}
	return o.sensor
}

// UnwrapRigidBody returns the rigid body handle. It panics if the object is
// not a rigid body.
func (o WorldObject) UnwrapRigidBody() RigidBodyHandle {
	if o.kind != KindRigidBody {
		panic(errNotRigidBody)
	}
	return o.rigid
}

// AsSensor returns the sensor handle if the object is a sensor.
func (o WorldObject) AsSensor() (SensorHandle, bool) {
	return o.sensor, o.kind == KindSensor
}

// AsRigidBody returns the rigid body handle if the object is a rigid body.
func (o WorldObject) AsRigidBody() (RigidBodyHandle, bool) {
	return o.rigid, o.kind == KindRigidBody
}

// Uid returns the identity of the wrapped entity.
func (o WorldObject) Uid() Uid {
	switch o.kind {
	case KindRigidBody:
		return RigidBodyUid(o.rigid)
	case KindSensor:
		return SensorUid(o.sensor)
	}
	panic(errInvalid)
}

func (o WorldObject) String() string {
	if o.kind == 0 {
		return "invalid"
	}
	return fmt.Sprintf("%s#%s", o.kind, o.Uid())
}

// Borrow blocks until a shared lock on the entity is held.
func (o WorldObject) Borrow() *Borrowed {
	switch o.kind {
	case KindRigidBody:
		g := o.rigid.Read()
		return &Borrowed{view{kind: o.kind, uid: o.rigid.uid, entity: g.Get(), unlock: g.Release}}
	case KindSensor:
		g := o.sensor.Read()
		return &Borrowed{view{kind: o.kind, uid: o.sensor.uid, entity: g.Get(), unlock: g.Release}}
	}
	panic(errInvalid)
}

// BorrowMut blocks until the exclusive lock on the entity is held.
func (o WorldObject) BorrowMut() *BorrowedMut {
	switch o.kind {
	case KindRigidBody:
		g := o.rigid.Write()
		rb := g.Get()
		return &BorrowedMut{view: view{kind: o.kind, uid: o.rigid.uid, entity: rb, unlock: g.Release}, rigid: rb}
	case KindSensor:
		g := o.sensor.Write()
		s := g.Get()
		return &BorrowedMut{view: view{kind: o.kind, uid: o.sensor.uid, entity: s, unlock: g.Release}, sensor: s}
	}
	panic(errInvalid)
}

// BorrowSensor takes a shared lock on the sensor. It panics if the object is
// not a sensor.
func (o WorldObject) BorrowSensor() *ReadGuard[Sensor] {
	return o.UnwrapSensor().Read()
}

// BorrowRigidBody takes a shared lock on the rigid body. It panics if the
// object is not a rigid body.
func (o WorldObject) BorrowRigidBody() *ReadGuard[RigidBody] {
	return o.UnwrapRigidBody().Read()
}

// BorrowMutSensor takes the exclusive lock on the sensor. It panics if the
// object is not a sensor.
func (o WorldObject) BorrowMutSensor() *WriteGuard[Sensor] {
	return o.UnwrapSensor().Write()
}

// BorrowMutRigidBody takes the exclusive lock on the rigid body. It panics if
// the object is not a rigid body.
func (o WorldObject) BorrowMutRigidBody() *WriteGuard[RigidBody] {
	return o.UnwrapRigidBody().Write()
}
