package object

import (
	"weak"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/rigid/geom"
)

// DefaultMargin is the collision margin given to new bodies and sensors.
const DefaultMargin = 0.04

// Entity is the read surface shared by every kind of world object.
type Entity interface {
	Position() geom.Isometry
	Shape() geom.Shape
	Margin() float64
}

type (
	// RigidBodyHandle is a shared handle to a rigid body.
	RigidBodyHandle = *Handle[RigidBody]
	// SensorHandle is a shared handle to a sensor.
	SensorHandle = *Handle[Sensor]
)

// RigidBody is a simulated solid. A body with zero inverse mass is static.
type RigidBody struct {
	position        geom.Isometry
	shape           geom.Shape
	margin          float64
	invMass         float64
	LinearVelocity  mgl64.Vec3
	AngularVelocity mgl64.Vec3
}

// Dynamic creates a movable body with the given mass at the origin.
func Dynamic(shape geom.Shape, mass float64) RigidBody {
	rb := Static(shape)
	if mass > 0 {
		rb.invMass = 1 / mass
	}
	return rb
}

// Static creates an immovable body at the origin.
func Static(shape geom.Shape) RigidBody {
	return RigidBody{
		position: geom.Identity(),
		shape:    shape,
		margin:   DefaultMargin,
	}
}

// At returns a copy of the body placed at pos.
func (rb RigidBody) At(pos geom.Isometry) RigidBody {
	rb.position = pos
	return rb
}

// WithMargin returns a copy of the body using margin.
func (rb RigidBody) WithMargin(margin float64) RigidBody {
	rb.margin = margin
	return rb
}

// NewRigidBody registers rb in arena and returns the handle owning it.
func NewRigidBody(arena *Arena, rb RigidBody) RigidBodyHandle {
	h := &Handle[RigidBody]{value: rb}
	register(arena, h, func(s *slot) {
		s.kind = KindRigidBody
		s.rigid = weak.Make(h)
	})
	return h
}

func (rb *RigidBody) Position() geom.Isometry { return rb.position }
func (rb *RigidBody) Shape() geom.Shape       { return rb.shape }
func (rb *RigidBody) Margin() float64         { return rb.margin }

// SetPosition teleports the body.
func (rb *RigidBody) SetPosition(pos geom.Isometry) {
	rb.position = pos
}

// Translate moves the body by delta.
func (rb *RigidBody) Translate(delta mgl64.Vec3) {
	rb.position = rb.position.Translated(delta)
}

// InvMass returns the inverse mass; zero for static bodies.
func (rb *RigidBody) InvMass() float64 {
	return rb.invMass
}

// IsStatic reports whether the body ignores impulses.
func (rb *RigidBody) IsStatic() bool {
	return rb.invMass == 0
}

// ApplyImpulse changes the linear velocity of a dynamic body.
func (rb *RigidBody) ApplyImpulse(impulse mgl64.Vec3) {
	if rb.IsStatic() {
		return
	}
	rb.LinearVelocity = rb.LinearVelocity.Add(impulse.Mul(rb.invMass))
}

// RigidBodyUid returns the uid a rigid body has when wrapped in a WorldObject.
func RigidBodyUid(h RigidBodyHandle) Uid {
	return h.uid
}
