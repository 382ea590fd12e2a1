package object

import (
	"weak"

	"github.com/plus3/rigid/geom"
)

// Sensor is a shape that reports overlaps without taking part in the dynamics.
// A sensor attached to a parent body follows it; its position is then
// relative to the parent.
type Sensor struct {
	relative geom.Isometry
	shape    geom.Shape
	margin   float64
	parent   RigidBodyHandle
}

// NewSensorShape creates a free-standing sensor at the origin.
func NewSensorShape(shape geom.Shape) Sensor {
	return Sensor{
		relative: geom.Identity(),
		shape:    shape,
		margin:   DefaultMargin,
	}
}

// At returns a copy of the sensor placed at pos, relative to its parent if any.
func (s Sensor) At(pos geom.Isometry) Sensor {
	s.relative = pos
	return s
}

// AttachedTo returns a copy of the sensor following parent.
func (s Sensor) AttachedTo(parent RigidBodyHandle) Sensor {
	s.parent = parent
	return s
}

// NewSensor registers s in arena and returns the handle owning it.
func NewSensor(arena *Arena, s Sensor) SensorHandle {
	h := &Handle[Sensor]{value: s}
	register(arena, h, func(sl *slot) {
		sl.kind = KindSensor
		sl.sensor = weak.Make(h)
	})
	return h
}

// Position returns the world position of the sensor. For an attached sensor
// it takes a shared borrow on the parent, so it must not be called while the
// caller holds any borrow on the parent, shared or exclusive: a recursive
// read lock deadlocks as soon as a writer is waiting. Such callers use
// PositionFrom with the pose they already read.
func (s *Sensor) Position() geom.Isometry {
	if s.parent == nil {
		return s.relative
	}
	g := s.parent.Read()
	defer g.Release()
	return s.PositionFrom(g.Get().Position())
}

// PositionFrom returns the world position of the sensor given the parent's
// world position, without touching the parent's lock. A detached sensor
// ignores parent.
func (s *Sensor) PositionFrom(parent geom.Isometry) geom.Isometry {
	if s.parent == nil {
		return s.relative
	}
	return parent.Mul(s.relative)
}

func (s *Sensor) Shape() geom.Shape { return s.shape }
func (s *Sensor) Margin() float64   { return s.margin }

// RelativePosition returns the position of the sensor in its parent's frame.
func (s *Sensor) RelativePosition() geom.Isometry {
	return s.relative
}

// SetRelativePosition moves the sensor within its parent's frame.
func (s *Sensor) SetRelativePosition(pos geom.Isometry) {
	s.relative = pos
}

// Parent returns the body the sensor follows, or nil.
func (s *Sensor) Parent() RigidBodyHandle {
	return s.parent
}

// SensorUid returns the uid a sensor has when wrapped in a WorldObject.
func SensorUid(h SensorHandle) Uid {
	return h.uid
}
