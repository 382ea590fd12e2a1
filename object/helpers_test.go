package object_test

import (
	"github.com/plus3/rigid/geom"
	"github.com/plus3/rigid/object"
)

func newBall(arena *object.Arena, x, y, z float64) object.RigidBodyHandle {
	rb := object.Dynamic(geom.Ball{Radius: 1}, 1).At(geom.Translation(x, y, z))
	return object.NewRigidBody(arena, rb)
}

func newSensor(arena *object.Arena, parent object.RigidBodyHandle) object.SensorHandle {
	s := object.NewSensorShape(geom.Ball{Radius: 2}).At(geom.Translation(1, 0, 0))
	if parent != nil {
		s = s.AttachedTo(parent)
	}
	return object.NewSensor(arena, s)
}

// closed reports whether ch has been closed, without blocking.
func closed(ch <-chan struct{}) func() bool {
	return func() bool {
		select {
		case <-ch:
			return true
		default:
			return false
		}
	}
}
