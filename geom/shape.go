package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Shape is the geometry attached to a rigid body or a sensor.
// Shapes are immutable once attached and may be shared between entities.
type Shape interface {
	// AABB returns the world-space bounds of the shape placed at pos.
	AABB(pos Isometry) AABB
}

// Ball is a sphere centered on its local origin.
type Ball struct {
	Radius float64
}

func (b Ball) AABB(pos Isometry) AABB {
	r := mgl64.Vec3{b.Radius, b.Radius, b.Radius}
	return AABB{Min: pos.Translation.Sub(r), Max: pos.Translation.Add(r)}
}

// Cuboid is a box centered on its local origin.
type Cuboid struct {
	HalfExtents mgl64.Vec3
}

func (c Cuboid) AABB(pos Isometry) AABB {
	var ext mgl64.Vec3
	for axis := 0; axis < 3; axis++ {
		var local mgl64.Vec3
		local[axis] = c.HalfExtents[axis]
		world := pos.TransformVector(local)
		for k := 0; k < 3; k++ {
			ext[k] += math.Abs(world[k])
		}
	}
	return AABB{Min: pos.Translation.Sub(ext), Max: pos.Translation.Add(ext)}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max mgl64.Vec3
}

// Loosened grows the box by margin on every side.
func (a AABB) Loosened(margin float64) AABB {
	m := mgl64.Vec3{margin, margin, margin}
	return AABB{Min: a.Min.Sub(m), Max: a.Max.Add(m)}
}

// Intersects reports whether the two boxes overlap or touch.
func (a AABB) Intersects(o AABB) bool {
	for k := 0; k < 3; k++ {
		if a.Max[k] < o.Min[k] || o.Max[k] < a.Min[k] {
			return false
		}
	}
	return true
}

// Center returns the midpoint of the box.
func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// HalfExtents returns half the size of the box along each axis.
func (a AABB) HalfExtents() mgl64.Vec3 {
	return a.Max.Sub(a.Min).Mul(0.5)
}
