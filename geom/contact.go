package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Contact describes the closest points between two shapes.
// Normal is unit length and points from the first shape toward the second.
// A positive Depth means the shapes interpenetrate.
type Contact struct {
	World1 mgl64.Vec3
	World2 mgl64.Vec3
	Normal mgl64.Vec3
	Depth  float64
}

// Separation is the signed distance between the shapes along the normal.
func (c Contact) Separation() float64 {
	return -c.Depth
}

// Flipped swaps the roles of the two shapes.
func (c Contact) Flipped() Contact {
	return Contact{
		World1: c.World2,
		World2: c.World1,
		Normal: c.Normal.Mul(-1),
		Depth:  c.Depth,
	}
}

var fallbackNormal = mgl64.Vec3{0, 1, 0}

// Collide computes the contact between two placed shapes. Shapes further apart
// than prediction report no contact. Cuboid pairs are resolved on their
// world-space bounding boxes.
func Collide(pos1 Isometry, s1 Shape, pos2 Isometry, s2 Shape, prediction float64) (Contact, bool) {
	switch a := s1.(type) {
	case Ball:
		switch b := s2.(type) {
		case Ball:
			return ballBall(pos1.Translation, a.Radius, pos2.Translation, b.Radius, prediction)
		case Cuboid:
			return ballCuboid(pos1.Translation, a.Radius, pos2, b, prediction)
		}
	case Cuboid:
		switch b := s2.(type) {
		case Ball:
			c, ok := ballCuboid(pos2.Translation, b.Radius, pos1, a, prediction)
			return c.Flipped(), ok
		case Cuboid:
			return boxBox(a.AABB(pos1), b.AABB(pos2), prediction)
		}
	}
	return Contact{}, false
}

func ballBall(c1 mgl64.Vec3, r1 float64, c2 mgl64.Vec3, r2 float64, prediction float64) (Contact, bool) {
	delta := c2.Sub(c1)
	dist := delta.Len()
	depth := r1 + r2 - dist
	if depth < -prediction {
		return Contact{}, false
	}

	normal := fallbackNormal
	if dist > 0 {
		normal = delta.Mul(1 / dist)
	}

	return Contact{
		World1: c1.Add(normal.Mul(r1)),
		World2: c2.Sub(normal.Mul(r2)),
		Normal: normal,
		Depth:  depth,
	}, true
}

// ballCuboid reports the contact with the ball as the first shape.
func ballCuboid(center mgl64.Vec3, radius float64, boxPos Isometry, box Cuboid, prediction float64) (Contact, bool) {
	local := boxPos.Inverse().TransformPoint(center)
	h := box.HalfExtents

	var closest mgl64.Vec3
	for k := 0; k < 3; k++ {
		closest[k] = mgl64.Clamp(local[k], -h[k], h[k])
	}

	var outward mgl64.Vec3
	var depth float64
	if closest == local {
		// Center inside the box: push out through the nearest face.
		axis, best := 0, math.Inf(1)
		for k := 0; k < 3; k++ {
			if d := h[k] - math.Abs(local[k]); d < best {
				axis, best = k, d
			}
		}
		sign := 1.0
		if local[axis] < 0 {
			sign = -1
		}
		outward[axis] = sign
		closest[axis] = sign * h[axis]
		depth = radius + best
	} else {
		diff := local.Sub(closest)
		dist := diff.Len()
		outward = diff.Mul(1 / dist)
		depth = radius - dist
	}

	if depth < -prediction {
		return Contact{}, false
	}

	normal := boxPos.TransformVector(outward).Mul(-1)
	return Contact{
		World1: center.Add(normal.Mul(radius)),
		World2: boxPos.TransformPoint(closest),
		Normal: normal,
		Depth:  depth,
	}, true
}

func boxBox(a, b AABB, prediction float64) (Contact, bool) {
	axis, best := 0, math.Inf(1)
	for k := 0; k < 3; k++ {
		overlap := math.Min(a.Max[k], b.Max[k]) - math.Max(a.Min[k], b.Min[k])
		if overlap < -prediction {
			return Contact{}, false
		}
		if overlap < best {
			axis, best = k, overlap
		}
	}

	var normal mgl64.Vec3
	normal[axis] = 1
	if b.Center()[axis] < a.Center()[axis] {
		normal[axis] = -1
	}

	var mid mgl64.Vec3
	for k := 0; k < 3; k++ {
		mid[k] = (math.Max(a.Min[k], b.Min[k]) + math.Min(a.Max[k], b.Max[k])) / 2
	}
	w1, w2 := mid, mid
	if normal[axis] > 0 {
		w1[axis], w2[axis] = a.Max[axis], b.Min[axis]
	} else {
		w1[axis], w2[axis] = a.Min[axis], b.Max[axis]
	}

	return Contact{World1: w1, World2: w2, Normal: normal, Depth: best}, true
}
