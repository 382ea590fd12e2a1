// Package geom holds the transforms, shapes and contact geometry shared by the
// object model and the collision pipeline.
package geom

import "github.com/go-gl/mathgl/mgl64"

// Isometry is a rigid transform: a rotation followed by a translation.
// The zero value is the identity.
type Isometry struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
}

// Identity returns the identity transform.
func Identity() Isometry {
	return Isometry{Rotation: mgl64.QuatIdent()}
}

// Translation returns a pure translation.
func Translation(x, y, z float64) Isometry {
	return Isometry{Translation: mgl64.Vec3{x, y, z}, Rotation: mgl64.QuatIdent()}
}

// NewIsometry builds a transform from a translation and a rotation of angle
// radians around axis.
func NewIsometry(translation mgl64.Vec3, angle float64, axis mgl64.Vec3) Isometry {
	return Isometry{Translation: translation, Rotation: mgl64.QuatRotate(angle, axis.Normalize())}
}

func (i Isometry) rotation() mgl64.Quat {
	if i.Rotation == (mgl64.Quat{}) {
		return mgl64.QuatIdent()
	}
	return i.Rotation
}

// TransformPoint maps a point from local to world space.
func (i Isometry) TransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	return i.rotation().Rotate(p).Add(i.Translation)
}

// TransformVector rotates a direction from local to world space.
func (i Isometry) TransformVector(v mgl64.Vec3) mgl64.Vec3 {
	return i.rotation().Rotate(v)
}

// Mul composes two transforms: the result applies o first, then i.
func (i Isometry) Mul(o Isometry) Isometry {
	return Isometry{
		Translation: i.TransformPoint(o.Translation),
		Rotation:    i.rotation().Mul(o.rotation()).Normalize(),
	}
}

// Inverse returns the transform undoing i.
func (i Isometry) Inverse() Isometry {
	inv := i.rotation().Inverse()
	return Isometry{
		Translation: inv.Rotate(i.Translation.Mul(-1)),
		Rotation:    inv,
	}
}

// Translated returns i moved by delta in world space.
func (i Isometry) Translated(delta mgl64.Vec3) Isometry {
	i.Translation = i.Translation.Add(delta)
	return i
}

// ApproxEqual compares translations and orientations with mgl64's epsilon.
func (i Isometry) ApproxEqual(o Isometry) bool {
	return i.Translation.ApproxEqual(o.Translation) &&
		i.rotation().OrientationEqual(o.rotation())
}
