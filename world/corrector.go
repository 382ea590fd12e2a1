package world

import (
	"context"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/rigid/constraint"
	"github.com/plus3/rigid/joint"
	"github.com/plus3/rigid/object"
)

// PositionCorrector is a minimal Solver that removes penetration and joint
// drift by moving bodies directly, shared in proportion to their inverse mass.
// Joint orientation is left untouched.
type PositionCorrector struct {
	// Slop is the penetration left uncorrected to keep resting contacts stable.
	Slop float64
	// Percent is the share of the error corrected per step, in (0, 1].
	Percent float64

	contacts atomic.Int64
	joints   atomic.Int64
}

// NewPositionCorrector returns a corrector with usual defaults.
func NewPositionCorrector() *PositionCorrector {
	return &PositionCorrector{Slop: 0.005, Percent: 0.8}
}

func (p *PositionCorrector) Solve(ctx context.Context, _ float64, c constraint.Constraint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return constraint.Dispatch(c, p)
}

// Corrected returns how many contacts and joints were processed so far.
func (p *PositionCorrector) Corrected() (contacts, joints int64) {
	return p.contacts.Load(), p.joints.Load()
}

func (p *PositionCorrector) Contact(c *constraint.RBRB) error {
	p.contacts.Add(1)

	depth := c.Contact.Depth - p.Slop
	if depth <= 0 {
		return nil
	}

	ga, gb := object.BorrowPairMut(c.A, c.B)
	defer ga.Release()
	defer gb.Release()

	a, b := ga.Get(), gb.Get()
	total := a.InvMass() + b.InvMass()
	if total == 0 {
		return nil
	}

	correction := c.Contact.Normal.Mul(depth * p.Percent / total)
	a.Translate(correction.Mul(-a.InvMass()))
	b.Translate(correction.Mul(b.InvMass()))
	return nil
}

func (p *PositionCorrector) BallInSocket(c *constraint.BallInSocket) error {
	p.joints.Add(1)
	g := c.Joint.Read()
	j := *g.Get()
	g.Release()
	return p.pull(j.Anchor1, j.Anchor2)
}

func (p *PositionCorrector) Fixed(c *constraint.Fixed) error {
	p.joints.Add(1)
	g := c.Joint.Read()
	j := *g.Get()
	g.Release()
	return p.pull(j.Anchor1, j.Anchor2)
}

// pull moves the anchored bodies so both anchor points meet.
func (p *PositionCorrector) pull(a1, a2 joint.Anchor) error {
	switch {
	case a1.Body == nil && a2.Body == nil, a1.Body == a2.Body:
		return nil
	case a1.Body == nil:
		g := a2.Body.Write()
		defer g.Release()
		p.pullBodies(a1, nil, a2, g.Get())
	case a2.Body == nil:
		g := a1.Body.Write()
		defer g.Release()
		p.pullBodies(a1, g.Get(), a2, nil)
	default:
		g1, g2 := object.BorrowPairMut(a1.Body, a2.Body)
		defer g1.Release()
		defer g2.Release()
		p.pullBodies(a1, g1.Get(), a2, g2.Get())
	}
	return nil
}

func (p *PositionCorrector) pullBodies(a1 joint.Anchor, b1 *object.RigidBody, a2 joint.Anchor, b2 *object.RigidBody) {
	w1, inv1 := anchorWorld(a1, b1)
	w2, inv2 := anchorWorld(a2, b2)
	total := inv1 + inv2
	if total == 0 {
		return
	}

	delta := w2.Sub(w1).Mul(p.Percent / total)
	if b1 != nil {
		b1.Translate(delta.Mul(inv1))
	}
	if b2 != nil {
		b2.Translate(delta.Mul(-inv2))
	}
}

func anchorWorld(a joint.Anchor, body *object.RigidBody) (mgl64.Vec3, float64) {
	if body == nil {
		return a.Position.Translation, 0
	}
	return body.Position().TransformPoint(a.Position.Translation), body.InvMass()
}
