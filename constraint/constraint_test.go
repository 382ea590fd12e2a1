package constraint_test

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/rigid/constraint"
	"github.com/plus3/rigid/geom"
	"github.com/plus3/rigid/joint"
	"github.com/plus3/rigid/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	arena *object.Arena
	a, b  object.RigidBodyHandle
}

func newFixture() *fixture {
	arena := object.NewArena()
	return &fixture{
		arena: arena,
		a:     object.NewRigidBody(arena, object.Dynamic(geom.Ball{Radius: 1}, 1)),
		b:     object.NewRigidBody(arena, object.Dynamic(geom.Ball{Radius: 1}, 1).At(geom.Translation(0, 1.99, 0))),
	}
}

func restingContact() geom.Contact {
	return geom.Contact{
		World1: mgl64.Vec3{0, 1, 0},
		World2: mgl64.Vec3{0, 0.99, 0},
		Normal: mgl64.Vec3{0, 1, 0},
		Depth:  0.01,
	}
}

func TestRBRBRoundTrip(t *testing.T) {
	f := newFixture()

	var c constraint.Constraint = constraint.NewRBRB(f.a, f.b, restingContact())
	require.Equal(t, constraint.KindRBRB, c.Kind())

	rbrb, ok := c.(*constraint.RBRB)
	require.True(t, ok)
	assert.Same(t, f.a, rbrb.A)
	assert.Same(t, f.b, rbrb.B)
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, rbrb.Contact.Normal)
	assert.InDelta(t, -0.01, rbrb.Contact.Separation(), 1e-12)

	a, b := c.Bodies()
	assert.Same(t, f.a, a)
	assert.Same(t, f.b, b)

	lo, hi := rbrb.Ordered()
	assert.Less(t, lo, hi)
	assert.ElementsMatch(t, []object.Uid{f.a.Uid(), f.b.Uid()}, []object.Uid{lo, hi})
}

func TestCloneSharesHandles(t *testing.T) {
	f := newFixture()
	original := constraint.NewRBRB(f.a, f.b, restingContact())

	clone := original.Clone().(*constraint.RBRB)
	assert.NotSame(t, original, clone)
	assert.Same(t, original.A, clone.A)
	assert.Same(t, original.B, clone.B)
	assert.Equal(t, original.Contact, clone.Contact)

	clone.Contact.Depth = 1
	assert.Equal(t, 0.01, original.Contact.Depth, "the contact is copied")

	clone.A.Update(func(rb *object.RigidBody) { rb.SetPosition(geom.Translation(0, -3, 0)) })
	original.A.View(func(rb *object.RigidBody) {
		assert.Equal(t, mgl64.Vec3{0, -3, 0}, rb.Position().Translation, "the bodies are shared")
	})
}

func TestJointIdentity(t *testing.T) {
	f := newFixture()
	fixed := joint.NewFixed(f.arena, joint.On(f.a, geom.Identity()), joint.On(f.b, geom.Identity()))
	socket := joint.NewBallInSocket(f.arena, joint.Ground(geom.Translation(0, 5, 0)), joint.On(f.a, geom.Identity()))

	c1 := constraint.NewFixed(fixed)
	c2 := c1.Clone().(*constraint.Fixed)
	c3 := constraint.NewFixed(fixed)

	assert.Same(t, c1.Joint, c2.Joint)
	assert.Same(t, c1.Joint, c3.Joint)

	uid1, ok := constraint.Uid(c1)
	require.True(t, ok)
	uid2, _ := constraint.Uid(c2)
	uid3, _ := constraint.Uid(c3)
	assert.Equal(t, uid1, uid2)
	assert.Equal(t, uid1, uid3)

	socketUid, ok := constraint.Uid(constraint.NewBallInSocket(socket))
	require.True(t, ok)
	assert.NotEqual(t, uid1, socketUid)

	var contact constraint.Constraint = constraint.NewRBRB(f.a, f.b, restingContact())
	_, ok = constraint.Uid(contact)
	assert.False(t, ok, "contacts carry no joint identity")
	_, ok = contact.(constraint.Joint)
	assert.False(t, ok, "a contact cannot be registered as a joint")

	var j constraint.Joint = c2
	assert.Equal(t, fixed.Uid(), j.JointUid())
	j = constraint.NewBallInSocket(socket)
	assert.Equal(t, socketUid, j.JointUid())

	body1, body2 := constraint.NewBallInSocket(socket).Bodies()
	assert.Nil(t, body1, "ground side")
	assert.Same(t, f.a, body2)

	body1, body2 = c2.Bodies()
	assert.Same(t, f.a, body1)
	assert.Same(t, f.b, body2)
}

type recorder struct {
	seen []constraint.Kind
	fail error
}

func (r *recorder) Contact(c *constraint.RBRB) error {
	r.seen = append(r.seen, c.Kind())
	return r.fail
}

func (r *recorder) BallInSocket(c *constraint.BallInSocket) error {
	r.seen = append(r.seen, c.Kind())
	return nil
}

func (r *recorder) Fixed(c *constraint.Fixed) error {
	r.seen = append(r.seen, c.Kind())
	return nil
}

func TestDispatch(t *testing.T) {
	f := newFixture()
	set := constraint.Set{
		constraint.NewFixed(joint.NewFixed(f.arena, joint.On(f.a, geom.Identity()), joint.On(f.b, geom.Identity()))),
		constraint.NewRBRB(f.a, f.b, restingContact()),
		constraint.NewBallInSocket(joint.NewBallInSocket(f.arena, joint.On(f.a, geom.Identity()), joint.On(f.b, geom.Identity()))),
	}

	r := &recorder{}
	for _, c := range set {
		require.NoError(t, constraint.Dispatch(c, r))
	}
	assert.Equal(t, []constraint.Kind{constraint.KindFixed, constraint.KindRBRB, constraint.KindBallInSocket}, r.seen)

	boom := errors.New("boom")
	r.fail = boom
	assert.ErrorIs(t, constraint.Dispatch(set[1], r), boom)

	err := constraint.Dispatch(nil, r)
	assert.ErrorIs(t, err, constraint.ErrUnknownConstraint)
}

func TestSet(t *testing.T) {
	f := newFixture()
	fixed := joint.NewFixed(f.arena, joint.On(f.a, geom.Identity()), joint.On(f.b, geom.Identity()))
	set := constraint.Set{
		constraint.NewRBRB(f.a, f.b, restingContact()),
		constraint.NewRBRB(f.b, f.a, restingContact().Flipped()),
		constraint.NewFixed(fixed),
	}

	assert.Equal(t, constraint.Counts{Contacts: 2, Fixed: 1}, set.Counts())

	clone := set.Clone()
	require.Len(t, clone, len(set))
	for i := range set {
		assert.NotSame(t, set[i], clone[i])
		assert.Equal(t, set[i].Kind(), clone[i].Kind())
	}
	assert.Same(t, fixed, clone[2].(*constraint.Fixed).Joint)
	assert.Equal(t, constraint.Counts{}, constraint.Set(nil).Counts())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "rbrb", constraint.KindRBRB.String())
	assert.Equal(t, "ball-in-socket", constraint.KindBallInSocket.String())
	assert.Equal(t, "fixed", constraint.KindFixed.String())
	assert.Equal(t, "unknown", constraint.Kind(0).String())
}
