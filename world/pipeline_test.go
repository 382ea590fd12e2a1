package world_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/rigid/constraint"
	"github.com/plus3/rigid/geom"
	"github.com/plus3/rigid/joint"
	"github.com/plus3/rigid/object"
	"github.com/plus3/rigid/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSystem keeps the constraint counts of the last step.
type recordingSystem struct {
	counts constraint.Counts
	pairs  int
}

func (r *recordingSystem) Execute(frame *world.StepFrame) error {
	r.counts = frame.Constraints.Counts()
	r.pairs = len(frame.Pairs)
	return nil
}

type failingSolver struct {
	err error
}

func (f failingSolver) Solve(context.Context, float64, constraint.Constraint) error {
	return f.err
}

func TestPipelineSeparatesOverlappingBalls(t *testing.T) {
	w := world.New(object.NewArena(), zeroGravity())
	a := addBall(w, 0, 0, 0)
	b := addBall(w, 1.5, 0, 0)

	solver := world.NewPositionCorrector()
	p := world.NewDefaultPipeline(w, solver)
	rec := &recordingSystem{}
	p.Register(rec)

	require.NoError(t, p.Step(1.0/60))
	assert.Equal(t, constraint.Counts{Contacts: 1}, rec.counts)
	assert.Equal(t, 1, rec.pairs)
	assert.Greater(t, positionOf(b).Sub(positionOf(a)).Len(), 1.5)

	for range 30 {
		require.NoError(t, p.Step(1.0/60))
	}
	assert.InDelta(t, 2, positionOf(b).Sub(positionOf(a)).Len(), 0.01)
	assert.InDelta(t, 0, positionOf(a).Y(), 1e-9, "correction stays along the contact normal")

	contacts, joints := solver.Corrected()
	assert.Equal(t, int64(31), contacts)
	assert.Zero(t, joints)
}

func TestPipelineGravityAndFloor(t *testing.T) {
	w := world.New(object.NewArena(), world.DefaultConfig())
	floor := object.NewRigidBody(w.Arena(), object.Static(geom.Cuboid{HalfExtents: mgl64.Vec3{10, 1, 10}}).At(geom.Translation(0, -1, 0)))
	w.Add(object.FromRigidBody(floor))
	ball := addBall(w, 0, 3, 0)

	p := world.NewDefaultPipeline(w, world.NewPositionCorrector())
	for range 120 {
		require.NoError(t, p.Step(1.0/60))
	}

	assert.Less(t, positionOf(ball).Y(), 3.0, "the ball falls")
	assert.Greater(t, positionOf(ball).Y(), 0.5, "the floor holds it")
	assert.Equal(t, mgl64.Vec3{0, -1, 0}, positionOf(floor), "static bodies never move")
}

func TestPipelineStaticPairsIgnored(t *testing.T) {
	w := world.New(object.NewArena(), zeroGravity())
	box := geom.Cuboid{HalfExtents: mgl64.Vec3{1, 1, 1}}
	w.Add(object.FromRigidBody(object.NewRigidBody(w.Arena(), object.Static(box))))
	w.Add(object.FromRigidBody(object.NewRigidBody(w.Arena(), object.Static(box).At(geom.Translation(0.5, 0, 0)))))

	p := world.NewDefaultPipeline(w, world.NewPositionCorrector())
	rec := &recordingSystem{}
	p.Register(rec)

	require.NoError(t, p.Step(1.0/60))
	assert.Zero(t, rec.pairs)
	assert.Equal(t, constraint.Counts{}, rec.counts)
}

func TestSensorProximities(t *testing.T) {
	w := world.New(object.NewArena(), zeroGravity())
	body := addBall(w, 4, 0, 0)
	far := addBall(w, -20, 0, 0)

	free := object.NewSensor(w.Arena(), object.NewSensorShape(geom.Ball{Radius: 2}).At(geom.Translation(5.5, 0, 0)))
	w.Add(object.FromSensor(free))
	attached := object.NewSensor(w.Arena(), object.NewSensorShape(geom.Ball{Radius: 2}).AttachedTo(far))
	w.Add(object.FromSensor(attached))

	p := world.NewDefaultPipeline(w, world.NewPositionCorrector())
	rec := &recordingSystem{}
	p.Register(rec)
	require.NoError(t, p.Step(1.0/60))

	assert.Equal(t, constraint.Counts{}, rec.counts, "sensors never produce contacts")
	assert.Equal(t, []object.Uid{body.Uid()}, w.Proximities(free.Uid()))
	assert.Equal(t, []object.Uid{free.Uid()}, w.Proximities(body.Uid()))
	assert.Empty(t, w.Proximities(attached.Uid()), "a sensor ignores its parent")
	assert.Equal(t, mgl64.Vec3{4, 0, 0}, positionOf(body))

	// Moving the parent carries the attached sensor onto the body.
	far.Update(func(rb *object.RigidBody) { rb.SetPosition(geom.Translation(4, 2.5, 0)) })
	require.NoError(t, p.Step(1.0/60))
	assert.Contains(t, w.Proximities(attached.Uid()), body.Uid())

	w.Remove(body.Uid())
	assert.NotContains(t, w.Proximities(attached.Uid()), body.Uid())
}

func TestJointsPullBodies(t *testing.T) {
	w := world.New(object.NewArena(), zeroGravity())
	hanging := addBall(w, 0, 0, 0)
	a := addBall(w, 10, 0, 0)
	b := addBall(w, 15, 0, 0)

	w.AddJoint(constraint.NewBallInSocket(joint.NewBallInSocket(w.Arena(),
		joint.Ground(geom.Translation(0, 5, 0)), joint.On(hanging, geom.Identity()))))
	w.AddJoint(constraint.NewFixed(joint.NewFixed(w.Arena(),
		joint.On(a, geom.Translation(2, 0, 0)), joint.On(b, geom.Translation(-2, 0, 0)))))

	solver := world.NewPositionCorrector()
	p := world.NewDefaultPipeline(w, solver)
	rec := &recordingSystem{}
	p.Register(rec)
	for range 30 {
		require.NoError(t, p.Step(1.0/60))
	}

	assert.Equal(t, constraint.Counts{BallInSocket: 1, Fixed: 1}, rec.counts)
	assert.True(t, positionOf(hanging).ApproxEqualThreshold(mgl64.Vec3{0, 5, 0}, 1e-6))
	assert.InDelta(t, 4, positionOf(b).X()-positionOf(a).X(), 1e-6)
	assert.InDelta(t, 12.5, (positionOf(a).X()+positionOf(b).X())/2, 1e-6, "equal masses meet halfway")

	_, joints := solver.Corrected()
	assert.Equal(t, int64(60), joints)
}

func TestPipelineSolverError(t *testing.T) {
	w := world.New(object.NewArena(), zeroGravity())
	addBall(w, 0, 0, 0)
	addBall(w, 1, 0, 0)

	boom := errors.New("boom")
	p := world.NewDefaultPipeline(w, failingSolver{err: boom})
	after := &recordingSystem{}
	p.Register(after)

	err := p.Step(1.0 / 60)
	require.Error(t, err)
	assert.ErrorIs(t, err, world.ErrSolverFailed)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "SolveSystem")
	assert.Zero(t, after.pairs, "later systems do not run")

	stats := p.Stats()
	assert.Equal(t, int64(1), stats.Steps)
	assert.Equal(t, int64(1), stats.Systems[4].ExecutionCount)
	assert.Zero(t, stats.Systems[5].ExecutionCount)
}

func TestPipelineCancelledContext(t *testing.T) {
	w := world.New(object.NewArena(), zeroGravity())
	addBall(w, 0, 0, 0)
	addBall(w, 1, 0, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := world.NewDefaultPipeline(w, world.NewPositionCorrector()).StepContext(ctx, 1.0/60)
	assert.ErrorIs(t, err, world.ErrSolverFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

type queueingSystem struct {
	add          object.WorldObject
	remove       object.Uid
	addJoint     constraint.Joint
	removeJoint  object.Uid
	lenDuring    int
	jointsDuring int
	deferred     *atomic.Bool
}

func (q *queueingSystem) Execute(frame *world.StepFrame) error {
	frame.Commands.Remove(q.remove)
	frame.Commands.Add(q.add)
	frame.Commands.RemoveJoint(q.removeJoint)
	frame.Commands.AddJoint(q.addJoint)
	frame.Commands.Defer(func() { q.deferred.Store(true) })
	q.lenDuring = frame.World.Len()
	q.jointsDuring = len(frame.World.Joints())
	return nil
}

func TestPipelineCommands(t *testing.T) {
	w := world.New(object.NewArena(), zeroGravity())
	doomed := addBall(w, 0, 0, 0)
	survivor := addBall(w, 10, 0, 0)
	newcomer := object.NewRigidBody(w.Arena(), object.Dynamic(geom.Ball{Radius: 1}, 1).At(geom.Translation(20, 0, 0)))

	stale := constraint.NewFixed(joint.NewFixed(w.Arena(), joint.Ground(geom.Translation(10, 0, 0)), joint.On(survivor, geom.Identity())))
	w.AddJoint(stale)
	link := constraint.NewBallInSocket(joint.NewBallInSocket(w.Arena(),
		joint.On(survivor, geom.Translation(5, 0, 0)), joint.On(newcomer, geom.Translation(-5, 0, 0))))

	q := &queueingSystem{
		add:         object.FromRigidBody(newcomer),
		remove:      doomed.Uid(),
		addJoint:    link,
		removeJoint: stale.JointUid(),
		deferred:    &atomic.Bool{},
	}
	p := world.NewPipeline(w)
	p.Register(q)
	p.Register(&world.Integrator{})

	require.NoError(t, p.Step(1.0/60))
	assert.Equal(t, 2, q.lenDuring, "commands wait for the end of the step")
	assert.Equal(t, 1, q.jointsDuring)
	assert.True(t, q.deferred.Load())

	joints := w.Joints()
	require.Len(t, joints, 1)
	assert.Same(t, link.Joint, joints[0].(*constraint.BallInSocket).Joint)

	_, ok := w.Get(doomed.Uid())
	assert.False(t, ok)
	_, ok = w.Get(newcomer.Uid())
	assert.True(t, ok)
	assert.Equal(t, 2, w.Len())
}

func TestPipelineStats(t *testing.T) {
	w := world.New(object.NewArena(), zeroGravity())
	p := world.NewDefaultPipeline(w, world.NewPositionCorrector())

	for range 3 {
		require.NoError(t, p.Step(1.0/60))
	}

	stats := p.Stats()
	assert.Equal(t, 5, stats.SystemCount)
	assert.Equal(t, int64(3), stats.Steps)

	names := make([]string, 0, len(stats.Systems))
	for _, s := range stats.Systems {
		names = append(names, s.Name)
		assert.Equal(t, int64(3), s.ExecutionCount)
		assert.LessOrEqual(t, s.MinDuration, s.MaxDuration)
	}
	assert.Equal(t, []string{"Integrator", "BroadPhase", "ContactSystem", "JointSystem", "SolveSystem"}, names)
}

func TestPipelineRun(t *testing.T) {
	w := world.New(object.NewArena(), world.DefaultConfig())
	ball := addBall(w, 0, 100, 0)
	p := world.NewDefaultPipeline(w, world.NewPositionCorrector())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx, 5*time.Millisecond))
	assert.Positive(t, p.Stats().Steps)
	assert.Less(t, positionOf(ball).Y(), 100.0)
}

func TestPipelineConcurrentSolve(t *testing.T) {
	cfg := world.DefaultConfig()
	cfg.Workers = 8
	w := world.New(object.NewArena(), cfg)
	floor := object.NewRigidBody(w.Arena(), object.Static(geom.Cuboid{HalfExtents: mgl64.Vec3{6, 1, 6}}).At(geom.Translation(0, -1, 0)))
	w.Add(object.FromRigidBody(floor))

	rng := rand.New(rand.NewPCG(7, 7))
	var bodies []object.RigidBodyHandle
	for range 300 {
		bodies = append(bodies, addBall(w, rng.Float64()*8-4, 1+rng.Float64()*6, rng.Float64()*8-4))
	}
	for i := 0; i+1 < 40; i += 2 {
		w.AddJoint(constraint.NewFixed(joint.NewFixed(w.Arena(),
			joint.On(bodies[i], geom.Identity()), joint.On(bodies[i+1], geom.Identity()))))
	}
	for i := 0; i < 20; i++ {
		s := object.NewSensor(w.Arena(), object.NewSensorShape(geom.Ball{Radius: 1.5}).AttachedTo(bodies[100+i]))
		w.Add(object.FromSensor(s))
	}

	p := world.NewDefaultPipeline(w, world.NewPositionCorrector())
	done := make(chan error, 1)
	go func() {
		for range 20 {
			if err := p.Step(1.0 / 60); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(30 * time.Second):
		t.Fatal("concurrent solve deadlocked")
	}
	assert.Equal(t, int64(20), p.Stats().Steps)
}
