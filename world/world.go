package world

import (
	"iter"
	"runtime"
	"slices"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/kamstrup/intmap"
	"github.com/plus3/rigid/constraint"
	"github.com/plus3/rigid/object"
)

// Config holds the tunables of a World.
type Config struct {
	Gravity mgl64.Vec3
	// Workers is the number of goroutines the solve stage spreads constraints over.
	Workers int
	// Prediction is the distance below which separated shapes still produce a contact.
	Prediction float64
}

// DefaultConfig returns earth gravity and one solver worker per CPU.
func DefaultConfig() Config {
	return Config{
		Gravity: mgl64.Vec3{0, -9.81, 0},
		Workers: runtime.GOMAXPROCS(0),
	}
}

// World is the registry of everything taking part in a simulation: world
// objects and standing joints, both indexed by uid. Registry operations are
// safe for concurrent use; the entities themselves are guarded by their own
// handles.
type World struct {
	mu          sync.RWMutex
	arena       *object.Arena
	config      Config
	objects     *intmap.Map[object.Uid, object.WorldObject]
	joints      *intmap.Map[object.Uid, constraint.Joint]
	proximities *intmap.Map[object.Uid, *intmap.Set[object.Uid]]
}

// New creates an empty world whose entities get their uids from arena.
func New(arena *object.Arena, config Config) *World {
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &World{
		arena:       arena,
		config:      config,
		objects:     intmap.New[object.Uid, object.WorldObject](256),
		joints:      intmap.New[object.Uid, constraint.Joint](16),
		proximities: intmap.New[object.Uid, *intmap.Set[object.Uid]](16),
	}
}

// Arena returns the arena the world's entities are registered in.
func (w *World) Arena() *object.Arena {
	return w.arena
}

// Config returns the world configuration.
func (w *World) Config() Config {
	return w.config
}

// Add registers obj. Adding an object twice is a no-op.
func (w *World) Add(obj object.WorldObject) {
	uid := obj.Uid()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.objects.Put(uid, obj)
}

// Remove unregisters the object with the given uid, together with every
// joint anchored on it. The entity itself stays alive for as long as other
// holders keep its handle.
func (w *World) Remove(uid object.Uid) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.objects.Del(uid) {
		return false
	}
	w.proximities.Del(uid)
	for _, set := range w.proximities.All() {
		set.Del(uid)
	}

	var dependent []object.Uid
	for jointUid, j := range w.joints.All() {
		if anchors(j, uid) {
			dependent = append(dependent, jointUid)
		}
	}
	for _, jointUid := range dependent {
		w.joints.Del(jointUid)
	}
	return true
}

func anchors(j constraint.Joint, uid object.Uid) bool {
	a, b := j.Bodies()
	return (a != nil && a.Uid() == uid) || (b != nil && b.Uid() == uid)
}

// Get returns the registered object with the given uid.
func (w *World) Get(uid object.Uid) (object.WorldObject, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.objects.Get(uid)
}

// Len returns the number of registered objects.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.objects.Len()
}

// Objects returns a snapshot of the registered objects in ascending uid order.
func (w *World) Objects() iter.Seq2[object.Uid, object.WorldObject] {
	w.mu.RLock()
	uids := slices.Collect(w.objects.Keys())
	objs := make([]object.WorldObject, len(uids))
	slices.Sort(uids)
	for i, uid := range uids {
		objs[i], _ = w.objects.Get(uid)
	}
	w.mu.RUnlock()

	return func(yield func(object.Uid, object.WorldObject) bool) {
		for i, uid := range uids {
			if !yield(uid, objs[i]) {
				return
			}
		}
	}
}

// AddJoint registers a standing joint constraint. Adding a joint twice is a
// no-op. The joint is dropped when either of its bodies is removed.
func (w *World) AddJoint(j constraint.Joint) {
	uid := j.JointUid()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.joints.Put(uid, j)
}

// RemoveJoint unregisters the joint with the given uid.
func (w *World) RemoveJoint(uid object.Uid) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.joints.Del(uid)
}

// Joints returns clones of the registered joint constraints in ascending uid order.
func (w *World) Joints() constraint.Set {
	w.mu.RLock()
	defer w.mu.RUnlock()

	uids := slices.Sorted(w.joints.Keys())
	set := make(constraint.Set, 0, len(uids))
	for _, uid := range uids {
		c, _ := w.joints.Get(uid)
		set = append(set, c.Clone())
	}
	return set
}

// Proximities returns the uids overlapping the sensor with the given uid as
// of the last step, in ascending order.
func (w *World) Proximities(sensor object.Uid) []object.Uid {
	w.mu.RLock()
	defer w.mu.RUnlock()

	set, ok := w.proximities.Get(sensor)
	if !ok {
		return nil
	}
	return slices.Sorted(set.All())
}

func (w *World) setProximities(p *intmap.Map[object.Uid, *intmap.Set[object.Uid]]) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.proximities = p
}
