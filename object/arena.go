package object

import (
	"runtime"
	"sync"
	"weak"
)

const (
	arenaBlockSize = 64
)

// slot tracks one uid index. Only weak pointers to the entity are kept, so a
// slot never extends the lifetime of the handle it names.
type slot struct {
	generation uint32
	live       bool
	arena      *Arena
	kind       Kind
	rigid      weak.Pointer[Handle[RigidBody]]
	sensor     weak.Pointer[Handle[Sensor]]
}

// slotTable is the uid index space. There is exactly one per process and
// every arena allocates from it, so two live handles never share a uid even
// when they come from different arenas.
type slotTable struct {
	mu        sync.Mutex
	blocks    []*[arenaBlockSize]slot
	freeSlots []int
	nextIndex int
}

var slots slotTable

// allocate reserves a slot and returns its index. Callers must hold t.mu.
func (t *slotTable) allocate() int {
	if len(t.freeSlots) > 0 {
		index := t.freeSlots[len(t.freeSlots)-1]
		t.freeSlots = t.freeSlots[:len(t.freeSlots)-1]
		return index
	}

	index := t.nextIndex
	t.nextIndex++

	if index/arenaBlockSize >= len(t.blocks) {
		t.blocks = append(t.blocks, new([arenaBlockSize]slot))
	}
	t.blocks[index/arenaBlockSize][index%arenaBlockSize].generation = 1
	return index
}

// at returns the slot for index or nil. Callers must hold t.mu.
func (t *slotTable) at(index int) *slot {
	if index < 0 || index >= t.nextIndex {
		return nil
	}
	return &t.blocks[index/arenaBlockSize][index%arenaBlockSize]
}

// lookup returns the live slot named by uid or nil. Callers must hold t.mu.
func (t *slotTable) lookup(uid Uid) *slot {
	s := t.at(int(uid.Index()))
	if s == nil || !s.live || s.generation != uid.Generation() {
		return nil
	}
	return s
}

// release frees the slot named by uid. A slot whose generation would wrap is
// retired instead: its index is never handed out again.
func (t *slotTable) release(uid Uid) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.lookup(uid)
	if s == nil {
		return
	}
	s.arena.live--

	next := s.generation + 1
	*s = slot{generation: next}
	if next == 0 {
		return
	}
	t.freeSlots = append(t.freeSlots, int(uid.Index()))
}

// Arena hands out generational uids for handles. Indices come from a single
// process-wide table and are recycled once the garbage collector reclaims
// the handle that owned them; every recycle bumps the slot generation so a
// stale uid never names a newer entity.
//
// An Arena is a registry scope: it resolves only the uids it issued.
// An Arena is safe for concurrent use.
type Arena struct {
	live int // guarded by slots.mu
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// register assigns a uid to h and arranges for the slot to be recycled when h
// becomes unreachable.
func register[T any](a *Arena, h *Handle[T], attach func(*slot)) {
	slots.mu.Lock()
	index := slots.allocate()
	s := slots.at(index)
	s.live = true
	s.arena = a
	if attach != nil {
		attach(s)
	}
	a.live++
	h.uid = NewUid(uint32(index), s.generation)
	slots.mu.Unlock()

	runtime.AddCleanup(h, slots.release, h.uid)
}

// Resolve returns the world object owning uid. It reports false for uids that
// were not issued by this arena, whose entity has been reclaimed, or that
// belong to a non-entity payload such as a joint.
func (a *Arena) Resolve(uid Uid) (WorldObject, bool) {
	slots.mu.Lock()
	s := slots.lookup(uid)
	if s == nil || s.arena != a {
		slots.mu.Unlock()
		return WorldObject{}, false
	}
	kind, rigid, sensor := s.kind, s.rigid, s.sensor
	slots.mu.Unlock()

	switch kind {
	case KindRigidBody:
		if h := rigid.Value(); h != nil {
			return FromRigidBody(h), true
		}
	case KindSensor:
		if h := sensor.Value(); h != nil {
			return FromSensor(h), true
		}
	}
	return WorldObject{}, false
}

// Live returns the number of handles issued by this arena that have not been
// reclaimed yet.
func (a *Arena) Live() int {
	slots.mu.Lock()
	defer slots.mu.Unlock()
	return a.live
}
