package object

import "sync"

// Handle is a shared, lock-protected cell around an entity or joint. Copying
// the pointer shares the cell: every holder observes the same value and the
// value lives as long as any holder keeps the pointer.
type Handle[T any] struct {
	mu    sync.RWMutex
	uid   Uid
	value T
}

// NewHandle wraps v in a handle whose uid is issued by arena.
func NewHandle[T any](arena *Arena, v T) *Handle[T] {
	h := &Handle[T]{value: v}
	register(arena, h, nil)
	return h
}

// Uid returns the identity of the handle. It is stable for as long as the
// handle is reachable.
func (h *Handle[T]) Uid() Uid {
	return h.uid
}

// Read blocks until a shared lock is held and returns a guard over the value.
func (h *Handle[T]) Read() *ReadGuard[T] {
	h.mu.RLock()
	return &ReadGuard[T]{handle: h}
}

// Write blocks until the exclusive lock is held and returns a guard over the value.
func (h *Handle[T]) Write() *WriteGuard[T] {
	h.mu.Lock()
	return &WriteGuard[T]{handle: h}
}

// View calls fn with the value while holding a shared lock.
func (h *Handle[T]) View(fn func(*T)) {
	g := h.Read()
	defer g.Release()
	fn(g.Get())
}

// Update calls fn with the value while holding the exclusive lock.
func (h *Handle[T]) Update(fn func(*T)) {
	g := h.Write()
	defer g.Release()
	fn(g.Get())
}

// ReadGuard is a shared borrow of a handle. The pointer returned by Get must
// not be written through nor retained after Release.
type ReadGuard[T any] struct {
	handle   *Handle[T]
	released bool
}

// Get returns the borrowed value.
func (g *ReadGuard[T]) Get() *T {
	if g.released {
		panic(errReleased)
	}
	return &g.handle.value
}

// Uid returns the identity of the borrowed handle.
func (g *ReadGuard[T]) Uid() Uid {
	return g.handle.uid
}

// Release unlocks the handle. Releasing twice panics.
func (g *ReadGuard[T]) Release() {
	if g.released {
		panic(errReleased)
	}
	g.released = true
	g.handle.mu.RUnlock()
}

// WriteGuard is an exclusive borrow of a handle.
type WriteGuard[T any] struct {
	handle   *Handle[T]
	released bool
}

// Get returns the borrowed value.
func (g *WriteGuard[T]) Get() *T {
	if g.released {
		panic(errReleased)
	}
	return &g.handle.value
}

// Uid returns the identity of the borrowed handle.
func (g *WriteGuard[T]) Uid() Uid {
	return g.handle.uid
}

// Release unlocks the handle. Releasing twice panics.
func (g *WriteGuard[T]) Release() {
	if g.released {
		panic(errReleased)
	}
	g.released = true
	g.handle.mu.Unlock()
}
