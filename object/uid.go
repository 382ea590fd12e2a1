package object

import "fmt"

// Uid identifies a live entity. It encodes both the generation (upper 32 bits)
// and the slot index (lower 32 bits). Indices are shared by every arena in the
// process, so a uid is unique among all live handles. Generations start at 1
// so the zero Uid never names an entity.
type Uid uint64

// NewUid creates a Uid from an arena slot index and a generation.
func NewUid(index uint32, generation uint32) Uid {
	return Uid(uint64(generation)<<32 | uint64(index))
}

// Index extracts the arena slot index from the uid.
func (u Uid) Index() uint32 {
	return uint32(u & 0xFFFFFFFF)
}

// Generation extracts the slot generation from the uid.
func (u Uid) Generation() uint32 {
	return uint32(u >> 32)
}

func (u Uid) String() string {
	return fmt.Sprintf("%d.%d", u.Index(), u.Generation())
}

// Ordered returns the two uids in lock acquisition order.
func Ordered(a, b Uid) (Uid, Uid) {
	if b < a {
		return b, a
	}
	return a, b
}

// locksBefore reports whether a must be locked before b.
func locksBefore[T any](a, b *Handle[T]) bool {
	return a.uid < b.uid
}
