package object

const errSameBody = "object: cannot borrow the same rigid body twice"

// BorrowPairMut takes the exclusive locks on two distinct bodies, always in
// ascending uid order, and returns the guards in argument order. Every caller
// that holds two bodies at once must go through it so lock acquisition never
// forms a cycle.
func BorrowPairMut(a, b RigidBodyHandle) (*WriteGuard[RigidBody], *WriteGuard[RigidBody]) {
	if a == b {
		panic(errSameBody)
	}
	if locksBefore(a, b) {
		ga := a.Write()
		return ga, b.Write()
	}
	gb := b.Write()
	return a.Write(), gb
}

// BorrowPair is the shared counterpart of BorrowPairMut.
func BorrowPair(a, b RigidBodyHandle) (*ReadGuard[RigidBody], *ReadGuard[RigidBody]) {
	if a == b {
		panic(errSameBody)
	}
	if locksBefore(a, b) {
		ga := a.Read()
		return ga, b.Read()
	}
	gb := b.Read()
	return a.Read(), gb
}
