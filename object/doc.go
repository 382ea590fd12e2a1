// Package object holds the entities of a simulation behind shared,
// lock-protected handles.
//
// Every rigid body and sensor lives in a Handle. Handles are shared by
// pointer and identified by a generational Uid issued by an Arena. A
// WorldObject wraps either kind so subsystems can store and borrow them
// uniformly.
//
// A borrow blocks until its lock is available and holds it until Release.
// Code that needs two bodies at once must use BorrowPairMut, which always
// locks in uid order.
package object
