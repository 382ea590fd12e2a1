// Package world drives a simulation step: a World registers objects and
// joints, and a Pipeline runs the systems that integrate bodies, find
// overlapping pairs, build contact and joint constraints, and hand them to a
// Solver.
//
// Systems run one after another; only the solve stage runs concurrently, and
// it relies on object.BorrowPairMut to lock the two bodies of a contact in
// uid order.
package world
