package world

// System is one stage of a simulation step. Systems run in registration order
// and communicate through the StepFrame: earlier stages fill Pairs and
// Constraints, later stages consume them.
type System interface {
	Execute(frame *StepFrame) error
}
