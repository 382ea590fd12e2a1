package world

import "github.com/plus3/rigid/object"

// Integrator advances dynamic bodies by their velocity, after applying gravity.
type Integrator struct{}

func (Integrator) Execute(frame *StepFrame) error {
	gravity := frame.World.Config().Gravity.Mul(frame.DeltaTime)
	for _, obj := range frame.World.Objects() {
		h, ok := obj.AsRigidBody()
		if !ok {
			continue
		}
		h.Update(func(rb *object.RigidBody) {
			if rb.IsStatic() {
				return
			}
			rb.LinearVelocity = rb.LinearVelocity.Add(gravity)
			rb.Translate(rb.LinearVelocity.Mul(frame.DeltaTime))
		})
	}
	return nil
}
