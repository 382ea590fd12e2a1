package world

import (
	"context"

	"github.com/plus3/rigid/constraint"
	"github.com/plus3/rigid/object"
)

// Pair is a broad-phase candidate: two objects whose bounds overlap, lower uid first.
type Pair struct {
	A, B object.WorldObject
}

// StepFrame carries the state of one step through the systems of a Pipeline.
// Systems read the world and the broad-phase Pairs, append to Constraints and
// queue registry changes on Commands, which are applied after the last system.
type StepFrame struct {
	Context     context.Context
	DeltaTime   float64
	World       *World
	Commands    *Commands
	Pairs       []Pair
	Constraints constraint.Set
}

func newStepFrame(ctx context.Context, dt float64, world *World) *StepFrame {
	return &StepFrame{
		Context:   ctx,
		DeltaTime: dt,
		World:     world,
		Commands:  newCommands(),
	}
}
