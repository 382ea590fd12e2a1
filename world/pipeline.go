package world

import (
	"context"
	"fmt"
	"reflect"
	"time"
)

// PipelineStats provides statistics about pipeline execution.
type PipelineStats struct {
	SystemCount int
	Steps       int64
	Systems     []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Pipeline runs the systems of a simulation step in order against a World.
// A Pipeline must not be stepped from more than one goroutine at a time.
type Pipeline struct {
	world       *World
	systems     []System
	systemStats []*systemStatsInternal
	steps       int64
}

// NewPipeline creates an empty pipeline for the given world.
func NewPipeline(world *World) *Pipeline {
	return &Pipeline{
		world:   world,
		systems: make([]System, 0),
	}
}

// NewDefaultPipeline registers the standard stages: integration, broad phase,
// contact generation, joints and solving with solver.
func NewDefaultPipeline(world *World, solver Solver) *Pipeline {
	p := NewPipeline(world)
	p.Register(&Integrator{})
	p.Register(&BroadPhase{})
	p.Register(&ContactSystem{Prediction: world.Config().Prediction})
	p.Register(&JointSystem{})
	p.Register(&SolveSystem{Solver: solver, Workers: world.Config().Workers})
	return p
}

// Register appends a system to the pipeline.
func (p *Pipeline) Register(system System) {
	p.systems = append(p.systems, system)

	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}

	p.systemStats = append(p.systemStats, &systemStatsInternal{
		name:        systemType.Name(),
		minDuration: time.Duration(1<<63 - 1),
	})
}

// Step executes all registered systems once with the given delta time.
func (p *Pipeline) Step(dt float64) error {
	return p.StepContext(context.Background(), dt)
}

// StepContext executes all registered systems once. The first failing system
// ends the step; queued commands are applied either way.
func (p *Pipeline) StepContext(ctx context.Context, dt float64) error {
	frame := newStepFrame(ctx, dt, p.world)
	defer frame.Commands.Flush(p.world)

	p.steps++
	for i, system := range p.systems {
		start := time.Now()
		err := system.Execute(frame)
		duration := time.Since(start)

		stats := p.systemStats[i]
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}

		if err != nil {
			return fmt.Errorf("world: %s: %w", stats.name, err)
		}
	}
	return nil
}

// Run steps the pipeline at the given interval until the context is cancelled
// or a step fails.
func (p *Pipeline) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			if err := p.StepContext(ctx, dt); err != nil {
				return err
			}
		}
	}
}

// Stats returns statistics about system execution.
func (p *Pipeline) Stats() *PipelineStats {
	stats := &PipelineStats{
		SystemCount: len(p.systems),
		Steps:       p.steps,
		Systems:     make([]SystemStats, len(p.systemStats)),
	}

	for i, internal := range p.systemStats {
		avgDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
	}

	return stats
}
