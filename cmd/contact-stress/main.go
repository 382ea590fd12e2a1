package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/plus3/rigid/object"
	"github.com/plus3/rigid/world"
	"github.com/spf13/cobra"
)

var (
	sceneFile  string
	duration   time.Duration
	workers    int
	bodies     int
	profileOf  string
	profileDir string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "contact-stress",
		Short: "stress the contact and joint pipeline with many concurrent solver workers",
		RunE:  run,
	}

	rootCmd.Flags().StringVar(&sceneFile, "scene", "", "scene file path (yaml)")
	rootCmd.Flags().DurationVar(&duration, "duration", 10*time.Second, "total run duration")
	rootCmd.Flags().IntVar(&workers, "workers", 0, "solver workers (overrides the scene)")
	rootCmd.Flags().IntVar(&bodies, "bodies", 0, "rigid bodies (overrides the scene)")
	rootCmd.Flags().StringVar(&profileOf, "profile", "none", "profile to record: cpu, mem or none")
	rootCmd.Flags().StringVar(&profileDir, "profile-dir", ".", "directory for profile output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadScene(cmd *cobra.Command) (*Scene, error) {
	scene := DefaultScene()
	if sceneFile != "" {
		loaded, err := LoadScene(sceneFile)
		if err != nil {
			return nil, err
		}
		scene = loaded
	}
	if cmd.Flags().Changed("workers") {
		scene.Workers = workers
	}
	if cmd.Flags().Changed("bodies") {
		scene.Bodies = bodies
	}
	return scene, scene.Validate()
}

func startProfile() (interface{ Stop() }, error) {
	switch profileOf {
	case "none", "":
		return nil, nil
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath(profileDir), profile.NoShutdownHook), nil
	case "mem":
		return profile.Start(profile.MemProfile, profile.ProfilePath(profileDir), profile.NoShutdownHook), nil
	}
	return nil, fmt.Errorf("unknown profile %q", profileOf)
}

func run(cmd *cobra.Command, _ []string) error {
	scene, err := loadScene(cmd)
	if err != nil {
		return err
	}

	log.Println("Starting contact stress test...")

	w := world.New(object.NewArena(), scene.Config())
	log.Printf("Populating world with %d bodies, %d sensors, %d joints...\n", scene.Bodies, scene.Sensors, scene.Joints)
	populated := scene.Populate(w)
	log.Println("Population complete.")

	solver := world.NewPositionCorrector()
	pipeline := world.NewDefaultPipeline(w, solver)
	counter := &constraintCounter{}
	pipeline.Register(counter)

	report := &Report{
		Duration: duration,
		Scene:    *scene,
		StepTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	p, err := startProfile()
	if err != nil {
		return err
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", duration)
	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	startTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			stepStart := time.Now()
			if err := pipeline.Step(scene.Dt); err != nil {
				return fmt.Errorf("step %d: %w", report.TotalSteps, err)
			}
			report.StepTime.Samples = append(report.StepTime.Samples, time.Since(stepStart))
			report.TotalSteps++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.StepTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)
	if p != nil {
		p.Stop()
	}

	report.Pipeline = pipeline.Stats()
	report.Contacts, report.JointRows = solver.Corrected()
	report.MaxContacts = counter.maxContacts
	report.Objects = w.Len()
	report.Joints = len(populated.Joints)
	report.Live = w.Arena().Live()

	log.Println("Simulation finished.")

	fmt.Println("\n\n--- Contact Stress Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	return nil
}

// constraintCounter records the largest contact count seen in a step.
type constraintCounter struct {
	maxContacts int
}

func (c *constraintCounter) Execute(frame *world.StepFrame) error {
	if n := frame.Constraints.Counts().Contacts; n > c.maxContacts {
		c.maxContacts = n
	}
	return nil
}
