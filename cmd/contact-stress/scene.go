package main

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/rigid/constraint"
	"github.com/plus3/rigid/geom"
	"github.com/plus3/rigid/joint"
	"github.com/plus3/rigid/object"
	"github.com/plus3/rigid/world"
	"gopkg.in/yaml.v3"
)

// Scene describes the world a stress run is built from.
type Scene struct {
	Bodies  int     `yaml:"bodies"`
	Sensors int     `yaml:"sensors"`
	Joints  int     `yaml:"joints"`
	Radius  float64 `yaml:"radius"`
	Spread  float64 `yaml:"spread"`
	Margin  float64 `yaml:"margin"`
	Gravity float64 `yaml:"gravity"`
	Floor   bool    `yaml:"floor"`
	Seed    uint64  `yaml:"seed"`
	Dt      float64 `yaml:"dt"`
	Workers int     `yaml:"workers"`
}

func DefaultScene() *Scene {
	return &Scene{
		Bodies:  2000,
		Sensors: 50,
		Joints:  100,
		Radius:  0.5,
		Spread:  20,
		Margin:  object.DefaultMargin,
		Gravity: -9.81,
		Floor:   true,
		Seed:    1,
		Dt:      1.0 / 60,
		Workers: 4,
	}
}

// LoadScene reads a YAML scene, falling back to DefaultScene for missing keys.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	scene := DefaultScene()
	if err := yaml.Unmarshal(data, scene); err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}
	if err := scene.Validate(); err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return scene, nil
}

func (s *Scene) Validate() error {
	switch {
	case s.Bodies < 0 || s.Sensors < 0 || s.Joints < 0:
		return fmt.Errorf("counts must not be negative")
	case s.Sensors > s.Bodies:
		return fmt.Errorf("sensors (%d) exceed bodies (%d)", s.Sensors, s.Bodies)
	case s.Joints > 0 && s.Joints >= s.Bodies:
		return fmt.Errorf("joints (%d) need at least %d bodies", s.Joints, s.Joints+1)
	case s.Radius <= 0 || s.Spread <= 0 || s.Dt <= 0:
		return fmt.Errorf("radius, spread and dt must be positive")
	}
	return nil
}

// Config returns the world configuration for the scene.
func (s *Scene) Config() world.Config {
	cfg := world.DefaultConfig()
	cfg.Gravity = mgl64.Vec3{0, s.Gravity, 0}
	cfg.Workers = s.Workers
	return cfg
}

// Populated holds the handles created for a scene.
type Populated struct {
	Bodies  []object.RigidBodyHandle
	Sensors []object.SensorHandle
	Joints  constraint.Set
}

// Populate fills w with the scene: balls scattered above an optional floor,
// sensors attached to the first bodies and a chain of alternating fixed and
// ball-in-socket joints between consecutive bodies.
func (s *Scene) Populate(w *world.World) *Populated {
	rng := rand.New(rand.NewPCG(s.Seed, s.Seed))
	arena := w.Arena()
	out := &Populated{}

	if s.Floor {
		floor := object.Static(geom.Cuboid{HalfExtents: mgl64.Vec3{s.Spread * 2, 1, s.Spread * 2}}).
			At(geom.Translation(0, -1, 0)).
			WithMargin(s.Margin)
		w.Add(object.FromRigidBody(object.NewRigidBody(arena, floor)))
	}

	for range s.Bodies {
		pos := geom.Translation(
			(rng.Float64()*2-1)*s.Spread,
			s.Radius+rng.Float64()*s.Spread,
			(rng.Float64()*2-1)*s.Spread,
		)
		rb := object.Dynamic(geom.Ball{Radius: s.Radius}, 1).At(pos).WithMargin(s.Margin)
		h := object.NewRigidBody(arena, rb)
		out.Bodies = append(out.Bodies, h)
		w.Add(object.FromRigidBody(h))
	}

	for i := range s.Sensors {
		sensor := object.NewSensorShape(geom.Ball{Radius: s.Radius * 2}).AttachedTo(out.Bodies[i])
		h := object.NewSensor(arena, sensor)
		out.Sensors = append(out.Sensors, h)
		w.Add(object.FromSensor(h))
	}

	offset := geom.Translation(s.Radius, 0, 0)
	for i := range s.Joints {
		a1 := joint.On(out.Bodies[i], offset)
		a2 := joint.On(out.Bodies[i+1], offset.Inverse())
		var c constraint.Joint
		if i%2 == 0 {
			c = constraint.NewFixed(joint.NewFixed(arena, a1, a2))
		} else {
			c = constraint.NewBallInSocket(joint.NewBallInSocket(arena, a1, a2))
		}
		out.Joints = append(out.Joints, c)
		w.AddJoint(c)
	}

	return out
}
