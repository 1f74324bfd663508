package experiment

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/integrators"
)

// Scene is the host around a Simulator built from a config. It owns every
// point it creates, including fixed anchors the Simulator never integrates.
type Scene struct {
	cfg     *config.Config
	sim     *dynamo.Simulator
	points  []*dynamo.MassPoint
	movable []*dynamo.MassPoint
	springs []*dynamo.Spring
	gravity mgl64.Vec3
}

func NewScene(cfg *config.Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	variant, err := cfg.Variant()
	if err != nil {
		return nil, err
	}

	sim := dynamo.New()
	sim.ValidateState = cfg.ValidateState
	if err := integrators.Install(sim); err != nil {
		return nil, err
	}
	if err := sim.SetIntegrationVariant(variant); err != nil {
		return nil, err
	}

	s := &Scene{
		cfg:     cfg,
		sim:     sim,
		points:  make([]*dynamo.MassPoint, 0, len(cfg.Points)),
		movable: make([]*dynamo.MassPoint, 0, len(cfg.Points)),
		springs: make([]*dynamo.Spring, 0, len(cfg.Springs)),
		gravity: cfg.Gravity,
	}

	for i, pc := range cfg.Points {
		p := dynamo.NewMassPoint(pc.Position, pc.Mass)
		p.Velocity = pc.Velocity
		p.Damping = pc.Damping
		s.points = append(s.points, p)
		if pc.Fixed {
			continue
		}
		if err := sim.RegisterMassPoint(p); err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		s.movable = append(s.movable, p)
	}

	for i, sc := range cfg.Springs {
		a, b := s.points[sc.A], s.points[sc.B]
		var sp *dynamo.Spring
		if sc.RestLength != nil {
			sp = dynamo.NewSpringWithLength(a, b, *sc.RestLength, sc.Stiffness)
		} else {
			sp = dynamo.NewSpring(a, b, sc.Stiffness)
		}
		if err := sim.RegisterSpring(sp); err != nil {
			return nil, fmt.Errorf("spring %d: %w", i, err)
		}
		s.springs = append(s.springs, sp)
	}

	return s, nil
}

func (s *Scene) Config() *config.Config            { return s.cfg }
func (s *Scene) Simulator() *dynamo.Simulator      { return s.sim }
func (s *Scene) Points() []*dynamo.MassPoint       { return s.points }
func (s *Scene) Springs() []*dynamo.Spring         { return s.springs }
func (s *Scene) Gravity() mgl64.Vec3               { return s.gravity }
func (s *Scene) SetGravity(g mgl64.Vec3)           { s.gravity = g }
func (s *Scene) Variant() dynamo.Variant           { return s.sim.IntegrationVariant() }
func (s *Scene) SetVariant(v dynamo.Variant) error { return s.sim.SetIntegrationVariant(v) }

// Fixed reports whether the i-th configured point is an anchor.
func (s *Scene) Fixed(i int) bool {
	return s.cfg.Points[i].Fixed
}

// Step applies gravity to every movable point and advances one tick.
func (s *Scene) Step() error {
	for _, p := range s.movable {
		p.ExternalAcceleration = s.gravity
	}
	return s.sim.Simulate(s.cfg.Dt)
}

// Frame flattens the positions of all scene points as x0,y0,z0,x1,...
func (s *Scene) Frame() []float64 {
	out := make([]float64, 0, 3*len(s.points))
	for _, p := range s.points {
		out = append(out, p.Position[0], p.Position[1], p.Position[2])
	}
	return out
}
