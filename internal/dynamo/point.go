package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Kinematics is the state an integrator advances during a step.
type Kinematics struct {
	Position     mgl64.Vec3
	Velocity     mgl64.Vec3
	Acceleration mgl64.Vec3
}

func (k Kinematics) IsValid() bool {
	for _, v := range [...]mgl64.Vec3{k.Position, k.Velocity, k.Acceleration} {
		for _, c := range v {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return false
			}
		}
	}
	return true
}

// MassPoint is a point particle. The exported fields are the authoritative
// state; they only change inside Apply.
type MassPoint struct {
	Position     mgl64.Vec3
	Velocity     mgl64.Vec3
	Acceleration mgl64.Vec3

	Mass    float64
	Damping float64
	// ExternalAcceleration is set by collaborators between steps (e.g. gravity).
	ExternalAcceleration mgl64.Vec3

	snapshot Kinematics
	working  Kinematics
	prepared bool

	index int
	owner *Simulator
}

func NewMassPoint(position mgl64.Vec3, mass float64) *MassPoint {
	return &MassPoint{
		Position: position,
		Mass:     mass,
		index:    -1,
	}
}

// Index returns the point's slot in its simulator's force arena, or -1.
func (p *MassPoint) Index() int {
	if p.owner == nil {
		return -1
	}
	return p.index
}

func (p *MassPoint) Prepared() bool { return p.prepared }

// Prepare snapshots position and velocity and seeds the working state from
// them. A second call before CleanUp keeps the first snapshot.
func (p *MassPoint) Prepare() {
	if p.prepared {
		return
	}
	p.snapshot = Kinematics{Position: p.Position, Velocity: p.Velocity}
	p.working = p.snapshot
	p.prepared = true
}

// Snapshot returns the pre-step state captured by Prepare.
func (p *MassPoint) Snapshot() Kinematics { return p.snapshot }

// Working returns the state integrators read and write between Prepare and Apply.
func (p *MassPoint) Working() *Kinematics { return &p.working }

// Apply commits the working state.
func (p *MassPoint) Apply() {
	if !p.prepared {
		return
	}
	p.Position = p.working.Position
	p.Velocity = p.working.Velocity
	p.Acceleration = p.working.Acceleration
}

func (p *MassPoint) CleanUp() {
	p.snapshot = Kinematics{}
	p.working = Kinematics{}
	p.prepared = false
}

// livePosition is the working position during a step, the committed one otherwise.
func (p *MassPoint) livePosition() mgl64.Vec3 {
	if p.prepared {
		return p.working.Position
	}
	return p.Position
}

func (p *MassPoint) liveVelocity() mgl64.Vec3 {
	if p.prepared {
		return p.working.Velocity
	}
	return p.Velocity
}

func (p *MassPoint) hasValidMass() bool {
	return p.Mass > 0 && !math.IsInf(p.Mass, 0) && !math.IsNaN(p.Mass)
}

// KineticEnergy uses the committed velocity.
func (p *MassPoint) KineticEnergy() float64 {
	return 0.5 * p.Mass * p.Velocity.Dot(p.Velocity)
}

func (p *MassPoint) Momentum() mgl64.Vec3 {
	return p.Velocity.Mul(p.Mass)
}
