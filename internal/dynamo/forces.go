package dynamo

import "github.com/go-gl/mathgl/mgl64"

// Forces holds one net force per arena slot. Slices returned by the
// simulator are reused by the next evaluation.
type Forces []mgl64.Vec3

// At returns the force accumulated for p, zero if p has no slot.
func (f Forces) At(p *MassPoint) mgl64.Vec3 {
	i := p.Index()
	if i < 0 || i >= len(f) {
		return mgl64.Vec3{}
	}
	return f[i]
}

// ComputeForces aggregates spring, external and damping forces for every
// registered point. External acceleration is scaled by mass so the result is
// a net force throughout; integrators divide by mass once.
func (s *Simulator) ComputeForces() Forces {
	forces := s.ComputeSpringForces()

	for _, p := range s.points {
		f := p.ExternalAcceleration.Mul(p.Mass).Sub(p.liveVelocity().Mul(p.Damping))
		forces[p.index] = forces[p.index].Add(f)
	}

	return forces
}

// ComputeSpringForces depends on positions only.
func (s *Simulator) ComputeSpringForces() Forces {
	if cap(s.forces) < s.slots {
		s.forces = make(Forces, s.slots)
	}
	s.forces = s.forces[:s.slots]
	for i := range s.forces {
		s.forces[i] = mgl64.Vec3{}
	}

	for _, spring := range s.springs {
		f := spring.CalculateElasticForces()
		i, j := spring.Point1.index, spring.Point2.index
		s.forces[i] = s.forces[i].Add(f)
		s.forces[j] = s.forces[j].Sub(f)
	}

	return s.forces
}
