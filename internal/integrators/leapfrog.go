package integrators

import "github.com/san-kum/springsim/internal/dynamo"

// Leapfrog keeps velocity half a step ahead of position. The first step after
// construction or Reset only kicks by dt/2 to establish that offset; the flag
// clears on Commit, once that step has been applied.
type Leapfrog struct {
	first bool
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{first: true}
}

func (l *Leapfrog) Reset() { l.first = true }

func (l *Leapfrog) Commit() { l.first = false }

// FirstStep reports whether the next Integrate performs the bootstrap kick.
func (l *Leapfrog) FirstStep() bool { return l.first }

func (l *Leapfrog) Integrate(sys dynamo.ForceSystem, points []*dynamo.MassPoint, dt float64) {
	kick := dt
	if l.first {
		kick = dt * 0.5
	}

	forces := sys.ComputeForces()
	for _, p := range points {
		w := p.Working()
		w.Acceleration = forces.At(p).Mul(1 / p.Mass)
		w.Velocity = w.Velocity.Add(w.Acceleration.Mul(kick))
		w.Position = w.Position.Add(w.Velocity.Mul(dt))
	}
}
