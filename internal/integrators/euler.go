package integrators

import "github.com/san-kum/springsim/internal/dynamo"

// Euler is semi-implicit: velocity is updated first and the new velocity
// moves the point, which keeps undamped springs from gaining energy.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Integrate(sys dynamo.ForceSystem, points []*dynamo.MassPoint, dt float64) {
	forces := sys.ComputeForces()
	for _, p := range points {
		w := p.Working()
		w.Acceleration = forces.At(p).Mul(1 / p.Mass)
		w.Velocity = w.Velocity.Add(w.Acceleration.Mul(dt))
		w.Position = w.Position.Add(w.Velocity.Mul(dt))
	}
}
