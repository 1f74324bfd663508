package integrators

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/springsim/internal/dynamo"
)

// Verlet is velocity Verlet: drift with the old acceleration, re-evaluate
// forces at the new positions, then average the two for the velocity.
type Verlet struct {
	prevAcc []mgl64.Vec3
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) ensureScratch(n int) {
	if len(v.prevAcc) != n {
		v.prevAcc = make([]mgl64.Vec3, n)
	}
}

func (v *Verlet) Integrate(sys dynamo.ForceSystem, points []*dynamo.MassPoint, dt float64) {
	v.ensureScratch(len(points))
	halfDt2 := 0.5 * dt * dt

	forces := sys.ComputeForces()
	for i, p := range points {
		w := p.Working()
		a := forces.At(p).Mul(1 / p.Mass)
		v.prevAcc[i] = a
		w.Position = w.Position.Add(w.Velocity.Mul(dt)).Add(a.Mul(halfDt2))
	}

	forces = sys.ComputeForces()
	halfDt := 0.5 * dt
	for i, p := range points {
		w := p.Working()
		a := forces.At(p).Mul(1 / p.Mass)
		w.Velocity = w.Velocity.Add(v.prevAcc[i].Add(a).Mul(halfDt))
		w.Acceleration = a
	}
}
