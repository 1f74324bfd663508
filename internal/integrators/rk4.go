package integrators

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/springsim/internal/dynamo"
)

// RK4 is the classic four-stage Runge-Kutta scheme. Every stage starts from
// the snapshot taken in Prepare and is written into the working state, so
// spring forces are evaluated at the stage positions.
type RK4 struct {
	kx, kv [4][]mgl64.Vec3
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.kx[0]) != n {
		for k := range r.kx {
			r.kx[k] = make([]mgl64.Vec3, n)
			r.kv[k] = make([]mgl64.Vec3, n)
		}
	}
}

func (r *RK4) Integrate(sys dynamo.ForceSystem, points []*dynamo.MassPoint, dt float64) {
	r.ensureScratch(len(points))

	r.derive(sys, points, 0)
	r.advance(points, 0, dt*0.5)
	r.derive(sys, points, 1)
	r.advance(points, 1, dt*0.5)
	r.derive(sys, points, 2)
	r.advance(points, 2, dt)
	r.derive(sys, points, 3)

	dt6 := dt / 6.0
	for i, p := range points {
		s := p.Snapshot()
		w := p.Working()
		dx := r.kx[0][i].Add(r.kx[1][i].Mul(2)).Add(r.kx[2][i].Mul(2)).Add(r.kx[3][i])
		dv := r.kv[0][i].Add(r.kv[1][i].Mul(2)).Add(r.kv[2][i].Mul(2)).Add(r.kv[3][i])
		w.Position = s.Position.Add(dx.Mul(dt6))
		w.Velocity = s.Velocity.Add(dv.Mul(dt6))
		w.Acceleration = dv.Mul(1.0 / 6.0)
	}
}

// derive stores dx/dt and dv/dt of the current working state in stage k.
func (r *RK4) derive(sys dynamo.ForceSystem, points []*dynamo.MassPoint, k int) {
	forces := sys.ComputeForces()
	for i, p := range points {
		r.kx[k][i] = p.Working().Velocity
		r.kv[k][i] = forces.At(p).Mul(1 / p.Mass)
	}
}

func (r *RK4) advance(points []*dynamo.MassPoint, k int, h float64) {
	for i, p := range points {
		s := p.Snapshot()
		w := p.Working()
		w.Position = s.Position.Add(r.kx[k][i].Mul(h))
		w.Velocity = s.Velocity.Add(r.kv[k][i].Mul(h))
	}
}
