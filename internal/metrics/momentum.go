package metrics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/springsim/internal/dynamo"
)

func TotalMomentum(s *dynamo.Simulator) mgl64.Vec3 {
	var m mgl64.Vec3
	for _, p := range s.Points() {
		m = m.Add(p.Momentum())
	}
	return m
}

// Momentum reports the magnitude of total linear momentum after the most
// recent step.
type Momentum struct {
	name    string
	current mgl64.Vec3
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(s *dynamo.Simulator) {
	m.current = TotalMomentum(s)
}

func (m *Momentum) Vector() mgl64.Vec3 { return m.current }

func (m *Momentum) Value() float64 { return m.current.Len() }

func (m *Momentum) Reset() { m.current = mgl64.Vec3{} }
