package metrics

import (
	"github.com/san-kum/springsim/internal/dynamo"
)

// Stability is the fraction of observed steps in which no point moved faster
// than threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(sim *dynamo.Simulator) {
	s.samples++
	for _, p := range sim.Points() {
		// NaN speeds count as violations when validation is disabled.
		if !(p.Velocity.Len() <= s.threshold) {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
