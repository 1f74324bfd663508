package metrics

import (
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
)

// TotalEnergy sums kinetic energy, spring potential and the potential of each
// point's constant external acceleration.
func TotalEnergy(s *dynamo.Simulator) float64 {
	var e float64
	for _, p := range s.Points() {
		e += p.KineticEnergy()
		e -= p.Mass * p.ExternalAcceleration.Dot(p.Position)
	}
	for _, sp := range s.Springs() {
		e += sp.PotentialEnergy()
	}
	return e
}

// Energy reports total energy after the most recent step.
type Energy struct {
	name    string
	current float64
	samples int
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s *dynamo.Simulator) {
	e.current = TotalEnergy(s)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.current
}

func (e *Energy) Reset() {
	e.current = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative departure from the energy seen at
// the first observed step.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s *dynamo.Simulator) {
	energy := TotalEnergy(s)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
