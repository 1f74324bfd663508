// Package integrators implements the time-stepping schemes selectable on a
// dynamo.Simulator.
package integrators

import (
	"fmt"

	"github.com/san-kum/springsim/internal/dynamo"
)

// New returns a fresh integrator for v.
func New(v dynamo.Variant) (dynamo.Integrator, error) {
	switch v {
	case dynamo.Euler:
		return NewEuler(), nil
	case dynamo.LeapFrog:
		return NewLeapfrog(), nil
	case dynamo.Verlet:
		return NewVerlet(), nil
	case dynamo.RK4:
		return NewRK4(), nil
	default:
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownVariant, v)
	}
}

// Install backs every variant on s with its own instance.
func Install(s *dynamo.Simulator) error {
	for _, v := range dynamo.Variants() {
		integ, err := New(v)
		if err != nil {
			return err
		}
		if err := s.SetIntegrator(v, integ); err != nil {
			return err
		}
	}
	return nil
}
