// Package dynamo provides the fixed-timestep mass-spring kernel.
//
// The package defines the particles, connectors and orchestration of one
// simulation step:
//
//   - [MassPoint]: point mass with a three-phase step lifecycle
//   - [Spring]: Hookean connector between two points
//   - [Forces]: dense per-point force arena indexed by [MassPoint.Index]
//   - [Integrator]: time-stepping strategy, selected by [Variant]
//   - [Simulator]: registers points and springs and drives [Simulator.Simulate]
//
// # Step Lifecycle
//
// Simulate prepares every point (snapshot of position and velocity), hands the
// points to the active integrator, which advances their working state and
// evaluates forces as often as it needs, then applies and cleans up every
// point. Collaborators only ever observe committed state.
//
//	sim := dynamo.New()
//	integrators.Install(sim)
//	a := dynamo.NewMassPoint(mgl64.Vec3{0, 0, 0}, 1)
//	b := dynamo.NewMassPoint(mgl64.Vec3{2, 0, 0}, 1)
//	sim.RegisterMassPoint(a)
//	sim.RegisterMassPoint(b)
//	sim.RegisterSpring(dynamo.NewSpringWithLength(a, b, 1, 10))
//	err := sim.Simulate(0.01)
//
// # Errors
//
// Precondition failures ([ErrInvalidMass], [ErrUnconfiguredIntegrator],
// [ErrReentrantStep]) are reported before any point is mutated. A step whose
// result contains NaN or Inf is discarded with [ErrInvalidState] when
// [Simulator.ValidateState] is set.
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe and a MassPoint belongs to at most
// one Simulator. Independent simulators may run on separate goroutines.
package dynamo
