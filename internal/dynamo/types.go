package dynamo

// ForceSystem evaluates net forces for the current working state.
type ForceSystem interface {
	ComputeForces() Forces
}

// Integrator advances the working state of every point by dt.
type Integrator interface {
	Integrate(sys ForceSystem, points []*MassPoint, dt float64)
}

// Resetter is implemented by integrators carrying state across steps.
type Resetter interface {
	Reset()
}

// Committer is told when a step it integrated has been applied. Continuation
// state must not advance until Commit, so a rejected step can be retried.
type Committer interface {
	Commit()
}

type Observer interface {
	OnStep(s *Simulator)
}

type Metric interface {
	Name() string
	Observe(s *Simulator)
	Value() float64
	Reset()
}
