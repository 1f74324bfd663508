package dynamo

import "fmt"

// Simulator owns the registered points and springs and drives one fixed step
// per Simulate call. It is not safe for concurrent use.
type Simulator struct {
	points  []*MassPoint
	springs []*Spring

	integrators [numVariants]Integrator
	variant     Variant

	forces Forces
	slots  int
	free   []int

	stepping bool
	steps    int
	time     float64

	// ValidateState rejects steps that produce NaN or Inf before anything is applied.
	ValidateState bool

	observers []Observer
	metrics   []Metric
}

func New() *Simulator {
	return &Simulator{
		points:        make([]*MassPoint, 0),
		springs:       make([]*Spring, 0),
		variant:       Euler,
		ValidateState: true,
		observers:     make([]Observer, 0),
		metrics:       make([]Metric, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Steps() int     { return s.steps }
func (s *Simulator) Time() float64  { return s.time }
func (s *Simulator) Stepping() bool { return s.stepping }

func (s *Simulator) Points() []*MassPoint {
	out := make([]*MassPoint, len(s.points))
	copy(out, s.points)
	return out
}

func (s *Simulator) Springs() []*Spring {
	out := make([]*Spring, len(s.springs))
	copy(out, s.springs)
	return out
}

// RegisterMassPoint appends p; it takes part from the next Simulate call.
// Registering the same point twice makes it integrate twice per step.
func (s *Simulator) RegisterMassPoint(p *MassPoint) error {
	if p == nil {
		return ErrNilPoint
	}
	if err := s.claim(p); err != nil {
		return err
	}
	s.points = append(s.points, p)
	return nil
}

// RegisterSpring appends sp. Endpoints that were never registered as points
// get a force slot but are not integrated, so they behave as fixed anchors.
func (s *Simulator) RegisterSpring(sp *Spring) error {
	if sp == nil || sp.Point1 == nil || sp.Point2 == nil {
		return ErrNilPoint
	}
	if sp.Point2.owner != nil && sp.Point2.owner != s {
		return ErrForeignPoint
	}
	if err := s.claim(sp.Point1); err != nil {
		return err
	}
	if err := s.claim(sp.Point2); err != nil {
		return err
	}
	s.springs = append(s.springs, sp)
	return nil
}

// RemoveMassPoint drops every occurrence of p together with the springs
// attached to it.
func (s *Simulator) RemoveMassPoint(p *MassPoint) {
	if p == nil || p.owner != s {
		return
	}
	s.points = removeAll(s.points, func(q *MassPoint) bool { return q == p })

	var detached []*MassPoint
	s.springs = removeAll(s.springs, func(sp *Spring) bool {
		if !sp.touches(p) {
			return false
		}
		detached = append(detached, sp.Point1, sp.Point2)
		return true
	})

	s.release(p)
	for _, q := range detached {
		s.releaseIfUnused(q)
	}
}

func (s *Simulator) RemoveSpring(sp *Spring) {
	if sp == nil {
		return
	}
	before := len(s.springs)
	s.springs = removeAll(s.springs, func(x *Spring) bool { return x == sp })
	if len(s.springs) == before {
		return
	}
	s.releaseIfUnused(sp.Point1)
	s.releaseIfUnused(sp.Point2)
}

// SetIntegrator backs variant v with integ; nil removes it.
func (s *Simulator) SetIntegrator(v Variant, integ Integrator) error {
	if !v.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
	}
	s.integrators[v] = integ
	return nil
}

func (s *Simulator) Integrator(v Variant) Integrator {
	if !v.Valid() {
		return nil
	}
	return s.integrators[v]
}

func (s *Simulator) IntegrationVariant() Variant { return s.variant }

// SetIntegrationVariant switches the active scheme. Continuation state of
// every other integrator is discarded so re-entering a variant starts fresh.
func (s *Simulator) SetIntegrationVariant(v Variant) error {
	if !v.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
	}
	if v != s.variant {
		s.variant = v
		s.resetInactive()
	}
	return nil
}

// Simulate advances every registered point by dt. Preconditions are checked
// before any point is touched, and nothing is applied unless the whole step
// succeeds.
func (s *Simulator) Simulate(dt float64) error {
	if s.stepping {
		return ErrReentrantStep
	}

	integ := s.integrators[s.variant]
	if integ == nil {
		return &SimulationError{
			Step:    s.steps,
			Time:    s.time,
			Point:   -1,
			Wrapped: fmt.Errorf("%w: %s", ErrUnconfiguredIntegrator, s.variant),
		}
	}

	for i, p := range s.points {
		if !p.hasValidMass() {
			return &SimulationError{Step: s.steps, Time: s.time, Point: i, Wrapped: ErrInvalidMass}
		}
	}

	s.stepping = true
	defer func() { s.stepping = false }()

	s.resetInactive()

	for _, p := range s.points {
		p.Prepare()
	}

	integ.Integrate(s, s.points, dt)

	if s.ValidateState {
		for i, p := range s.points {
			if !p.working.IsValid() {
				for _, q := range s.points {
					q.CleanUp()
				}
				return &SimulationError{Step: s.steps, Time: s.time, Point: i, Wrapped: ErrInvalidState}
			}
		}
	}

	for _, p := range s.points {
		p.Apply()
		p.CleanUp()
	}
	if c, ok := integ.(Committer); ok {
		c.Commit()
	}

	s.steps++
	s.time += dt

	for _, o := range s.observers {
		o.OnStep(s)
	}
	for _, m := range s.metrics {
		m.Observe(s)
	}

	return nil
}

// Metrics returns the current value of every attached metric.
func (s *Simulator) Metrics() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s *Simulator) resetInactive() {
	for v, integ := range s.integrators {
		if Variant(v) == s.variant || integ == nil {
			continue
		}
		if r, ok := integ.(Resetter); ok {
			r.Reset()
		}
	}
}

func (s *Simulator) claim(p *MassPoint) error {
	if p.owner == s {
		return nil
	}
	if p.owner != nil {
		return ErrForeignPoint
	}
	p.owner = s
	if n := len(s.free); n > 0 {
		p.index = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		p.index = s.slots
		s.slots++
	}
	return nil
}

func (s *Simulator) release(p *MassPoint) {
	if p.owner != s {
		return
	}
	s.free = append(s.free, p.index)
	p.owner = nil
	p.index = -1
}

func (s *Simulator) releaseIfUnused(p *MassPoint) {
	for _, q := range s.points {
		if q == p {
			return
		}
	}
	for _, sp := range s.springs {
		if sp.touches(p) {
			return
		}
	}
	s.release(p)
}

func removeAll[T any](items []T, drop func(T) bool) []T {
	kept := items[:0]
	for _, it := range items {
		if !drop(it) {
			kept = append(kept, it)
		}
	}
	for i := len(kept); i < len(items); i++ {
		var zero T
		items[i] = zero
	}
	return kept
}
