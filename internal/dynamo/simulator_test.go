package dynamo

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

type testIntegrator struct {
	calls   int
	resets  int
	commits int
}

func (ti *testIntegrator) Integrate(sys ForceSystem, points []*MassPoint, dt float64) {
	ti.calls++
	forces := sys.ComputeForces()
	for _, p := range points {
		w := p.Working()
		w.Acceleration = forces.At(p).Mul(1 / p.Mass)
		w.Velocity = w.Velocity.Add(w.Acceleration.Mul(dt))
		w.Position = w.Position.Add(w.Velocity.Mul(dt))
	}
}

func (ti *testIntegrator) Reset() { ti.resets++ }

func (ti *testIntegrator) Commit() { ti.commits++ }

type reentrantObserver struct {
	err error
}

func (o *reentrantObserver) OnStep(s *Simulator) { o.err = s.Simulate(0.1) }

type countMetric struct{ n int }

func (c *countMetric) Name() string         { return "count" }
func (c *countMetric) Observe(s *Simulator) { c.n++ }
func (c *countMetric) Value() float64       { return float64(c.n) }
func (c *countMetric) Reset()               { c.n = 0 }

func newTestSimulator() (*Simulator, *testIntegrator) {
	s := New()
	ti := &testIntegrator{}
	s.SetIntegrator(Euler, ti)
	return s, ti
}

func TestSimulate_FreeFall(t *testing.T) {
	s, _ := newTestSimulator()
	p := NewMassPoint(mgl64.Vec3{}, 1)
	p.ExternalAcceleration = mgl64.Vec3{0, -9.81, 0}
	mustRegister(t, s, p)

	if err := s.Simulate(1.0); err != nil {
		t.Fatalf("simulate: %v", err)
	}

	if !p.Velocity.ApproxEqual(mgl64.Vec3{0, -9.81, 0}) {
		t.Errorf("velocity = %v, want (0,-9.81,0)", p.Velocity)
	}
	if !p.Position.ApproxEqual(mgl64.Vec3{0, -9.81, 0}) {
		t.Errorf("position = %v, want (0,-9.81,0)", p.Position)
	}
	if s.Steps() != 1 || s.Time() != 1.0 {
		t.Errorf("steps=%d time=%v, want 1 and 1.0", s.Steps(), s.Time())
	}
	if p.Prepared() {
		t.Error("point left prepared after the step")
	}
}

func TestSimulate_InvalidMassPreservesState(t *testing.T) {
	for _, mass := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		s, ti := newTestSimulator()
		good := NewMassPoint(mgl64.Vec3{1, 1, 1}, 1)
		good.Velocity = mgl64.Vec3{1, 0, 0}
		bad := NewMassPoint(mgl64.Vec3{2, 2, 2}, mass)
		bad.Velocity = mgl64.Vec3{0, 1, 0}
		mustRegister(t, s, good, bad)

		err := s.Simulate(0.1)
		if !errors.Is(err, ErrInvalidMass) {
			t.Fatalf("mass %v: err = %v, want ErrInvalidMass", mass, err)
		}
		var simErr *SimulationError
		if !errors.As(err, &simErr) || simErr.Point != 1 {
			t.Errorf("mass %v: expected SimulationError naming point 1, got %v", mass, err)
		}
		if ti.calls != 0 {
			t.Error("integrator ran despite invalid mass")
		}
		if good.Position != (mgl64.Vec3{1, 1, 1}) || good.Velocity != (mgl64.Vec3{1, 0, 0}) {
			t.Errorf("good point mutated: pos=%v vel=%v", good.Position, good.Velocity)
		}
		if bad.Position != (mgl64.Vec3{2, 2, 2}) || bad.Velocity != (mgl64.Vec3{0, 1, 0}) {
			t.Errorf("bad point mutated: pos=%v vel=%v", bad.Position, bad.Velocity)
		}
		if s.Steps() != 0 {
			t.Error("failed step was counted")
		}
	}
}

func TestSimulate_Unconfigured(t *testing.T) {
	s := New()
	p := NewMassPoint(mgl64.Vec3{1, 0, 0}, 1)
	mustRegister(t, s, p)

	if err := s.Simulate(0.1); !errors.Is(err, ErrUnconfiguredIntegrator) {
		t.Fatalf("err = %v, want ErrUnconfiguredIntegrator", err)
	}
	if p.Prepared() || p.Position != (mgl64.Vec3{1, 0, 0}) {
		t.Error("point touched before integrator check")
	}
}

func TestSimulate_Reentrant(t *testing.T) {
	s, ti := newTestSimulator()
	mustRegister(t, s, NewMassPoint(mgl64.Vec3{}, 1))
	obs := &reentrantObserver{}
	s.AddObserver(obs)

	if err := s.Simulate(0.1); err != nil {
		t.Fatalf("outer simulate: %v", err)
	}
	if !errors.Is(obs.err, ErrReentrantStep) {
		t.Errorf("nested simulate err = %v, want ErrReentrantStep", obs.err)
	}
	if ti.calls != 1 {
		t.Errorf("integrator calls = %d, want 1", ti.calls)
	}
	if s.Stepping() {
		t.Error("simulator still stepping after return")
	}
}

func TestSimulate_InvalidStateNotApplied(t *testing.T) {
	s, _ := newTestSimulator()
	a := NewMassPoint(mgl64.Vec3{}, 1)
	b := NewMassPoint(mgl64.Vec3{2, 0, 0}, 1)
	mustRegister(t, s, a, b)
	mustSpring(t, s, NewSpringWithLength(a, b, 1, math.Inf(1)))

	err := s.Simulate(0.1)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
	if a.Position != (mgl64.Vec3{}) || b.Position != (mgl64.Vec3{2, 0, 0}) {
		t.Errorf("partial state applied: a=%v b=%v", a.Position, b.Position)
	}
	if a.Prepared() || b.Prepared() {
		t.Error("points left prepared after rejected step")
	}

	s.ValidateState = false
	if err := s.Simulate(0.1); err != nil {
		t.Fatalf("unvalidated step: %v", err)
	}
	if (Kinematics{Velocity: a.Velocity}).IsValid() {
		t.Errorf("expected non-finite velocity without validation, got %v", a.Velocity)
	}
}

func TestSimulate_CommitOnlyAfterApply(t *testing.T) {
	s, ti := newTestSimulator()
	a := NewMassPoint(mgl64.Vec3{}, 1)
	b := NewMassPoint(mgl64.Vec3{2, 0, 0}, 1)
	mustRegister(t, s, a, b)
	rigid := NewSpringWithLength(a, b, 1, math.Inf(1))
	mustSpring(t, s, rigid)

	if err := s.Simulate(0.1); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
	if ti.commits != 0 {
		t.Errorf("commits after rejected step = %d, want 0", ti.commits)
	}

	s.RemoveSpring(rigid)
	if err := s.Simulate(0.1); err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if ti.commits != 1 {
		t.Errorf("commits after applied step = %d, want 1", ti.commits)
	}
}

func TestSimulate_DuplicateRegistration(t *testing.T) {
	s, _ := newTestSimulator()
	p := NewMassPoint(mgl64.Vec3{}, 1)
	p.Velocity = mgl64.Vec3{1, 0, 0}
	mustRegister(t, s, p, p)

	if err := s.Simulate(1); err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !p.Position.ApproxEqual(mgl64.Vec3{2, 0, 0}) {
		t.Errorf("duplicate point should advance twice, position = %v", p.Position)
	}
}

func TestSimulate_AnchorDoesNotMove(t *testing.T) {
	s, _ := newTestSimulator()
	anchor := NewMassPoint(mgl64.Vec3{}, 1)
	bob := NewMassPoint(mgl64.Vec3{0, -2, 0}, 1)
	mustRegister(t, s, bob)
	mustSpring(t, s, NewSpringWithLength(anchor, bob, 1, 4))

	for i := 0; i < 10; i++ {
		if err := s.Simulate(0.01); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if anchor.Position != (mgl64.Vec3{}) {
		t.Errorf("anchor moved to %v", anchor.Position)
	}
	if bob.Position.Y() <= -2 {
		t.Errorf("bob should be pulled up, y = %v", bob.Position.Y())
	}
}

func TestSimulate_ResetsInactiveIntegrators(t *testing.T) {
	s, euler := newTestSimulator()
	leap := &testIntegrator{}
	s.SetIntegrator(LeapFrog, leap)
	mustRegister(t, s, NewMassPoint(mgl64.Vec3{}, 1))

	for i := 0; i < 3; i++ {
		s.Simulate(0.1)
	}
	if leap.resets != 3 {
		t.Errorf("inactive integrator resets = %d, want 3", leap.resets)
	}
	if euler.resets != 0 {
		t.Errorf("active integrator reset %d times", euler.resets)
	}

	if err := s.SetIntegrationVariant(LeapFrog); err != nil {
		t.Fatal(err)
	}
	if euler.resets != 1 {
		t.Errorf("switching away should reset euler once, got %d", euler.resets)
	}
	s.Simulate(0.1)
	if leap.resets != 3 || leap.calls != 1 {
		t.Errorf("active leapfrog: resets=%d calls=%d, want 3 and 1", leap.resets, leap.calls)
	}
}

func TestSetIntegrationVariant_Unknown(t *testing.T) {
	s := New()
	if err := s.SetIntegrationVariant(Variant(42)); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("err = %v, want ErrUnknownVariant", err)
	}
	if s.IntegrationVariant() != Euler {
		t.Error("failed switch changed the active variant")
	}
	if err := s.SetIntegrator(Variant(-1), &testIntegrator{}); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("SetIntegrator err = %v, want ErrUnknownVariant", err)
	}
}

func TestRegister_Errors(t *testing.T) {
	s := New()
	other := New()
	p := NewMassPoint(mgl64.Vec3{}, 1)
	mustRegister(t, other, p)

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil point", s.RegisterMassPoint(nil), ErrNilPoint},
		{"foreign point", s.RegisterMassPoint(p), ErrForeignPoint},
		{"nil spring", s.RegisterSpring(nil), ErrNilPoint},
		{"nil endpoint", s.RegisterSpring(&Spring{Point1: NewMassPoint(mgl64.Vec3{}, 1)}), ErrNilPoint},
		{"foreign endpoint", s.RegisterSpring(NewSpring(NewMassPoint(mgl64.Vec3{}, 1), p, 1)), ErrForeignPoint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.want) {
				t.Errorf("err = %v, want %v", tt.err, tt.want)
			}
		})
	}

	if len(s.Points()) != 0 || len(s.Springs()) != 0 {
		t.Error("failed registrations left entries behind")
	}
}

func TestRegisterSpring_ForeignEndpointClaimsNothing(t *testing.T) {
	other := New()
	foreign := NewMassPoint(mgl64.Vec3{}, 1)
	mustRegister(t, other, foreign)

	tests := []struct {
		name   string
		spring func(fresh *MassPoint) *Spring
	}{
		{"first endpoint foreign", func(fresh *MassPoint) *Spring { return NewSpring(foreign, fresh, 1) }},
		{"second endpoint foreign", func(fresh *MassPoint) *Spring { return NewSpring(fresh, foreign, 1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			fresh := NewMassPoint(mgl64.Vec3{1, 0, 0}, 1)
			if err := s.RegisterSpring(tt.spring(fresh)); !errors.Is(err, ErrForeignPoint) {
				t.Fatalf("err = %v, want ErrForeignPoint", err)
			}
			if fresh.Index() != -1 {
				t.Errorf("fresh endpoint claimed slot %d", fresh.Index())
			}
			if err := s.RegisterMassPoint(fresh); err != nil {
				t.Errorf("fresh endpoint not reusable: %v", err)
			}
		})
	}
}

func TestRemoveMassPoint(t *testing.T) {
	s, _ := newTestSimulator()
	a := NewMassPoint(mgl64.Vec3{}, 1)
	b := NewMassPoint(mgl64.Vec3{1, 0, 0}, 1)
	c := NewMassPoint(mgl64.Vec3{2, 0, 0}, 1)
	mustRegister(t, s, a, b, b, c)
	ab := mustSpring(t, s, NewSpring(a, b, 1))
	bc := mustSpring(t, s, NewSpring(b, c, 1))
	ac := mustSpring(t, s, NewSpring(a, c, 1))

	s.RemoveMassPoint(b)

	for _, p := range s.Points() {
		if p == b {
			t.Fatal("removed point still registered")
		}
	}
	springs := s.Springs()
	if len(springs) != 1 || springs[0] != ac {
		t.Errorf("springs after removal = %v, want only a-c", springs)
	}
	for _, sp := range springs {
		if sp == ab || sp == bc {
			t.Error("spring referencing removed point survived")
		}
	}
	if b.Index() != -1 {
		t.Errorf("removed point keeps slot %d", b.Index())
	}

	other := New()
	if err := other.RegisterMassPoint(b); err != nil {
		t.Errorf("removed point should be free to join another simulator: %v", err)
	}

	if err := s.Simulate(0.1); err != nil {
		t.Fatalf("simulate after removal: %v", err)
	}
}

func TestRemoveSpring_ReleasesAnchor(t *testing.T) {
	s := New()
	anchor := NewMassPoint(mgl64.Vec3{}, 1)
	bob := NewMassPoint(mgl64.Vec3{0, -1, 0}, 1)
	mustRegister(t, s, bob)
	sp := mustSpring(t, s, NewSpring(anchor, bob, 1))

	s.RemoveSpring(sp)

	if anchor.Index() != -1 {
		t.Error("anchor without springs should release its slot")
	}
	if bob.Index() == -1 {
		t.Error("registered point lost its slot with the spring")
	}

	fresh := NewMassPoint(mgl64.Vec3{}, 1)
	mustRegister(t, s, fresh)
	if fresh.Index() != 1 {
		t.Errorf("freed slot not reused: index %d", fresh.Index())
	}
}

func TestSimulatorMetrics(t *testing.T) {
	s, _ := newTestSimulator()
	mustRegister(t, s, NewMassPoint(mgl64.Vec3{}, 1))
	m := &countMetric{}
	s.AddMetric(m)

	for i := 0; i < 5; i++ {
		s.Simulate(0.1)
	}

	if got := s.Metrics()["count"]; got != 5 {
		t.Errorf("count metric = %v, want 5", got)
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Step: 3, Time: 1.5, Point: 2, Wrapped: ErrInvalidMass}
	expected := "step 3 (t=1.5000) point 2: dynamo: mass must be positive and finite"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}

	err = &SimulationError{Step: 0, Time: 0, Point: -1, Wrapped: ErrUnconfiguredIntegrator}
	if err.Error() != "step 0 (t=0.0000): dynamo: no integrator configured for variant" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in   string
		want Variant
		ok   bool
	}{
		{"euler", Euler, true},
		{"LeapFrog", LeapFrog, true},
		{" verlet ", Verlet, true},
		{"rk4", RK4, true},
		{"rk45", 0, false},
	}

	for _, tt := range tests {
		got, err := ParseVariant(tt.in)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseVariant(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
		if !tt.ok && !errors.Is(err, ErrUnknownVariant) {
			t.Errorf("ParseVariant(%q) err = %v, want ErrUnknownVariant", tt.in, err)
		}
	}

	if len(Variants()) != 4 {
		t.Errorf("Variants() = %v", Variants())
	}
	if Variant(9).String() != "variant(9)" {
		t.Errorf("String() of invalid variant = %q", Variant(9).String())
	}
}
