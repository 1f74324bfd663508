package integrators_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/integrators"
)

var _ = Describe("Leapfrog", func() {
	// Constant acceleration of -2 with dt 0.5 keeps every velocity exact in binary.
	const dt = 0.5

	var (
		sim   *dynamo.Simulator
		point *dynamo.MassPoint
	)

	step := func() {
		Expect(sim.Simulate(dt)).To(Succeed())
	}

	BeforeEach(func() {
		sim = dynamo.New()
		Expect(integrators.Install(sim)).To(Succeed())
		point = dynamo.NewMassPoint(mgl64.Vec3{}, 1)
		point.ExternalAcceleration = mgl64.Vec3{0, -2, 0}
		Expect(sim.RegisterMassPoint(point)).To(Succeed())
	})

	It("starts in bootstrap mode and leaves it once a step is committed", func() {
		lf := integrators.NewLeapfrog()
		Expect(lf.FirstStep()).To(BeTrue())
		lf.Integrate(sim, nil, dt)
		Expect(lf.FirstStep()).To(BeTrue())
		lf.Commit()
		Expect(lf.FirstStep()).To(BeFalse())
		lf.Reset()
		Expect(lf.FirstStep()).To(BeTrue())
	})

	It("applies the half-step kick exactly once after switching from Euler", func() {
		for i := 0; i < 3; i++ {
			step()
		}
		Expect(point.Velocity.Y()).To(Equal(-3.0))

		Expect(sim.SetIntegrationVariant(dynamo.LeapFrog)).To(Succeed())
		step()
		Expect(point.Velocity.Y()).To(Equal(-3.5), "bootstrap step kicks by dt/2")

		step()
		Expect(point.Velocity.Y()).To(Equal(-4.5), "steady state kicks by dt")
		step()
		Expect(point.Velocity.Y()).To(Equal(-5.5))
	})

	It("bootstraps again after switching away and back", func() {
		Expect(sim.SetIntegrationVariant(dynamo.LeapFrog)).To(Succeed())
		step()
		step()
		Expect(point.Velocity.Y()).To(Equal(-1.5))

		Expect(sim.SetIntegrationVariant(dynamo.Euler)).To(Succeed())
		step()
		Expect(point.Velocity.Y()).To(Equal(-2.5))

		Expect(sim.SetIntegrationVariant(dynamo.LeapFrog)).To(Succeed())
		step()
		Expect(point.Velocity.Y()).To(Equal(-3.0))
	})

	It("bootstraps when switched back without an intermediate step", func() {
		Expect(sim.SetIntegrationVariant(dynamo.LeapFrog)).To(Succeed())
		step()
		Expect(sim.SetIntegrationVariant(dynamo.Euler)).To(Succeed())
		Expect(sim.SetIntegrationVariant(dynamo.LeapFrog)).To(Succeed())

		lf, ok := sim.Integrator(dynamo.LeapFrog).(*integrators.Leapfrog)
		Expect(ok).To(BeTrue())
		Expect(lf.FirstStep()).To(BeTrue())
	})

	It("keeps the bootstrap pending when a step is rejected", func() {
		Expect(sim.SetIntegrationVariant(dynamo.LeapFrog)).To(Succeed())
		other := dynamo.NewMassPoint(mgl64.Vec3{2, 0, 0}, 1)
		Expect(sim.RegisterMassPoint(other)).To(Succeed())
		rigid := dynamo.NewSpringWithLength(point, other, 1, math.Inf(1))
		Expect(sim.RegisterSpring(rigid)).To(Succeed())

		Expect(sim.Simulate(dt)).To(MatchError(dynamo.ErrInvalidState))
		Expect(point.Velocity).To(Equal(mgl64.Vec3{}))

		lf, ok := sim.Integrator(dynamo.LeapFrog).(*integrators.Leapfrog)
		Expect(ok).To(BeTrue())
		Expect(lf.FirstStep()).To(BeTrue())

		sim.RemoveSpring(rigid)
		step()
		Expect(point.Velocity.Y()).To(Equal(-0.5), "retried step still kicks by dt/2")
		Expect(lf.FirstStep()).To(BeFalse())
	})

	It("drifts with the kicked velocity", func() {
		Expect(sim.SetIntegrationVariant(dynamo.LeapFrog)).To(Succeed())
		step()
		Expect(point.Position.Y()).To(Equal(-0.25))
		step()
		Expect(point.Position.Y()).To(Equal(-1.0))
	})
})
