package integrators_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/integrators"
)

var _ = Describe("Euler", func() {
	var sim *dynamo.Simulator

	BeforeEach(func() {
		sim = dynamo.New()
		Expect(integrators.Install(sim)).To(Succeed())
		Expect(sim.IntegrationVariant()).To(Equal(dynamo.Euler))
	})

	It("drops a free point under gravity", func() {
		p := dynamo.NewMassPoint(mgl64.Vec3{0, 0, 0}, 1)
		p.ExternalAcceleration = mgl64.Vec3{0, -9.81, 0}
		Expect(sim.RegisterMassPoint(p)).To(Succeed())

		Expect(sim.Simulate(1.0)).To(Succeed())

		Expect(p.Velocity).To(Equal(mgl64.Vec3{0, -9.81, 0}))
		Expect(p.Position).To(Equal(mgl64.Vec3{0, -9.81, 0}))
		Expect(p.Acceleration).To(Equal(mgl64.Vec3{0, -9.81, 0}))
	})

	It("pulls a stretched pair together symmetrically", func() {
		a := dynamo.NewMassPoint(mgl64.Vec3{0, 0, 0}, 1)
		b := dynamo.NewMassPoint(mgl64.Vec3{2, 0, 0}, 1)
		Expect(sim.RegisterMassPoint(a)).To(Succeed())
		Expect(sim.RegisterMassPoint(b)).To(Succeed())
		spring := dynamo.NewSpringWithLength(a, b, 1.0, 10)
		Expect(sim.RegisterSpring(spring)).To(Succeed())

		f := spring.CalculateElasticForces()
		Expect(f.Len()).To(BeNumerically("~", 10, 1e-12))
		Expect(f).To(Equal(mgl64.Vec3{10, 0, 0}))

		Expect(sim.Simulate(0.1)).To(Succeed())

		Expect(a.Velocity.Len()).To(BeNumerically("~", b.Velocity.Len(), 1e-12))
		Expect(a.Velocity.Add(b.Velocity).Len()).To(BeNumerically("<", 1e-12))
		Expect(a.Velocity.X()).To(BeNumerically(">", 0))
		Expect(b.Velocity.X()).To(BeNumerically("<", 0))
	})

	It("rejects a zero mass without touching any point", func() {
		good := dynamo.NewMassPoint(mgl64.Vec3{1, 2, 3}, 1)
		good.Velocity = mgl64.Vec3{1, 1, 1}
		bad := dynamo.NewMassPoint(mgl64.Vec3{4, 5, 6}, 0)
		Expect(sim.RegisterMassPoint(good)).To(Succeed())
		Expect(sim.RegisterMassPoint(bad)).To(Succeed())

		Expect(sim.Simulate(0.1)).To(MatchError(dynamo.ErrInvalidMass))

		Expect(good.Position).To(Equal(mgl64.Vec3{1, 2, 3}))
		Expect(good.Velocity).To(Equal(mgl64.Vec3{1, 1, 1}))
		Expect(bad.Position).To(Equal(mgl64.Vec3{4, 5, 6}))
	})
})

var _ = DescribeTable("every variant keeps a damped chain finite",
	func(v dynamo.Variant) {
		sim := dynamo.New()
		Expect(integrators.Install(sim)).To(Succeed())
		Expect(sim.SetIntegrationVariant(v)).To(Succeed())

		prev := dynamo.NewMassPoint(mgl64.Vec3{}, 1)
		var last *dynamo.MassPoint
		for i := 1; i <= 5; i++ {
			p := dynamo.NewMassPoint(mgl64.Vec3{float64(i), 0, 0}, 1)
			p.Damping = 0.5
			p.ExternalAcceleration = mgl64.Vec3{0, -9.81, 0}
			Expect(sim.RegisterMassPoint(p)).To(Succeed())
			Expect(sim.RegisterSpring(dynamo.NewSpring(prev, p, 50))).To(Succeed())
			prev, last = p, p
		}

		for i := 0; i < 4000; i++ {
			Expect(sim.Simulate(0.005)).To(Succeed())
		}

		Expect(math.IsNaN(last.Position.Y())).To(BeFalse())
		Expect(last.Position.Y()).To(BeNumerically("<", 0), "chain sags under gravity")
		Expect(last.Velocity.Len()).To(BeNumerically("<", 1), "damping settles the chain")
	},
	Entry("euler", dynamo.Euler),
	Entry("leapfrog", dynamo.LeapFrog),
	Entry("verlet", dynamo.Verlet),
	Entry("rk4", dynamo.RK4),
)
