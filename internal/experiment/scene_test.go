package experiment_test

import (
	"context"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/experiment"
)

var _ = Describe("Scene", func() {
	Context("with a single free point", func() {
		var scene *experiment.Scene

		BeforeEach(func() {
			cfg := config.DefaultConfig()
			cfg.Dt = 1.0
			cfg.Steps = 1
			cfg.Points = []config.PointConfig{{Mass: 1}}

			var err error
			scene, err = experiment.NewScene(cfg)
			Expect(err).NotTo(HaveOccurred())
		})

		It("falls under the configured gravity", func() {
			Expect(scene.Step()).To(Succeed())

			p := scene.Points()[0]
			Expect(p.Velocity).To(Equal(mgl64.Vec3{0, -9.81, 0}))
			Expect(p.Position).To(Equal(mgl64.Vec3{0, -9.81, 0}))
		})

		It("uses gravity changed between steps", func() {
			scene.SetGravity(mgl64.Vec3{1, 0, 0})
			Expect(scene.Step()).To(Succeed())
			Expect(scene.Points()[0].Velocity).To(Equal(mgl64.Vec3{1, 0, 0}))
		})

		It("flattens positions into a frame", func() {
			Expect(scene.Frame()).To(Equal([]float64{0, 0, 0}))
		})
	})

	Context("with the pair preset", func() {
		var scene *experiment.Scene

		BeforeEach(func() {
			cfg := config.GetPreset("pair")
			cfg.Dt = 0.1

			var err error
			scene, err = experiment.NewScene(cfg)
			Expect(err).NotTo(HaveOccurred())
		})

		It("pulls the points toward each other symmetrically", func() {
			Expect(scene.Step()).To(Succeed())

			a, b := scene.Points()[0], scene.Points()[1]
			Expect(a.Velocity.X()).To(BeNumerically("~", 1, 1e-12))
			Expect(b.Velocity.X()).To(BeNumerically("~", -1, 1e-12))
			Expect(a.Velocity.Add(b.Velocity).Len()).To(BeNumerically("<", 1e-12))
		})

		It("leaves every point untouched when one mass is invalid", func() {
			scene.Points()[1].Mass = 0

			err := scene.Step()
			Expect(err).To(MatchError(dynamo.ErrInvalidMass))

			var simErr *dynamo.SimulationError
			Expect(err).To(BeAssignableToTypeOf(simErr))
			Expect(scene.Points()[0].Position).To(Equal(mgl64.Vec3{0, 0, 0}))
			Expect(scene.Points()[1].Position).To(Equal(mgl64.Vec3{2, 0, 0}))
			Expect(scene.Simulator().Steps()).To(BeZero())
		})

		It("switches variants", func() {
			Expect(scene.SetVariant(dynamo.RK4)).To(Succeed())
			Expect(scene.Variant()).To(Equal(dynamo.RK4))
		})
	})

	It("keeps fixed points in place", func() {
		cfg := config.GetPreset("pendulum")
		scene, err := experiment.NewScene(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(scene.Fixed(0)).To(BeTrue())
		Expect(scene.Simulator().Points()).To(HaveLen(1))

		for i := 0; i < 100; i++ {
			Expect(scene.Step()).To(Succeed())
		}
		Expect(scene.Points()[0].Position).To(Equal(mgl64.Vec3{}))
		Expect(scene.Points()[1].Position.Y()).To(BeNumerically("<", 0))
	})

	It("rejects an invalid config", func() {
		cfg := config.GetPreset("pair")
		cfg.Dt = -1
		_, err := experiment.NewScene(cfg)
		Expect(err).To(MatchError(config.ErrInvalid))
	})
})

var _ = Describe("Experiment", func() {
	var (
		exp *experiment.Experiment
		cfg *config.Config
	)

	BeforeEach(func() {
		cfg = config.GetPreset("pair")
		cfg.Steps = 50
		exp = experiment.New(cfg)
	})

	It("refuses to run before setup", func() {
		_, err := exp.Run(context.Background())
		Expect(err).To(HaveOccurred())
	})

	It("records the initial frame plus one frame per step", func() {
		Expect(exp.Setup(experiment.NewRegistry().DefaultMetrics())).To(Succeed())

		res, err := exp.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Steps).To(Equal(50))
		Expect(res.Times).To(HaveLen(51))
		Expect(res.States).To(HaveLen(51))
		Expect(res.States[0]).To(Equal([]float64{0, 0, 0, 2, 0, 0}))
		Expect(res.Times[50]).To(BeNumerically("~", 0.5, 1e-9))
		Expect(res.Variant).To(Equal(dynamo.Euler))
		Expect(res.Metrics).To(HaveKey("energy"))
		Expect(res.Metrics).To(HaveKey("momentum"))
		Expect(res.Metrics["momentum"]).To(BeNumerically("<", 1e-9))
	})

	It("stops at a cancelled context", func() {
		Expect(exp.Setup(nil)).To(Succeed())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res, err := exp.Run(ctx)
		Expect(err).To(MatchError(context.Canceled))
		Expect(res.Steps).To(BeZero())
		Expect(res.States).To(HaveLen(1))
	})

	It("returns the partial trajectory when a step fails", func() {
		Expect(exp.Setup(nil)).To(Succeed())
		exp.Scene().Points()[0].Mass = -1

		res, err := exp.Run(context.Background())
		Expect(err).To(MatchError(dynamo.ErrInvalidMass))
		Expect(res.Steps).To(BeZero())
	})
})
