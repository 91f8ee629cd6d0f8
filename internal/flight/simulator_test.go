package flight_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/golfsim/internal/aero"
	"github.com/san-kum/golfsim/internal/flight"
	"github.com/san-kum/golfsim/internal/vector"
)

var driver = flight.Launch{Speed: 45, Angle: 30, Spin: 418, SpinDecay: 0.04}

func mustModel(p aero.Params) *aero.Model {
	m, err := aero.New(p)
	Expect(err).NotTo(HaveOccurred())
	return m
}

// vacuumParams switches off drag and lift, leaving only gravity.
func vacuumParams() aero.Params {
	p := aero.DefaultParams()
	p.DragTable = aero.DragTable{{Reynolds: 0, Cd: 0}}
	p.LiftCoeffs = [4]float64{}
	return p
}

type countingObserver struct {
	steps []int
}

func (o *countingObserver) OnStep(s flight.State, _ aero.Forces) {
	o.steps = append(o.steps, s.Step)
}

type liftObserver struct {
	forces []aero.Forces
}

func (o *liftObserver) OnStep(_ flight.State, f aero.Forces) {
	o.forces = append(o.forces, f)
}

type apexMetric struct {
	apex float64
}

func (m *apexMetric) Name() string { return "test_apex" }
func (m *apexMetric) Observe(s flight.State, _ aero.Forces) {
	m.apex = math.Max(m.apex, s.Position.Y)
}
func (m *apexMetric) Value() float64 { return m.apex }
func (m *apexMetric) Reset()         { m.apex = 0 }

var _ = Describe("Simulator", func() {
	var (
		ctx context.Context
		sim *flight.Simulator
	)

	BeforeEach(func() {
		ctx = context.Background()
		sim = flight.New(mustModel(aero.DefaultParams()))
	})

	Describe("a standard drive", func() {
		var res *flight.Result

		BeforeEach(func() {
			var err error
			res, err = sim.Run(ctx, driver, flight.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
		})

		It("lands within the step budget", func() {
			Expect(res.Landed).To(BeTrue())
			Expect(res.Phase).To(Equal(flight.Terminated))
			Expect(res.Steps()).To(BeNumerically(">", 0))
			Expect(res.Steps()).To(BeNumerically("<", 10000))
		})

		It("carries a finite positive distance", func() {
			carry := res.Carry()
			Expect(math.IsInf(carry, 0) || math.IsNaN(carry)).To(BeFalse())
			Expect(carry).To(BeNumerically(">", 0))
		})

		It("starts at the origin and ends below launch height", func() {
			Expect(res.Trajectory[0].Position).To(Equal(vector.Point{}))
			Expect(res.Trajectory.Last().Position.Y).To(BeNumerically("<", 0))
			Expect(res.Trajectory.Last()).To(Equal(flight.Sample{
				Step:     res.Final.Step,
				Position: res.Final.Position,
				Velocity: res.Final.Velocity,
				Spin:     res.Final.Spin,
			}))
		})

		It("keeps every sample but the last at or above launch height", func() {
			for _, s := range res.Trajectory[:len(res.Trajectory)-1] {
				Expect(s.Position.Y).To(BeNumerically(">=", 0))
			}
		})

		It("records one sample per step in order", func() {
			Expect(res.Trajectory).To(HaveLen(res.Steps() + 1))
			for i, s := range res.Trajectory {
				Expect(s.Step).To(Equal(i))
			}
		})

		It("decays spin geometrically", func() {
			want := driver.Spin
			for _, s := range res.Trajectory {
				Expect(s.Spin).To(Equal(want))
				Expect(s.Spin).To(BeNumerically("~", driver.Spin*math.Pow(1-driver.SpinDecay, float64(s.Step)), 1e-9))
				want *= 1 - driver.SpinDecay
			}
		})

		It("moves forward on every step", func() {
			for i := 1; i < len(res.Trajectory); i++ {
				Expect(res.Trajectory[i].Position.X).To(BeNumerically(">", res.Trajectory[i-1].Position.X))
			}
		})
	})

	Describe("without drag or lift", func() {
		BeforeEach(func() {
			sim = flight.New(mustModel(vacuumParams()))
		})

		It("follows the discrete projectile parabola", func() {
			launch := flight.Launch{Speed: 45, Angle: 30, Spin: 0, SpinDecay: 0.04}
			res, err := sim.Run(ctx, launch, flight.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())

			vx := 45 * math.Cos(math.Pi/6)
			vy := 45 * math.Sin(math.Pi/6)
			g := aero.DefaultGravity
			for _, s := range res.Trajectory {
				n := float64(s.Step)
				Expect(s.Position.X).To(BeNumerically("~", n*vx, 1e-8))
				Expect(s.Position.Y).To(BeNumerically("~", n*vy-g*n*(n-1)/2, 1e-8))
			}
			Expect(res.Steps()).To(Equal(6))
		})

		It("uses a supplied initial net force for the first step", func() {
			launch := flight.Launch{Speed: 45, Angle: 30, InitialNet: &vector.Polar{}}
			res, err := sim.Run(ctx, launch, flight.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())

			p1 := res.Trajectory[1].Position
			p2 := res.Trajectory[2].Position
			Expect(p2.X).To(BeNumerically("~", 2*p1.X, 1e-9))
			Expect(p2.Y).To(BeNumerically("~", 2*p1.Y, 1e-9))
		})

		It("drops a ball released at rest", func() {
			res, err := sim.Run(ctx, flight.Launch{}, flight.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Steps()).To(Equal(2))
			Expect(res.Carry()).To(BeNumerically("~", 0, 1e-12))
		})
	})

	Describe("guards", func() {
		It("stops with ErrDidNotLand when the budget runs out", func() {
			res, err := sim.Run(ctx, driver, flight.Config{MaxSteps: 2})
			Expect(errors.Is(err, flight.ErrDidNotLand)).To(BeTrue())

			var serr *flight.SimulationError
			Expect(errors.As(err, &serr)).To(BeTrue())
			Expect(serr.Step).To(Equal(2))

			Expect(res).NotTo(BeNil())
			Expect(res.Landed).To(BeFalse())
			Expect(res.Phase).To(Equal(flight.Running))
			Expect(res.Trajectory).To(HaveLen(3))
		})

		It("stops with ErrInvalidState when the state diverges", func() {
			res, err := sim.Run(ctx, flight.Launch{Speed: 1e200, Angle: 30}, flight.DefaultConfig())
			Expect(errors.Is(err, flight.ErrInvalidState)).To(BeTrue())
			Expect(res.Final.IsValid()).To(BeFalse())
			Expect(res.Steps()).To(Equal(1))
		})

		It("honours a cancelled context", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			res, err := sim.Run(cctx, driver, flight.DefaultConfig())
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(res.Trajectory).To(HaveLen(1))
		})

		DescribeTable("rejects invalid input before flying",
			func(launch flight.Launch, cfg flight.Config, field string) {
				res, err := sim.Run(ctx, launch, cfg)
				Expect(res).To(BeNil())
				Expect(errors.Is(err, aero.ErrInvalidConfig)).To(BeTrue())

				var cerr *aero.ConfigError
				Expect(errors.As(err, &cerr)).To(BeTrue())
				Expect(cerr.Field).To(Equal(field))
			},
			Entry("zero step budget", driver, flight.Config{}, "max_steps"),
			Entry("negative speed", flight.Launch{Speed: -1}, flight.DefaultConfig(), "initial_speed"),
			Entry("nan angle", flight.Launch{Speed: 45, Angle: math.NaN()}, flight.DefaultConfig(), "launch_angle"),
			Entry("infinite spin", flight.Launch{Speed: 45, Spin: math.Inf(1)}, flight.DefaultConfig(), "initial_spin"),
			Entry("decay above one", flight.Launch{Speed: 45, SpinDecay: 1.5}, flight.DefaultConfig(), "spin_decay"),
			Entry("negative decay", flight.Launch{Speed: 45, SpinDecay: -0.1}, flight.DefaultConfig(), "spin_decay"),
			Entry("bad initial net", flight.Launch{Speed: 45, InitialNet: &vector.Polar{Magnitude: -1}}, flight.DefaultConfig(), "initial_net_force"),
		)
	})

	Describe("observers and metrics", func() {
		It("sees the launch and every step", func() {
			obs := &countingObserver{}
			apex := &apexMetric{}
			sim.AddObserver(obs)
			sim.AddMetric(apex)

			res, err := sim.Run(ctx, driver, flight.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())

			Expect(obs.steps).To(HaveLen(res.Steps() + 1))
			Expect(obs.steps[0]).To(Equal(0))
			Expect(res.Metrics).To(HaveKeyWithValue("test_apex", apex.Value()))
			Expect(apex.Value()).To(BeNumerically(">", 0))
		})

		It("resets metrics between runs", func() {
			apex := &apexMetric{}
			sim.AddMetric(apex)

			first, err := sim.Run(ctx, driver, flight.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())

			low := driver
			low.Angle = 10
			second, err := sim.Run(ctx, low, flight.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())

			Expect(second.Metrics["test_apex"]).To(BeNumerically("<", first.Metrics["test_apex"]))
		})

		It("reports topspin lift pointing down with a non-negative magnitude", func() {
			obs := &liftObserver{}
			sim.AddObserver(obs)

			topspin := flight.Launch{Speed: 45, Angle: 20, Spin: -400, SpinDecay: 0.04}
			res, err := sim.Run(ctx, topspin, flight.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Landed).To(BeTrue())

			Expect(obs.forces).NotTo(BeEmpty())
			for _, f := range obs.forces {
				Expect(f.Lift.Magnitude).To(BeNumerically(">=", 0))
				Expect(f.Lift.Angle).To(Equal(aero.LiftAngle + 180))
			}
		})

		It("does not change the computed trajectory", func() {
			plain, err := flight.New(sim.Model()).Run(ctx, driver, flight.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())

			sim.AddObserver(&countingObserver{})
			observed, err := sim.Run(ctx, driver, flight.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())

			Expect(observed.Trajectory).To(Equal(plain.Trajectory))
		})
	})
})

var _ = Describe("Trajectory", func() {
	It("exposes points and series", func() {
		tr := flight.Trajectory{
			{Step: 0, Position: vector.Point{X: 0, Y: 0}, Spin: 10},
			{Step: 1, Position: vector.Point{X: 3, Y: 4}, Spin: 9},
		}
		Expect(tr.Points()).To(Equal([]vector.Point{{X: 0, Y: 0}, {X: 3, Y: 4}}))
		Expect(tr.Series(func(s flight.Sample) float64 { return s.Spin })).To(Equal([]float64{10, 9}))
		Expect(tr.Last().Step).To(Equal(1))
		Expect(flight.Trajectory{}.Last()).To(Equal(flight.Sample{}))
	})

	It("names phases", func() {
		Expect(flight.Running.String()).To(Equal("running"))
		Expect(flight.Terminated.String()).To(Equal("terminated"))
	})
})
