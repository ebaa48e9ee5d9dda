package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/galaxysim/internal/dynamo"
	"github.com/san-kum/galaxysim/internal/galaxy"
	"github.com/san-kum/galaxysim/internal/sim"
)

type recordingObserver struct {
	steps  []int
	masses [][]float64
}

func (r *recordingObserver) OnStep(step int, ps []dynamo.Particle) {
	r.steps = append(r.steps, step)
	m := make([]float64, len(ps))
	for i := range ps {
		m[i] = ps[i].Mass
	}
	r.masses = append(r.masses, m)
}

type countingIntegrator struct {
	forces []r2.Vec
}

func (c *countingIntegrator) Advance(p *dynamo.Particle, force r2.Vec, dt float64) {
	c.forces = append(c.forces, force)
}

func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

var _ = Describe("Engine", func() {
	var (
		cfg    dynamo.Config
		radius float64
	)

	BeforeEach(func() {
		radius = 30000 * galaxy.LightYear
		cfg = dynamo.Config{
			TimeScale: 1e5 * galaxy.SecondsPerYear,
			G:         galaxy.G,
			EndStep:   5,
			SimRadius: radius,
		}
	})

	Describe("construction", func() {
		It("rejects an invalid configuration", func() {
			cfg.EndStep = 0
			_, err := sim.New(galaxy.Generate(3, radius, 1), cfg)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})

		It("rejects an empty population", func() {
			_, err := sim.New(nil, cfg)
			Expect(err).To(MatchError(dynamo.ErrEmptyPopulation))
		})

		It("starts initialized", func() {
			eng, err := sim.New(galaxy.Generate(3, radius, 1), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(eng.Phase()).To(Equal(sim.Initialized))
			Expect(eng.StepCount()).To(BeZero())
		})
	})

	Describe("running a generated population", func() {
		var (
			eng     *sim.Engine
			initial []dynamo.Particle
			obs     *recordingObserver
		)

		BeforeEach(func() {
			initial = galaxy.Generate(50, radius, 1)
			var err error
			eng, err = sim.New(dynamo.Clone(initial), cfg)
			Expect(err).NotTo(HaveOccurred())
			obs = &recordingObserver{}
			eng.AddObserver(obs)
		})

		It("emits one snapshot per step in order and keeps the population size", func() {
			var snaps []dynamo.Snapshot
			err := eng.Run(context.Background(), dynamo.SinkFunc(func(s dynamo.Snapshot) error {
				snaps = append(snaps, s)
				return nil
			}))
			Expect(err).NotTo(HaveOccurred())

			Expect(snaps).To(HaveLen(cfg.EndStep))
			for i, s := range snaps {
				Expect(s.Step).To(Equal(i + 1))
				Expect(s.Positions).To(HaveLen(len(initial)))
			}
			Expect(eng.Len()).To(Equal(len(initial)))
			Expect(eng.Phase()).To(Equal(sim.Running))
			Expect(eng.Done()).To(BeTrue())
		})

		It("never mutates mass", func() {
			Expect(eng.Run(context.Background(), nil)).To(Succeed())

			Expect(obs.steps).To(Equal([]int{1, 2, 3, 4, 5}))
			for _, masses := range obs.masses {
				for i, m := range masses {
					Expect(m).To(Equal(initial[i].Mass))
				}
			}
		})

		It("refuses to step past the end", func() {
			Expect(eng.Run(context.Background(), nil)).To(Succeed())
			_, err := eng.Advance()
			Expect(err).To(MatchError(dynamo.ErrFinished))
		})

		It("is reproducible for a fixed seed", func() {
			other, err := sim.New(galaxy.Generate(50, radius, 1), cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(eng.Run(context.Background(), nil)).To(Succeed())
			Expect(other.Run(context.Background(), nil)).To(Succeed())
			Expect(other.Particles()).To(Equal(eng.Particles()))
		})

		It("stops when the context is canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			err := eng.Run(ctx, dynamo.SinkFunc(func(s dynamo.Snapshot) error {
				if s.Step == 2 {
					cancel()
				}
				return nil
			}))
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(eng.StepCount()).To(Equal(2))
		})

		It("wraps sink failures with the step number", func() {
			boom := errors.New("display closed")
			err := eng.Run(context.Background(), dynamo.SinkFunc(func(s dynamo.Snapshot) error {
				if s.Step == 3 {
					return boom
				}
				return nil
			}))

			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.Step).To(Equal(3))
			Expect(err).To(MatchError(dynamo.ErrSink))
			Expect(err).To(MatchError(boom))
		})
	})

	Describe("custom integrator", func() {
		It("receives the accumulated force of every particle", func() {
			ps := []dynamo.Particle{
				{Mass: 1, Pos: r2.Vec{X: 0}},
				{Mass: 1, Pos: r2.Vec{X: 1}},
			}
			eng, err := sim.New(ps, dynamo.Config{TimeScale: 1, G: 1, EndStep: 1, SimRadius: 10})
			Expect(err).NotTo(HaveOccurred())

			integ := &countingIntegrator{}
			eng.SetIntegrator(integ)
			eng.SetIntegrator(nil)
			Expect(eng.Run(context.Background(), nil)).To(Succeed())

			Expect(integ.forces).To(Equal([]r2.Vec{{X: 1}, {X: -1}}))
			Expect(eng.Particles()[0].Pos).To(Equal(r2.Vec{X: 0}))
		})
	})

	Describe("self-interaction", func() {
		It("leaves a lone particle moving in a straight line", func() {
			v := r2.Vec{X: 1200, Y: -300}
			p := dynamo.Particle{Mass: galaxy.SolarMass, Pos: r2.Vec{X: 5, Y: 7}, Vel: v}
			eng, err := sim.New([]dynamo.Particle{p}, cfg)
			Expect(err).NotTo(HaveOccurred())

			expected := p.Pos
			for !eng.Done() {
				_, err := eng.Advance()
				Expect(err).NotTo(HaveOccurred())
				expected.X += v.X * cfg.TimeScale
				expected.Y += v.Y * cfg.TimeScale

				got := eng.Particles()[0]
				Expect(got.Vel).To(Equal(v))
				Expect(got.Pos.X).To(BeNumerically("~", expected.X, math.Abs(expected.X)*1e-12))
				Expect(got.Pos.Y).To(BeNumerically("~", expected.Y, math.Abs(expected.Y)*1e-12))
			}
		})

		It("contributes nothing to the accumulated force", func() {
			ps := []dynamo.Particle{{Mass: 1, Pos: r2.Vec{X: 1, Y: 1}}}
			Expect(sim.AccumulateForce(ps, 0, 1, sim.SkipNaN)).To(Equal(r2.Vec{}))
			Expect(sim.AccumulateForce(ps, 0, 1, sim.ResetNaN)).To(Equal(r2.Vec{}))
		})
	})

	Describe("two-body symmetry", func() {
		It("gives equal and opposite velocities after one step", func() {
			d := 1e3 * galaxy.LightYear
			ps := []dynamo.Particle{
				{Mass: galaxy.SolarMass, Pos: r2.Vec{X: -d, Y: -d / 2}},
				{Mass: galaxy.SolarMass, Pos: r2.Vec{X: d, Y: d / 2}},
			}
			eng, err := sim.New(ps, cfg)
			Expect(err).NotTo(HaveOccurred())

			_, err = eng.Advance()
			Expect(err).NotTo(HaveOccurred())
			got := eng.Particles()

			Expect(got[0].Vel.X).To(BeNumerically(">", 0))
			Expect(got[0].Vel.Y).To(BeNumerically(">", 0))
			Expect(got[0].Vel).To(Equal(r2.Vec{X: -got[1].Vel.X, Y: -got[1].Vel.Y}))
		})

		It("loses the earlier partner under the reset guard", func() {
			ps := []dynamo.Particle{
				{Mass: 1, Pos: r2.Vec{X: -1}},
				{Mass: 1, Pos: r2.Vec{X: 1}},
			}
			Expect(sim.AccumulateForce(ps, 0, 1, sim.ResetNaN).X).To(BeNumerically("==", 0.5))
			Expect(sim.AccumulateForce(ps, 1, 1, sim.ResetNaN).X).To(BeZero())
			Expect(sim.AccumulateForce(ps, 1, 1, sim.SkipNaN).X).To(BeNumerically("==", -0.5))
		})
	})

	Describe("two-phase update", func() {
		It("computes every force from pre-step positions", func() {
			ps := []dynamo.Particle{
				{Mass: 1, Pos: r2.Vec{X: 0}, Vel: r2.Vec{X: 1e6}},
				{Mass: 1, Pos: r2.Vec{X: 2}},
			}
			// Under pre-step positions particle 1 feels -G/2 along x.
			sim.Step(ps, 1, 1)
			Expect(ps[1].Vel.X).To(BeNumerically("==", -0.5))
			Expect(ps[0].Vel.X).To(BeNumerically("==", 1e6+0.5))
		})
	})

	Describe("degeneracy containment", func() {
		It("keeps a coincident pair from poisoning a third particle", func() {
			ps := []dynamo.Particle{
				{Mass: galaxy.SolarMass, Pos: r2.Vec{X: 1e18, Y: 1e18}},
				{Mass: galaxy.SolarMass, Pos: r2.Vec{X: 1e18, Y: 1e18}},
				{Mass: galaxy.SolarMass, Pos: r2.Vec{X: -3e18, Y: 2e18}},
			}

			for _, guard := range []sim.Guard{sim.SkipNaN, sim.ResetNaN} {
				for i := range ps {
					Expect(finite(sim.AccumulateForce(ps, i, galaxy.G, guard))).To(BeTrue())
				}
			}

			f := sim.AccumulateForce(ps, 2, galaxy.G, sim.SkipNaN)
			Expect(f.X).To(BeNumerically(">", 0))
			Expect(f.Y).To(BeNumerically("<", 0))

			snap := sim.Step(ps, 1, galaxy.G)
			for _, pos := range snap.Positions {
				Expect(finite(pos)).To(BeTrue())
			}
		})
	})

	Describe("zero mass", func() {
		It("corrupts only the massless particle's velocity without failing", func() {
			ps := []dynamo.Particle{
				{Mass: 0, Pos: r2.Vec{X: 1}},
				{Mass: 1, Pos: r2.Vec{X: 2}},
			}
			eng, err := sim.New(ps, dynamo.Config{TimeScale: 1, G: 1, EndStep: 1, SimRadius: 10})
			Expect(err).NotTo(HaveOccurred())

			Expect(eng.Run(context.Background(), nil)).To(Succeed())
			got := eng.Particles()
			Expect(got[0].IsFinite()).To(BeFalse())
			Expect(got[1].IsFinite()).To(BeTrue())
		})
	})
})

var _ = Describe("GuardByName", func() {
	DescribeTable("resolves configured guards",
		func(name string, ok bool) {
			g, found := sim.GuardByName(name)
			Expect(found).To(Equal(ok))
			Expect(g != nil).To(Equal(ok))
		},
		Entry("default", "", true),
		Entry("skip", "skip", true),
		Entry("reset", "reset", true),
		Entry("unknown", "clamp", false),
	)
})
