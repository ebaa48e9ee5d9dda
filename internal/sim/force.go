package sim

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/galaxysim/internal/dynamo"
	"github.com/san-kum/galaxysim/internal/integrators"
)

// AccumulateForce returns the net gravitational force on ps[i], summed over
// every particle in ps including ps[i] itself. Each component goes through
// guard after every pairwise addition.
func AccumulateForce(ps []dynamo.Particle, i int, g float64, guard Guard) r2.Vec {
	p0 := ps[i]
	var f r2.Vec
	for _, pn := range ps {
		dx := pn.Pos.X - p0.Pos.X
		dy := pn.Pos.Y - p0.Pos.Y
		sqDist := dx*dx + dy*dy

		f.X = guard(f.X, f.X+(g*p0.Mass*pn.Mass*dx)/sqDist)
		f.Y = guard(f.Y, f.Y+(g*p0.Mass*pn.Mass*dy)/sqDist)
	}
	return f
}

// computeForces fills forces from the current positions of ps. No particle
// is moved while forces are computed.
func computeForces(ps []dynamo.Particle, forces []r2.Vec, g float64, guard Guard) {
	for i := range ps {
		forces[i] = AccumulateForce(ps, i, g, guard)
	}
}

// Step advances ps by one step of timeScale seconds in place and returns the
// resulting positions. Forces for every particle are computed before any
// particle moves. Step always uses SkipNaN; use an Engine with SetGuard for
// ResetNaN.
func Step(ps []dynamo.Particle, timeScale, g float64) dynamo.Snapshot {
	forces := make([]r2.Vec, len(ps))
	advance(ps, forces, timeScale, g, SkipNaN, integrators.NewSemiImplicitEuler())
	return dynamo.SnapshotOf(0, ps)
}

func advance(ps []dynamo.Particle, forces []r2.Vec, dt, g float64, guard Guard, integ integrators.Integrator) {
	computeForces(ps, forces, g, guard)
	for i := range ps {
		integ.Advance(&ps[i], forces[i], dt)
	}
}
