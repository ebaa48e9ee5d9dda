package integrators

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/galaxysim/internal/dynamo"
)

// Integrator advances a single particle under a net force over dt.
type Integrator interface {
	Advance(p *dynamo.Particle, force r2.Vec, dt float64)
}

// SemiImplicitEuler updates velocity from the force and then moves the
// particle with the updated velocity. The force is applied as a velocity
// impulse (F/m) once per step, independent of dt.
//
// Mass is not checked: a zero mass yields Inf or NaN velocity.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (e *SemiImplicitEuler) Advance(p *dynamo.Particle, force r2.Vec, dt float64) {
	p.Vel.X += force.X / p.Mass
	p.Vel.Y += force.Y / p.Mass
	p.Pos.X += p.Vel.X * dt
	p.Pos.Y += p.Vel.Y * dt
}
