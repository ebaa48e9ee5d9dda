// Package galaxy generates the initial particle population of a run.
package galaxy

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/san-kum/galaxysim/internal/dynamo"
)

// Generator draws particles from a seeded PCG stream. The same seed always
// yields the same sequence of particles.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Particle draws one particle. Draw order is mass, x, y, vx, vy, then one more
// draw for the spiral bias when the particle is off both axes.
func (g *Generator) Particle(simRadius float64) dynamo.Particle {
	var p dynamo.Particle
	p.Mass = math.Abs(g.rng.NormFloat64()) * SolarMass
	p.Pos.X = g.rng.NormFloat64() * simRadius / SpreadDivisor
	p.Pos.Y = g.rng.NormFloat64() * simRadius / SpreadDivisor
	p.Vel.X = g.rng.NormFloat64() * BaseVelocity
	p.Vel.Y = g.rng.NormFloat64() * BaseVelocity

	applySpiralBias(&p, simRadius, g.rng.NormFloat64)
	return p
}

// Population draws n particles in generation order.
func (g *Generator) Population(n int, simRadius float64) []dynamo.Particle {
	if n <= 0 {
		return nil
	}
	ps := make([]dynamo.Particle, n)
	for i := range ps {
		ps[i] = g.Particle(simRadius)
	}
	return ps
}

// Generate returns n particles drawn from a fresh generator seeded with seed.
func Generate(n int, simRadius float64, seed uint64) []dynamo.Particle {
	return NewGenerator(seed).Population(n, simRadius)
}

// applySpiralBias overrides the velocity component facing the rotation
// direction of p's quadrant, giving the population a clockwise swirl.
// Particles on an axis keep their base velocity and consume no draw.
func applySpiralBias(p *dynamo.Particle, simRadius float64, norm func() float64) {
	x, y := p.Pos.X, p.Pos.Y
	switch {
	case x > 0 && y > 0:
		p.Vel.Y = -math.Abs(norm() * SpiralVelocity * x / simRadius)
	case x > 0 && y < 0:
		p.Vel.X = -math.Abs(norm() * SpiralVelocity * y / simRadius)
	case x < 0 && y < 0:
		p.Vel.Y = math.Abs(norm() * SpiralVelocity * x / simRadius)
	case x < 0 && y > 0:
		p.Vel.X = math.Abs(norm() * SpiralVelocity * y / simRadius)
	}
}
