package metrics

import (
	"math"

	"github.com/san-kum/galaxysim/internal/dynamo"
)

// Energy is the total kinetic plus pairwise gravitational potential energy.
// Coincident pairs contribute no potential.
type Energy struct {
	name  string
	g     float64
	value float64
}

func NewEnergy(g float64) *Energy {
	return &Energy{name: "energy", g: g}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(step int, ps []dynamo.Particle) {
	e.value = TotalEnergy(ps, e.g)
}

func (e *Energy) Value() float64 { return e.value }
func (e *Energy) Reset()         { e.value = 0 }

// TotalEnergy computes kinetic plus potential energy of ps.
func TotalEnergy(ps []dynamo.Particle, g float64) float64 {
	ke, pe := 0.0, 0.0
	for i := range ps {
		v := ps[i].Vel
		ke += 0.5 * ps[i].Mass * (v.X*v.X + v.Y*v.Y)

		for j := i + 1; j < len(ps); j++ {
			r := math.Hypot(ps[j].Pos.X-ps[i].Pos.X, ps[j].Pos.Y-ps[i].Pos.Y)
			if r == 0 {
				continue
			}
			pe -= g * ps[i].Mass * ps[j].Mass / r
		}
	}
	return ke + pe
}

// EnergyDrift tracks the largest relative deviation from the energy observed
// at the first sample.
type EnergyDrift struct {
	name          string
	g             float64
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(g float64) *EnergyDrift {
	return &EnergyDrift{name: "energy_drift", g: g}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(step int, ps []dynamo.Particle) {
	energy := TotalEnergy(ps, e.g)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
