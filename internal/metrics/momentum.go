package metrics

import (
	"math"

	"github.com/san-kum/galaxysim/internal/dynamo"
)

// Momentum is the magnitude of total linear momentum.
type Momentum struct {
	name  string
	value float64
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(step int, ps []dynamo.Particle) {
	px, py := 0.0, 0.0
	for i := range ps {
		px += ps[i].Mass * ps[i].Vel.X
		py += ps[i].Mass * ps[i].Vel.Y
	}
	m.value = math.Hypot(px, py)
}

func (m *Momentum) Value() float64 { return m.value }
func (m *Momentum) Reset()         { m.value = 0 }

// NonFinite counts particles whose state holds NaN or Inf, e.g. after a
// zero-mass velocity update.
type NonFinite struct {
	name  string
	count int
}

func NewNonFinite() *NonFinite {
	return &NonFinite{name: "non_finite"}
}

func (n *NonFinite) Name() string { return n.name }

func (n *NonFinite) Observe(step int, ps []dynamo.Particle) {
	n.count = 0
	for i := range ps {
		if !ps[i].IsFinite() {
			n.count++
		}
	}
}

func (n *NonFinite) Value() float64 { return float64(n.count) }
func (n *NonFinite) Reset()         { n.count = 0 }

// AngularMomentum is the z-component of total angular momentum about the
// origin. The spiral bias makes it negative (clockwise) at generation.
type AngularMomentum struct {
	name  string
	value float64
}

func NewAngularMomentum() *AngularMomentum {
	return &AngularMomentum{name: "angular_momentum"}
}

func (a *AngularMomentum) Name() string { return a.name }

func (a *AngularMomentum) Observe(step int, ps []dynamo.Particle) {
	l := 0.0
	for i := range ps {
		l += ps[i].Mass * (ps[i].Pos.X*ps[i].Vel.Y - ps[i].Pos.Y*ps[i].Vel.X)
	}
	a.value = l
}

func (a *AngularMomentum) Value() float64 { return a.value }
func (a *AngularMomentum) Reset()         { a.value = 0 }
