package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Particle is a point mass. Mass is in kilograms, Pos in meters and Vel in
// meters per second.
type Particle struct {
	Mass float64
	Pos  r2.Vec
	Vel  r2.Vec
}

// IsFinite reports whether every component of p is neither NaN nor Inf.
func (p Particle) IsFinite() bool {
	for _, v := range [...]float64{p.Mass, p.Pos.X, p.Pos.Y, p.Vel.X, p.Vel.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Clone returns a copy of ps that shares no memory with it.
func Clone(ps []Particle) []Particle {
	c := make([]Particle, len(ps))
	copy(c, ps)
	return c
}

// Snapshot holds particle positions at the end of a step, in collection order.
type Snapshot struct {
	Step      int
	Positions []r2.Vec
}

// SnapshotOf copies the positions of ps.
func SnapshotOf(step int, ps []Particle) Snapshot {
	pos := make([]r2.Vec, len(ps))
	for i := range ps {
		pos[i] = ps[i].Pos
	}
	return Snapshot{Step: step, Positions: pos}
}

// Sink consumes snapshots. Consume is called synchronously and the engine does
// not issue the next step until it returns.
type Sink interface {
	Consume(snap Snapshot) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(snap Snapshot) error

func (f SinkFunc) Consume(snap Snapshot) error { return f(snap) }

// MultiSink fans a snapshot out to every sink in order, stopping at the
// first error.
type MultiSink []Sink

func (m MultiSink) Consume(snap Snapshot) error {
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Consume(snap); err != nil {
			return err
		}
	}
	return nil
}

// Observer sees the full particle state after each step. ps is the engine's
// own slice and must not be retained or modified.
type Observer interface {
	OnStep(step int, ps []Particle)
}

// Config holds the numeric parameters of a run in SI units.
type Config struct {
	TimeScale float64 // seconds of simulated time per step
	G         float64
	EndStep   int
	SimRadius float64 // meters
}

func (c Config) Validate() error {
	if c.TimeScale <= 0 {
		return fmt.Errorf("%w: time scale must be positive, got %g", ErrInvalidConfig, c.TimeScale)
	}
	if c.G <= 0 {
		return fmt.Errorf("%w: G must be positive, got %g", ErrInvalidConfig, c.G)
	}
	if c.EndStep <= 0 {
		return fmt.Errorf("%w: end step must be positive, got %d", ErrInvalidConfig, c.EndStep)
	}
	if c.SimRadius <= 0 {
		return fmt.Errorf("%w: sim radius must be positive, got %g", ErrInvalidConfig, c.SimRadius)
	}
	return nil
}
