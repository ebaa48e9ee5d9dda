// Package sim runs the brute-force gravitational simulation.
package sim

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/galaxysim/internal/dynamo"
	"github.com/san-kum/galaxysim/internal/integrators"
)

// Engine owns a particle collection and advances it one step at a time.
// It is not safe for concurrent use.
type Engine struct {
	particles  []dynamo.Particle
	forces     []r2.Vec
	cfg        dynamo.Config
	integrator integrators.Integrator
	guard      Guard
	observers  []dynamo.Observer
	step       int
}

// New takes ownership of particles. The caller must not mutate the slice
// afterwards.
func New(particles []dynamo.Particle, cfg dynamo.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(particles) == 0 {
		return nil, dynamo.ErrEmptyPopulation
	}
	return &Engine{
		particles:  particles,
		forces:     make([]r2.Vec, len(particles)),
		cfg:        cfg,
		integrator: integrators.NewSemiImplicitEuler(),
		guard:      SkipNaN,
		observers:  make([]dynamo.Observer, 0),
	}, nil
}

// SetGuard replaces the NaN guard used during force accumulation. nil is ignored.
func (e *Engine) SetGuard(g Guard) {
	if g != nil {
		e.guard = g
	}
}

// SetIntegrator replaces the per-particle update. nil is ignored.
func (e *Engine) SetIntegrator(i integrators.Integrator) {
	if i != nil {
		e.integrator = i
	}
}

// AddObserver registers o to be called after every step.
func (e *Engine) AddObserver(o dynamo.Observer) { e.observers = append(e.observers, o) }

func (e *Engine) Config() dynamo.Config { return e.cfg }
func (e *Engine) Len() int              { return len(e.particles) }
func (e *Engine) StepCount() int        { return e.step }

// Done reports whether EndStep steps have been executed.
func (e *Engine) Done() bool { return e.step >= e.cfg.EndStep }

// Phase is Initialized until the first step, Running afterwards.
func (e *Engine) Phase() Phase {
	if e.step == 0 {
		return Initialized
	}
	return Running
}

// Particles returns a copy of the current particle state.
func (e *Engine) Particles() []dynamo.Particle {
	return dynamo.Clone(e.particles)
}

// Snapshot returns the current positions without stepping.
func (e *Engine) Snapshot() dynamo.Snapshot {
	return dynamo.SnapshotOf(e.step, e.particles)
}

// Advance executes one step, notifies observers and returns the snapshot.
// It returns ErrFinished once EndStep steps have run.
func (e *Engine) Advance() (dynamo.Snapshot, error) {
	if e.Done() {
		return dynamo.Snapshot{}, dynamo.ErrFinished
	}

	advance(e.particles, e.forces, e.cfg.TimeScale, e.cfg.G, e.guard, e.integrator)
	e.step++

	for _, o := range e.observers {
		o.OnStep(e.step, e.particles)
	}
	return dynamo.SnapshotOf(e.step, e.particles), nil
}

// Run executes the remaining steps, handing each snapshot to sink before the
// next step begins. Cancellation is checked between steps.
func (e *Engine) Run(ctx context.Context, sink dynamo.Sink) error {
	for !e.Done() {
		select {
		case <-ctx.Done():
			return &dynamo.SimulationError{Step: e.step, Wrapped: ctx.Err()}
		default:
		}

		snap, err := e.Advance()
		if err != nil {
			return err
		}

		if sink == nil {
			continue
		}
		if err := sink.Consume(snap); err != nil {
			return &dynamo.SimulationError{
				Step:    snap.Step,
				Wrapped: fmt.Errorf("%w: %w", dynamo.ErrSink, err),
			}
		}
	}
	return nil
}
