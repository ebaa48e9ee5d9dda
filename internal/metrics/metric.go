package metrics

import "github.com/san-kum/galaxysim/internal/dynamo"

// Metric observes particle state after each step and reduces it to a scalar.
type Metric interface {
	Name() string
	Observe(step int, ps []dynamo.Particle)
	Value() float64
	Reset()
}

// Row is the value of every recorded metric at one step.
type Row struct {
	Step   int
	Values map[string]float64
}

// Recorder is a dynamo.Observer that feeds metrics and keeps their per-step
// values, sampling every Every steps (1 when zero).
type Recorder struct {
	metrics []Metric
	every   int
	rows    []Row
}

func NewRecorder(every int, ms ...Metric) *Recorder {
	if every <= 0 {
		every = 1
	}
	return &Recorder{metrics: ms, every: every, rows: make([]Row, 0)}
}

// Default returns the metrics recorded for a run.
func Default(g float64) []Metric {
	return []Metric{NewEnergy(g), NewEnergyDrift(g), NewMomentum(), NewAngularMomentum(), NewNonFinite()}
}

func (r *Recorder) OnStep(step int, ps []dynamo.Particle) {
	if step%r.every != 0 {
		return
	}
	row := Row{Step: step, Values: make(map[string]float64, len(r.metrics))}
	for _, m := range r.metrics {
		m.Observe(step, ps)
		row.Values[m.Name()] = m.Value()
	}
	r.rows = append(r.rows, row)
}

func (r *Recorder) Rows() []Row { return r.rows }

// Names returns metric names in registration order.
func (r *Recorder) Names() []string {
	names := make([]string, len(r.metrics))
	for i, m := range r.metrics {
		names[i] = m.Name()
	}
	return names
}

// Latest returns the most recent value of every metric.
func (r *Recorder) Latest() map[string]float64 {
	out := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (r *Recorder) Reset() {
	r.rows = r.rows[:0]
	for _, m := range r.metrics {
		m.Reset()
	}
}
