package sim

import "math"

// Phase is the lifecycle state of an Engine.
type Phase int

const (
	// Initialized: particles generated, no step executed yet.
	Initialized Phase = iota
	// Running: at least one step executed.
	Running
)

func (p Phase) String() string {
	switch p {
	case Initialized:
		return "initialized"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// Guard decides the value of a force accumulator after one pairwise term
// was added. prev is the accumulator before the addition, sum after it.
type Guard func(prev, sum float64) float64

// SkipNaN discards a term that turned the accumulator into NaN, keeping the
// contributions accumulated so far. Self-interaction (0/0) therefore adds
// nothing, exactly as if the pair had been skipped by index.
func SkipNaN(prev, sum float64) float64 {
	if math.IsNaN(sum) {
		return prev
	}
	return sum
}

// ResetNaN zeroes the accumulator when it becomes NaN. Contributions added
// before the NaN term are lost, so a particle only feels partners that come
// after it in collection order.
func ResetNaN(prev, sum float64) float64 {
	if math.IsNaN(sum) {
		return 0
	}
	return sum
}

// GuardByName resolves a guard from its configuration name.
func GuardByName(name string) (Guard, bool) {
	switch name {
	case "", "skip":
		return SkipNaN, true
	case "reset":
		return ResetNaN, true
	default:
		return nil, false
	}
}
