package sim_test

import (
	"testing"

	"github.com/san-kum/galaxysim/internal/dynamo"
	"github.com/san-kum/galaxysim/internal/galaxy"
	"github.com/san-kum/galaxysim/internal/sim"
)

func benchmarkStep(b *testing.B, n int) {
	radius := 30000 * galaxy.LightYear
	ps := galaxy.Generate(n, radius, 1)
	cfg := dynamo.Config{TimeScale: 1e5 * galaxy.SecondsPerYear, G: galaxy.G, EndStep: b.N + 1, SimRadius: radius}
	eng, err := sim.New(ps, cfg)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := eng.Advance(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkStep_100(b *testing.B)  { benchmarkStep(b, 100) }
func BenchmarkStep_1000(b *testing.B) { benchmarkStep(b, 1000) }
