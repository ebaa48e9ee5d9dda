// Package dynamo provides the core types shared by the galaxy simulator.
//
// The package defines:
//
//   - [Particle]: a point mass with position and velocity
//   - [Snapshot]: particle positions emitted after every step
//   - [Sink]: consumer of snapshots (renderers, progress, storage)
//   - [Config]: numeric parameters of a run
//
// # Example
//
//	particles := galaxy.Generate(1000, 30000*galaxy.LightYear, 1)
//	eng, _ := sim.New(particles, cfg)
//	_ = eng.Run(ctx, sink)
//
// # Thread Safety
//
// Particles and snapshots are plain values and are NOT safe for concurrent
// mutation. The engine is the sole owner of its particle slice.
package dynamo
