// Package analysis provides spectral tools for recorded trajectories.
//
// A spring system oscillates at frequencies set by its stiffness and masses;
// [DominantFrequency] recovers the strongest of them from samples:
//
//	freq, _ := analysis.DominantFrequency(xs, dt)
//	period := 1 / freq
package analysis
