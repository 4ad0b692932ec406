// Package transform turns a solved grid layout into drawing coordinates.
//
// # Scaling
//
// [Scale] multiplies grid coordinates by a fixed factor per axis. The
// horizontal factor is larger because labels are wide and short. Left and
// right edges are then pulled inward by a fixed inset so adjacent boxes get
// a visible gap.
//
// # Jitter
//
// Each left and right edge is shifted by a small random offset so the tower
// looks hand stacked. [Jitter] draws the offsets from a PCG generator seeded
// only by the caller's seed, so the same seed always draws the same tower.
// [Options.Validate] rejects combinations where the offsets could make
// boxes overlap or stop touching.
package transform
