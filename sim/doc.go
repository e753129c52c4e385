// Package sim generates ground-truth trajectories and noisy measurements
// from a combined Lévy-driven model, for filter evaluation and tests.
package sim
