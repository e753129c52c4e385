// Package resample draws particle indices from normalized importance weights.
//
// Schemes:
//   - Systematic: one uniform offset u₀ ∈ [0, 1/N), positions u₀ + k/N (default)
//   - Stratified: one uniform draw per stratum [k/N, (k+1)/N)
//   - Multinomial: N independent uniform draws, for comparison
//
// All schemes run in O(N) after the cumulative sum (Multinomial in
// O(N log N)) and never select a particle of zero weight.
package resample
