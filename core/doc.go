// Package core holds the pieces shared by every stage of the Lévy tracking
// pipeline: the error taxonomy, tolerance helpers, and the small set of
// symmetric-matrix operations the filter relies on.
//
// Error taxonomy:
//   - ErrConfiguration: invalid alpha, c, theta, or covariance parameters
//   - ErrDimensionMismatch: model, state, and measurement shapes disagree
//   - ErrNumericalSingularity: innovation covariance not invertible after regularization
//   - ErrDegenerateEnsemble: effective sample size collapsed
//   - ErrTemporalOrder: a step was requested at or before the current time
//
// Packages wrap these with their own prefix, so callers test with errors.Is.
package core
