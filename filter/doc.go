// Package filter implements a Rao-Blackwellized particle filter for linear
// state-space models driven by α-stable shot noise.
//
// Each particle carries one realisation of the latent jump paths. Given the
// paths the state is linear-Gaussian, so a particle holds a Kalman mean and
// covariance instead of a point sample. The filter alternates two stages:
//
//   - Predictor: draw fresh jump paths per particle and propagate each
//     Gaussian through the conditional transition
//   - Updater: Kalman-update each particle with the measurement, reweight by
//     the innovation likelihood and resample
//
// Weights live in the log domain; see Weight. Resampling happens on every
// update and leaves the weights uniform. A collapsed ensemble is reported as
// a *DegenerateError, which matches core.ErrDegenerateEnsemble.
//
// Work on individual particles fans out over a bounded worker pool. Random
// draws stay serial in particle order, so results do not depend on the
// number of workers.
package filter
