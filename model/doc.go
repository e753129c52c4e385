// Package model provides the linear dynamics and measurement models of the
// tracker.
//
// Langevin is a one-dimensional damped-velocity model on (position, velocity)
// driven by a levy.Driver:
//
//	F(dt) = [[1, (1-e^(-θdt))/θ], [0, e^(-θdt)]]
//	h(u)  = [(1-e^(-θu))/θ, e^(-θu)]
//
// Combined stacks several Langevin axes into one block-diagonal model with
// the interleaved state layout [x₀, v₀, x₁, v₁, …]. Cross-axis covariance is
// zero even when axes share a Driver and therefore share jump times.
//
// Measurement is a linear-Gaussian observation z = H·x + r, r ~ N(0, R), where
// H selects state components.
package model
