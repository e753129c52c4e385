// Package levy simulates the alpha-stable Normal Sigma-Mean (NSM) driving
// process used by Langevin target models, in conditionally Gaussian form.
//
// A Driver draws a truncated shot-noise series for one interval of length dt:
// unit-rate Poisson epochs Γ₁ < Γ₂ < … up to the configured horizon are mapped
// to jump sizes s = (αΓ/(c·dt))^(-1/α), each placed uniformly in [0, dt). Given
// such a JumpPath and a Kernel (the impulse response of a linear SDE), the
// increment is Gaussian with
//
//	mean = μ_W Σ sᵢ h(dt-τᵢ)
//	cov  = σ_W² Σ sᵢ² h(dt-τᵢ) h(dt-τᵢ)ᵀ
//
// plus a compensating drift for α ≥ 1 and a residual term for the jumps
// smaller than the truncation size ε, selected by NoiseCase:
//
//	NoiseNone      tail omitted                  cheapest, biased
//	NoisePartial   tail mean + σ_W² tail variance
//	NoiseGaussian  tail mean + (σ_W²+μ_W²) tail variance
//
// Draw order is part of the contract: within a call, epoch increments and
// jump times are consumed alternately from the Driver's generator, and calls
// are serialized. Axes that share one Driver therefore see reproducible
// jump paths provided the caller draws in a fixed order (see model.Combined).
//
// Common workflows:
//   - NewDriver(params, opts...)
//   - Driver.Draw(dt) followed by Driver.Moments(path, kernel, muW)
//   - Driver.SampleMoments(dt, kernel) as a one-shot shortcut
package levy
