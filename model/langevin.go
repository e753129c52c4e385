package model

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-levy/core"
	"github.com/cwbudde/algo-levy/levy"
	"gonum.org/v1/gonum/mat"
)

// AxisDim is the state dimension of one Langevin axis.
const AxisDim = 2

// Langevin is an immutable single-axis Langevin model. A nil Driver makes
// the axis noiseless: its moments are zero and SampleNext is F(dt)·x.
type Langevin struct {
	theta    float64
	muW      float64
	override bool
	driver   *levy.Driver
}

// AxisOption configures a Langevin axis.
type AxisOption func(*Langevin) error

// WithMuW overrides the Driver's μ_W for this axis only. Axes sharing a
// Driver can differ in drift while sharing jump times.
func WithMuW(muW float64) AxisOption {
	return func(a *Langevin) error {
		if !core.IsFinite(muW) {
			return fmt.Errorf("model: mu_W override must be finite: %v: %w", muW, core.ErrConfiguration)
		}

		a.muW = muW
		a.override = true

		return nil
	}
}

// NewLangevin returns an axis with damping theta > 0 driven by driver.
func NewLangevin(theta float64, driver *levy.Driver, opts ...AxisOption) (*Langevin, error) {
	if !(theta > 0) || math.IsInf(theta, 0) {
		return nil, fmt.Errorf("model: theta must be > 0 and finite: %v: %w", theta, core.ErrConfiguration)
	}

	a := &Langevin{theta: theta, driver: driver}
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Theta returns the damping rate.
func (a *Langevin) Theta() float64 { return a.theta }

// Driver returns the driving process, nil for a noiseless axis.
func (a *Langevin) Driver() *levy.Driver { return a.driver }

// MuW returns the effective jump drift: the override if set, else the Driver's.
func (a *Langevin) MuW() float64 {
	if a.override || a.driver == nil {
		return a.muW
	}

	return a.driver.Params().MuW
}

// Dim implements levy.Kernel.
func (a *Langevin) Dim() int { return AxisDim }

// Response implements levy.Kernel.
func (a *Langevin) Response(u float64, dst []float64) {
	e := math.Exp(-a.theta * u)
	dst[0] = -math.Expm1(-a.theta*u) / a.theta
	dst[1] = e
}

// Integrals implements levy.Kernel with the closed forms of ∫h and ∫hhᵀ.
func (a *Langevin) Integrals(dt float64, first []float64, second *mat.SymDense) {
	th := a.theta
	e1 := -math.Expm1(-th * dt)   // 1 - e^(-θdt)
	e2 := -math.Expm1(-2 * th * dt) // 1 - e^(-2θdt)

	first[0] = (dt - e1/th) / th
	first[1] = e1 / th

	second.SetSym(0, 0, (dt-2*e1/th+e2/(2*th))/(th*th))
	second.SetSym(0, 1, (e1/th-e2/(2*th))/th)
	second.SetSym(1, 1, e2/(2*th))
}

// TransitionMatrix returns F(dt).
func (a *Langevin) TransitionMatrix(dt float64) *mat.Dense {
	return mat.NewDense(AxisDim, AxisDim, []float64{
		1, dt * core.Expm1Neg(a.theta*dt),
		0, math.Exp(-a.theta * dt),
	})
}

// MomentsFromPath maps a drawn path into this axis' increment moments.
func (a *Langevin) MomentsFromPath(path *levy.JumpPath) (levy.Moments, error) {
	if a.driver == nil {
		return levy.ZeroMoments(AxisDim), nil
	}

	return a.driver.Moments(path, a, a.MuW())
}

// Moments draws a jump path from the Driver and returns the increment's
// mean and covariance. Nothing is sampled from the final Gaussian.
func (a *Langevin) Moments(dt float64) (levy.Moments, error) {
	if a.driver == nil {
		if !(dt > 0) {
			return levy.Moments{}, fmt.Errorf("model: dt must be > 0: %v: %w", dt, core.ErrConfiguration)
		}

		return levy.ZeroMoments(AxisDim), nil
	}

	path, err := a.driver.Draw(dt)
	if err != nil {
		return levy.Moments{}, err
	}

	return a.MomentsFromPath(path)
}

// SampleNext draws x' ~ N(F(dt)·x + m, Q) for simulation.
func (a *Langevin) SampleNext(state mat.Vector, dt float64, rng *rand.Rand) (*mat.VecDense, error) {
	if state.Len() != AxisDim {
		return nil, fmt.Errorf("model: axis state has %d entries, want %d: %w", state.Len(), AxisDim, core.ErrDimensionMismatch)
	}

	m, err := a.Moments(dt)
	if err != nil {
		return nil, err
	}

	return sampleNext(a.TransitionMatrix(dt), state, m, rng)
}

// sampleNext returns F·x + m + L·z with L·Lᵀ = Q. A zero Q adds no noise
// and does not read rng.
func sampleNext(f mat.Matrix, state mat.Vector, m levy.Moments, rng *rand.Rand) (*mat.VecDense, error) {
	n := state.Len()
	out := mat.NewVecDense(n, nil)
	out.MulVec(f, state)
	out.AddVec(out, m.Mean)

	if isZero(m.Cov) {
		return out, nil
	}

	if rng == nil {
		return nil, fmt.Errorf("model: sampling needs a generator: %w", core.ErrConfiguration)
	}

	l, err := core.SqrtPSD(m.Cov)
	if err != nil {
		return nil, err
	}

	z := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		z.SetVec(i, rng.NormFloat64())
	}

	var noise mat.VecDense
	noise.MulVec(l, z)
	out.AddVec(out, &noise)

	return out, nil
}

func isZero(s mat.Symmetric) bool {
	n := s.SymmetricDim()
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if s.At(i, j) != 0 {
				return false
			}
		}
	}

	return true
}
