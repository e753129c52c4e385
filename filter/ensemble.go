package filter

import (
	"fmt"
	"time"

	"github.com/cwbudde/algo-levy/core"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Particle is one conditionally Gaussian hypothesis.
type Particle struct {
	Mean   *mat.VecDense
	Cov    *mat.SymDense
	Weight Weight
}

// Clone returns a deep copy of p.
func (p Particle) Clone() Particle {
	c := mat.NewSymDense(p.Cov.SymmetricDim(), nil)
	c.CopySym(p.Cov)

	return Particle{Mean: mat.VecDenseCopyOf(p.Mean), Cov: c, Weight: p.Weight}
}

// Ensemble is the weighted particle set at one instant.
type Ensemble struct {
	Time      time.Time
	Particles []Particle
}

// NewEnsemble returns n identical particles at (mean, cov) with uniform weights.
func NewEnsemble(t time.Time, mean mat.Vector, cov mat.Symmetric, n int) (*Ensemble, error) {
	if n <= 0 {
		return nil, fmt.Errorf("filter: particle count must be > 0: %d: %w", n, core.ErrConfiguration)
	}

	if mean == nil || cov == nil {
		return nil, fmt.Errorf("filter: initial mean and covariance are required: %w", core.ErrConfiguration)
	}

	if mean.Len() != cov.SymmetricDim() {
		return nil, fmt.Errorf("filter: mean has %d entries, covariance is %dx%d: %w",
			mean.Len(), cov.SymmetricDim(), cov.SymmetricDim(), core.ErrDimensionMismatch)
	}

	if !core.IsPSD(cov, 1e-12) {
		return nil, fmt.Errorf("filter: initial covariance is not positive semi-definite: %w", core.ErrConfiguration)
	}

	m := mat.VecDenseCopyOf(mean)
	c := core.Symmetrize(cov)
	w := UniformWeight(n)
	ps := make([]Particle, n)
	for i := range ps {
		ps[i] = Particle{Mean: m, Cov: c, Weight: w}.Clone()
	}

	return &Ensemble{Time: t, Particles: ps}, nil
}

// FromMatrices builds an ensemble from a d×N matrix of means, N covariances
// and N linear-domain weights. A nil weights slice means uniform.
func FromMatrices(t time.Time, means mat.Matrix, covs []mat.Symmetric, weights []float64) (*Ensemble, error) {
	if means == nil {
		return nil, fmt.Errorf("filter: means matrix is nil: %w", core.ErrConfiguration)
	}

	d, n := means.Dims()
	if len(covs) != n {
		return nil, fmt.Errorf("filter: %d covariances for %d particles: %w", len(covs), n, core.ErrDimensionMismatch)
	}

	if weights != nil && len(weights) != n {
		return nil, fmt.Errorf("filter: %d weights for %d particles: %w", len(weights), n, core.ErrDimensionMismatch)
	}

	if n == 0 {
		return nil, fmt.Errorf("filter: ensemble is empty: %w", core.ErrConfiguration)
	}

	ps := make([]Particle, n)
	for i := range ps {
		if covs[i] == nil || covs[i].SymmetricDim() != d {
			return nil, fmt.Errorf("filter: particle %d covariance does not match dimension %d: %w", i, d, core.ErrDimensionMismatch)
		}

		w := UniformWeight(n)
		if weights != nil {
			var err error
			if w, err = WeightFromProb(weights[i]); err != nil {
				return nil, fmt.Errorf("filter: particle %d: %w", i, err)
			}
		}

		ps[i] = Particle{
			Mean:   mat.NewVecDense(d, mat.Col(nil, i, means)),
			Cov:    core.Symmetrize(covs[i]),
			Weight: w,
		}
	}

	e := &Ensemble{Time: t, Particles: ps}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	return e, nil
}

// Len returns the number of particles.
func (e *Ensemble) Len() int { return len(e.Particles) }

// Dim returns the state dimension, or 0 for an empty ensemble.
func (e *Ensemble) Dim() int {
	if len(e.Particles) == 0 || e.Particles[0].Mean == nil {
		return 0
	}

	return e.Particles[0].Mean.Len()
}

// Validate checks that every particle is well formed: consistent dimensions,
// finite means and symmetric covariances.
func (e *Ensemble) Validate() error {
	if e == nil || len(e.Particles) == 0 {
		return fmt.Errorf("filter: ensemble is empty: %w", core.ErrConfiguration)
	}

	d := e.Dim()
	if d == 0 {
		return fmt.Errorf("filter: particle 0 has no mean: %w", core.ErrConfiguration)
	}

	for i, p := range e.Particles {
		if p.Mean == nil || p.Cov == nil {
			return fmt.Errorf("filter: particle %d is incomplete: %w", i, core.ErrConfiguration)
		}

		if p.Mean.Len() != d || p.Cov.SymmetricDim() != d {
			return fmt.Errorf("filter: particle %d does not match dimension %d: %w", i, d, core.ErrDimensionMismatch)
		}

		if !core.AllFinite(p.Mean.RawVector().Data) || !core.AllFinite(p.Cov.RawSymmetric().Data) {
			return fmt.Errorf("filter: particle %d has non-finite entries: %w", i, core.ErrNumericalSingularity)
		}
	}

	return nil
}

// Weights returns the normalized linear-domain weights.
func (e *Ensemble) Weights() []float64 {
	ws := e.weights()
	if _, err := Normalize(ws); err != nil {
		return make([]float64, len(ws))
	}

	return Probs(nil, ws)
}

// EffectiveSampleSize returns the ESS of the particle weights.
func (e *Ensemble) EffectiveSampleSize() float64 {
	return EffectiveSampleSize(e.weights())
}

// Matrices returns the d×N matrix of means, the per-particle covariances and
// the normalized weights. The outputs do not alias the ensemble.
func (e *Ensemble) Matrices() (*mat.Dense, []*mat.SymDense, []float64) {
	d, n := e.Dim(), e.Len()
	means := mat.NewDense(d, n, nil)
	covs := make([]*mat.SymDense, n)
	for i, p := range e.Particles {
		means.SetCol(i, p.Mean.RawVector().Data)
		covs[i] = p.Clone().Cov
	}

	return means, covs, e.Weights()
}

// Mean returns the weighted mean of the particle means.
func (e *Ensemble) Mean() *mat.VecDense {
	means, _, w := e.Matrices()
	d := e.Dim()
	out := mat.NewVecDense(d, nil)
	row := make([]float64, e.Len())
	for k := 0; k < d; k++ {
		mat.Row(row, k, means)
		out.SetVec(k, stat.Mean(row, w))
	}

	return out
}

// Covariance returns the covariance of the Gaussian mixture:
// Σ wᵢ (Pᵢ + (mᵢ−m̄)(mᵢ−m̄)ᵀ).
func (e *Ensemble) Covariance() *mat.SymDense {
	w := e.Weights()
	mean := e.Mean()
	d := e.Dim()
	out := mat.NewSymDense(d, nil)
	diff := mat.NewVecDense(d, nil)
	for i, p := range e.Particles {
		if w[i] == 0 {
			continue
		}

		diff.SubVec(p.Mean, mean)
		out.AddSym(out, scaledSym(p.Cov, w[i]))
		out.SymRankOne(out, w[i], diff)
	}

	return out
}

func scaledSym(s *mat.SymDense, f float64) *mat.SymDense {
	out := mat.NewSymDense(s.SymmetricDim(), nil)
	out.ScaleSym(f, s)

	return out
}

// Clone returns a deep copy of e.
func (e *Ensemble) Clone() *Ensemble {
	ps := make([]Particle, len(e.Particles))
	for i, p := range e.Particles {
		ps[i] = p.Clone()
	}

	return &Ensemble{Time: e.Time, Particles: ps}
}

func (e *Ensemble) weights() []Weight {
	ws := make([]Weight, len(e.Particles))
	for i, p := range e.Particles {
		ws[i] = p.Weight
	}

	return ws
}
