package consistency

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-levy/core"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// RMSE returns the root-mean-square error over all components of all
// samples. est and truth must have identical shapes.
func RMSE(est, truth [][]float64) (float64, error) {
	if len(est) != len(truth) {
		return 0, fmt.Errorf("consistency: %d estimates for %d truths: %w", len(est), len(truth), core.ErrDimensionMismatch)
	}

	if len(est) == 0 {
		return 0, fmt.Errorf("consistency: no samples: %w", core.ErrConfiguration)
	}

	var sum float64
	var count int
	var diff, sq []float64
	for k := range est {
		if len(est[k]) != len(truth[k]) {
			return 0, fmt.Errorf("consistency: sample %d has %d components, truth %d: %w", k, len(est[k]), len(truth[k]), core.ErrDimensionMismatch)
		}

		diff = resize(diff, len(est[k]))
		sq = resize(sq, len(est[k]))
		for i := range diff {
			diff[i] = est[k][i] - truth[k][i]
		}

		vecmath.MulBlock(sq, diff, diff)
		sum += floats.Sum(sq)
		count += len(sq)
	}

	if count == 0 {
		return 0, fmt.Errorf("consistency: samples are empty: %w", core.ErrConfiguration)
	}

	return math.Sqrt(sum / float64(count)), nil
}

// PositionRMSE returns the RMSE of the state components listed in indices.
func PositionRMSE(est, truth []*mat.VecDense, indices []int) (float64, error) {
	if len(est) != len(truth) {
		return 0, fmt.Errorf("consistency: %d estimates for %d truths: %w", len(est), len(truth), core.ErrDimensionMismatch)
	}

	e := make([][]float64, len(est))
	g := make([][]float64, len(truth))
	for k := range est {
		var err error
		if e[k], err = pick(est[k], indices); err != nil {
			return 0, err
		}

		if g[k], err = pick(truth[k], indices); err != nil {
			return 0, err
		}
	}

	return RMSE(e, g)
}

func pick(v *mat.VecDense, indices []int) ([]float64, error) {
	out := make([]float64, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= v.Len() {
			return nil, fmt.Errorf("consistency: index %d outside vector of length %d: %w", idx, v.Len(), core.ErrDimensionMismatch)
		}

		out[i] = v.AtVec(idx)
	}

	return out, nil
}

func resize(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}

	return s[:n]
}

// NEES returns the normalized estimation error squared
// (x̂−x)ᵀ P⁻¹ (x̂−x).
func NEES(truth, est mat.Vector, cov mat.Symmetric) (float64, error) {
	if truth.Len() != est.Len() {
		return 0, fmt.Errorf("consistency: truth has %d entries, estimate %d: %w", truth.Len(), est.Len(), core.ErrDimensionMismatch)
	}

	e := mat.NewVecDense(est.Len(), nil)
	e.SubVec(est, truth)

	return mahalanobis(e, cov)
}

// NIS returns the normalized innovation squared νᵀ S⁻¹ ν.
func NIS(innovation mat.Vector, s mat.Symmetric) (float64, error) {
	return mahalanobis(innovation, s)
}

func mahalanobis(v mat.Vector, s mat.Symmetric) (float64, error) {
	if s.SymmetricDim() != v.Len() {
		return 0, fmt.Errorf("consistency: vector has %d entries, covariance is %dx%d: %w",
			v.Len(), s.SymmetricDim(), s.SymmetricDim(), core.ErrDimensionMismatch)
	}

	var chol mat.Cholesky
	if !chol.Factorize(s) {
		return 0, fmt.Errorf("consistency: covariance not positive definite: %w", core.ErrNumericalSingularity)
	}

	var x mat.VecDense
	if err := chol.SolveVecTo(&x, v); err != nil {
		return 0, fmt.Errorf("consistency: %v: %w", err, core.ErrNumericalSingularity)
	}

	return mat.Dot(v, &x), nil
}

// ChiSquareBounds returns the two-sided acceptance interval for the average
// of runs independent χ²(dof) statistics at the given significance level.
func ChiSquareBounds(dof, runs int, significance float64) (lo, hi float64, err error) {
	if dof <= 0 || runs <= 0 {
		return 0, 0, fmt.Errorf("consistency: dof and runs must be > 0: %d, %d: %w", dof, runs, core.ErrConfiguration)
	}

	if !(significance > 0 && significance < 1) {
		return 0, 0, fmt.Errorf("consistency: significance must be in (0, 1): %v: %w", significance, core.ErrConfiguration)
	}

	d := distuv.ChiSquared{K: float64(dof * runs)}
	n := float64(runs)

	return d.Quantile(significance/2) / n, d.Quantile(1-significance/2) / n, nil
}
