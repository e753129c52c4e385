package filter

import (
	"testing"

	"github.com/cwbudde/algo-levy/core"
	"github.com/cwbudde/algo-levy/internal/testutil"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewEnsemble(t *testing.T) {
	mean := mat.NewVecDense(2, []float64{1, 2})
	e, err := NewEnsemble(epoch, mean, diagSym(1, 4), 5)
	require.NoError(t, err)
	require.Equal(t, 5, e.Len())
	require.Equal(t, 2, e.Dim())
	require.NoError(t, e.Validate())
	require.InDelta(t, 5, e.EffectiveSampleSize(), 1e-12)

	// Particles must not alias each other.
	e.Particles[0].Mean.SetVec(0, 99)
	require.Equal(t, 1.0, e.Particles[1].Mean.AtVec(0))
	require.Equal(t, 1.0, mean.AtVec(0))
}

func TestNewEnsembleValidation(t *testing.T) {
	_, err := NewEnsemble(epoch, mat.NewVecDense(2, nil), diagSym(1, 1), 0)
	require.ErrorIs(t, err, core.ErrConfiguration)
	_, err = NewEnsemble(epoch, mat.NewVecDense(3, nil), diagSym(1, 1), 2)
	require.ErrorIs(t, err, core.ErrDimensionMismatch)
	_, err = NewEnsemble(epoch, mat.NewVecDense(2, nil), diagSym(1, -1), 2)
	require.ErrorIs(t, err, core.ErrConfiguration)
}

func TestMatricesRoundTrip(t *testing.T) {
	means := mat.NewDense(2, 3, []float64{
		0, 1, 2,
		3, 4, 5,
	})
	covs := []mat.Symmetric{diagSym(1, 1), diagSym(2, 2), diagSym(3, 3)}
	e, err := FromMatrices(epoch, means, covs, []float64{0.2, 0.3, 0.5})
	require.NoError(t, err)

	gotMeans, gotCovs, w := e.Matrices()
	testutil.RequireMatrixNearlyEqual(t, gotMeans, means, 0)
	for i := range covs {
		testutil.RequireMatrixNearlyEqual(t, gotCovs[i], covs[i], 0)
	}
	testutil.RequireSliceNearlyEqual(t, w, []float64{0.2, 0.3, 0.5}, 1e-12)

	_, err = FromMatrices(epoch, means, covs[:2], nil)
	require.ErrorIs(t, err, core.ErrDimensionMismatch)
	_, err = FromMatrices(epoch, means, covs, []float64{1, 1})
	require.ErrorIs(t, err, core.ErrDimensionMismatch)
	_, err = FromMatrices(epoch, means, covs, []float64{1, -1, 1})
	require.ErrorIs(t, err, core.ErrConfiguration)
	_, err = FromMatrices(epoch, means, []mat.Symmetric{diagSym(1), diagSym(1), diagSym(1)}, nil)
	require.ErrorIs(t, err, core.ErrDimensionMismatch)
}

func TestMixtureMoments(t *testing.T) {
	means := mat.NewDense(1, 2, []float64{-1, 3})
	e, err := FromMatrices(epoch, means, []mat.Symmetric{diagSym(0.5), diagSym(1.5)}, []float64{0.75, 0.25})
	require.NoError(t, err)

	// m̄ = 0.75·(-1) + 0.25·3 = 0
	require.InDelta(t, 0, e.Mean().AtVec(0), 1e-12)
	// Σ wᵢ(Pᵢ + mᵢ²) = 0.75·1.5 + 0.25·10.5
	require.InDelta(t, 0.75*1.5+0.25*10.5, e.Covariance().At(0, 0), 1e-12)
}

func TestCloneIsDeep(t *testing.T) {
	e, err := NewEnsemble(epoch, mat.NewVecDense(2, nil), diagSym(1, 1), 2)
	require.NoError(t, err)
	c := e.Clone()
	c.Particles[0].Cov.SetSym(0, 0, 7)
	c.Particles[1].Mean.SetVec(1, 7)
	require.Equal(t, 1.0, e.Particles[0].Cov.At(0, 0))
	require.Equal(t, 0.0, e.Particles[1].Mean.AtVec(1))
	require.Equal(t, e.Time, c.Time)
}

func TestValidateRejectsMalformed(t *testing.T) {
	var nilEns *Ensemble
	require.ErrorIs(t, nilEns.Validate(), core.ErrConfiguration)

	e, err := NewEnsemble(epoch, mat.NewVecDense(2, nil), diagSym(1, 1), 2)
	require.NoError(t, err)
	e.Particles[1].Cov = diagSym(1, 1, 1)
	require.ErrorIs(t, e.Validate(), core.ErrDimensionMismatch)
}
