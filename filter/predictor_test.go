package filter

import (
	"testing"

	"github.com/cwbudde/algo-levy/core"
	"github.com/cwbudde/algo-levy/internal/testutil"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestPredictNoiselessIsKalmanPredict(t *testing.T) {
	m := newNoiseless(t, 2)
	p, err := NewPredictor(m)
	require.NoError(t, err)

	mean := mat.NewVecDense(4, []float64{1, 0.5, -2, 0.1})
	cov := mat.NewSymDense(4, []float64{
		2, 0.3, 0, 0,
		0.3, 1, 0, 0,
		0, 0, 4, -0.2,
		0, 0, -0.2, 0.5,
	})
	ens, err := NewEnsemble(epoch, mean, cov, 3)
	require.NoError(t, err)

	out, err := p.Predict(ens, at(1.5))
	require.NoError(t, err)
	require.Equal(t, at(1.5), out.Time)

	f := m.TransitionMatrix(1.5)
	var wantMean mat.VecDense
	wantMean.MulVec(f, mean)
	var fp, wantCov mat.Dense
	fp.Mul(f, cov)
	wantCov.Mul(&fp, f.T())

	for _, pt := range out.Particles {
		testutil.RequireSliceNearlyEqual(t, pt.Mean.RawVector().Data, wantMean.RawVector().Data, 1e-12)
		testutil.RequireMatrixNearlyEqual(t, pt.Cov, &wantCov, 1e-12)
		testutil.RequireSymmetricPSD(t, pt.Cov, 1e-12)
	}
}

func TestPredictKeepsWeights(t *testing.T) {
	m := newTracker(t, 0.8, 4)
	p, err := NewPredictor(m)
	require.NoError(t, err)

	means := mat.NewDense(4, 2, nil)
	ens, err := FromMatrices(epoch, means, []mat.Symmetric{diagSym(1, 1, 1, 1), diagSym(1, 1, 1, 1)}, []float64{0.9, 0.1})
	require.NoError(t, err)
	out, err := p.Predict(ens, at(1))
	require.NoError(t, err)
	for i := range ens.Particles {
		require.Equal(t, ens.Particles[i].Weight, out.Particles[i].Weight)
		testutil.RequireSymmetricPSD(t, out.Particles[i].Cov, 1e-9)
	}
	// Distinct particles receive distinct jump paths.
	require.NotEqual(t, out.Particles[0].Cov.RawSymmetric().Data, out.Particles[1].Cov.RawSymmetric().Data)
}

func TestPredictRejectsBadInput(t *testing.T) {
	m := newNoiseless(t, 1)
	p, err := NewPredictor(m)
	require.NoError(t, err)
	ens, err := NewEnsemble(at(5), mat.NewVecDense(2, nil), diagSym(1, 1), 2)
	require.NoError(t, err)

	_, err = p.Predict(ens, at(5))
	require.ErrorIs(t, err, core.ErrTemporalOrder)
	_, err = p.Predict(ens, at(4))
	require.ErrorIs(t, err, core.ErrTemporalOrder)
	_, err = p.Predict(nil, at(6))
	require.ErrorIs(t, err, core.ErrConfiguration)

	wide, err := NewEnsemble(at(5), mat.NewVecDense(4, nil), diagSym(1, 1, 1, 1), 2)
	require.NoError(t, err)
	_, err = p.Predict(wide, at(6))
	require.ErrorIs(t, err, core.ErrDimensionMismatch)

	_, err = NewPredictor(nil)
	require.ErrorIs(t, err, core.ErrConfiguration)
	_, err = NewPredictor(m, WithWorkers(0))
	require.ErrorIs(t, err, core.ErrConfiguration)
}

func TestPredictIndependentOfWorkers(t *testing.T) {
	run := func(workers int) *Ensemble {
		p, err := NewPredictor(newTracker(t, 1.4, 21), WithWorkers(workers))
		require.NoError(t, err)
		ens, err := NewEnsemble(epoch, mat.NewVecDense(4, nil), diagSym(1, 1, 1, 1), 32)
		require.NoError(t, err)
		for k := 1; k <= 3; k++ {
			ens, err = p.Predict(ens, at(float64(k)))
			require.NoError(t, err)
		}
		return ens
	}
	serial, parallel := run(1), run(8)
	for i := range serial.Particles {
		require.Equal(t, serial.Particles[i].Mean.RawVector().Data, parallel.Particles[i].Mean.RawVector().Data)
		require.Equal(t, serial.Particles[i].Cov.RawSymmetric().Data, parallel.Particles[i].Cov.RawSymmetric().Data)
	}
}
