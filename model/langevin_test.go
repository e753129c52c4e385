package model

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/cwbudde/algo-levy/core"
	"github.com/cwbudde/algo-levy/internal/testutil"
	"github.com/cwbudde/algo-levy/levy"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func newDriver(t *testing.T, nc levy.NoiseCase) *levy.Driver {
	t.Helper()
	d, err := levy.NewDriver(levy.Params{
		Alpha:     1.4,
		C:         10,
		MuW:       0.2,
		SigmaW2:   1,
		NoiseCase: nc,
		Seed:      42,
		Horizon:   40,
	})
	require.NoError(t, err)
	return d
}

func TestNewLangevinValidation(t *testing.T) {
	for _, theta := range []float64{0, -0.5, math.Inf(1), math.NaN()} {
		_, err := NewLangevin(theta, nil)
		require.ErrorIs(t, err, core.ErrConfiguration, "theta=%v", theta)
	}
	_, err := NewLangevin(0.1, nil, WithMuW(math.NaN()))
	require.ErrorIs(t, err, core.ErrConfiguration)
}

func TestLangevinTransitionMatrix(t *testing.T) {
	a, err := NewLangevin(0.15, nil)
	require.NoError(t, err)

	const dt = 1.0
	e := math.Exp(-0.15 * dt)
	want := mat.NewDense(2, 2, []float64{1, (1 - e) / 0.15, 0, e})
	testutil.RequireMatrixNearlyEqual(t, a.TransitionMatrix(dt), want, 1e-14)

	// θ·dt → 0 recovers the constant-velocity matrix.
	b, err := NewLangevin(1e-12, nil)
	require.NoError(t, err)
	testutil.RequireMatrixNearlyEqual(t, b.TransitionMatrix(2), mat.NewDense(2, 2, []float64{1, 2, 0, 1}), 1e-9)
}

func TestLangevinIntegralsMatchQuadrature(t *testing.T) {
	for _, theta := range []float64{0.05, 0.15, 1, 4} {
		a, err := NewLangevin(theta, nil)
		require.NoError(t, err)
		const dt = 1.3
		first := make([]float64, 2)
		second := mat.NewSymDense(2, nil)
		a.Integrals(dt, first, second)

		// Composite Simpson on h and hhᵀ.
		const steps = 2000
		step := dt / steps
		var q [2]float64
		var qq [3]float64
		h := make([]float64, 2)
		for i := 0; i <= steps; i++ {
			w := 2.0
			switch {
			case i == 0 || i == steps:
				w = 1
			case i%2 == 1:
				w = 4
			}
			a.Response(float64(i)*step, h)
			q[0] += w * h[0]
			q[1] += w * h[1]
			qq[0] += w * h[0] * h[0]
			qq[1] += w * h[0] * h[1]
			qq[2] += w * h[1] * h[1]
		}
		s := step / 3
		require.InDelta(t, q[0]*s, first[0], 1e-9, "theta=%v", theta)
		require.InDelta(t, q[1]*s, first[1], 1e-9, "theta=%v", theta)
		require.InDelta(t, qq[0]*s, second.At(0, 0), 1e-9, "theta=%v", theta)
		require.InDelta(t, qq[1]*s, second.At(0, 1), 1e-9, "theta=%v", theta)
		require.InDelta(t, qq[2]*s, second.At(1, 1), 1e-9, "theta=%v", theta)
	}
}

func TestLangevinMuW(t *testing.T) {
	d := newDriver(t, levy.NoiseNone)
	a, err := NewLangevin(0.1, d)
	require.NoError(t, err)
	require.Equal(t, 0.2, a.MuW())

	b, err := NewLangevin(0.1, d, WithMuW(-1))
	require.NoError(t, err)
	require.Equal(t, -1.0, b.MuW())

	c, err := NewLangevin(0.1, nil)
	require.NoError(t, err)
	require.Zero(t, c.MuW())
}

func TestLangevinNoiselessMoments(t *testing.T) {
	a, err := NewLangevin(0.3, nil)
	require.NoError(t, err)
	m, err := a.Moments(1)
	require.NoError(t, err)
	require.Zero(t, mat.Norm(m.Mean, 2))
	require.Zero(t, mat.Norm(m.Cov, 1))

	_, err = a.Moments(0)
	require.ErrorIs(t, err, core.ErrConfiguration)
}

func TestLangevinSampleNext(t *testing.T) {
	a, err := NewLangevin(0.15, newDriver(t, levy.NoiseGaussian))
	require.NoError(t, err)
	rng := rand.New(rand.NewPCG(1, 2))

	x, err := a.SampleNext(mat.NewVecDense(2, []float64{0, 1}), 1, rng)
	require.NoError(t, err)
	testutil.RequireFinite(t, x.RawVector().Data)

	_, err = a.SampleNext(mat.NewVecDense(3, nil), 1, rng)
	require.ErrorIs(t, err, core.ErrDimensionMismatch)

	_, err = a.SampleNext(mat.NewVecDense(2, nil), 1, nil)
	require.ErrorIs(t, err, core.ErrConfiguration)
}
