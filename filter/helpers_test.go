package filter

import (
	"testing"
	"time"

	"github.com/cwbudde/algo-levy/levy"
	"github.com/cwbudde/algo-levy/model"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func at(seconds float64) time.Time {
	return epoch.Add(time.Duration(seconds * float64(time.Second)))
}

// newTracker returns a two-axis model whose axes share one Driver.
func newTracker(t testing.TB, alpha float64, seed uint64) *model.Combined {
	t.Helper()
	d, err := levy.NewDriver(levy.Params{
		Alpha:     alpha,
		C:         1,
		SigmaW2:   1,
		NoiseCase: levy.NoiseGaussian,
		Seed:      seed,
		Horizon:   30,
	})
	require.NoError(t, err)
	ax, err := model.NewLangevin(0.5, d)
	require.NoError(t, err)
	ay, err := model.NewLangevin(0.5, d)
	require.NoError(t, err)
	m, err := model.NewCombined(ax, ay)
	require.NoError(t, err)
	return m
}

func newNoiseless(t testing.TB, axes int) *model.Combined {
	t.Helper()
	ls := make([]*model.Langevin, axes)
	for i := range ls {
		var err error
		ls[i], err = model.NewLangevin(0.3, nil)
		require.NoError(t, err)
	}
	m, err := model.NewCombined(ls...)
	require.NoError(t, err)
	return m
}

func diagSym(v ...float64) *mat.SymDense {
	s := mat.NewSymDense(len(v), nil)
	for i, x := range v {
		s.SetSym(i, i, x)
	}
	return s
}

func mustPositionMeasurement(t testing.TB, m *model.Combined) *model.Measurement {
	t.Helper()
	meas, err := model.NewPositionMeasurement(m, 1)
	require.NoError(t, err)
	return meas
}
