package model

import (
	"math/rand/v2"
	"testing"

	"github.com/cwbudde/algo-levy/core"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewMeasurementValidation(t *testing.T) {
	r1 := mat.NewSymDense(1, []float64{1})
	tests := []struct {
		name    string
		dim     int
		mapping []int
		noise   mat.Symmetric
		want    error
	}{
		{"zero state", 0, []int{0}, r1, core.ErrConfiguration},
		{"empty mapping", 4, nil, r1, core.ErrConfiguration},
		{"nil noise", 4, []int{0}, nil, core.ErrConfiguration},
		{"index out of range", 4, []int{4}, r1, core.ErrDimensionMismatch},
		{"negative index", 4, []int{-1}, r1, core.ErrDimensionMismatch},
		{"noise shape", 4, []int{0, 2}, r1, core.ErrDimensionMismatch},
		{"indefinite noise", 4, []int{0, 2}, mat.NewSymDense(2, []float64{1, 2, 2, 1}), core.ErrConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMeasurement(tt.dim, tt.mapping, tt.noise)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPositionMeasurement(t *testing.T) {
	a, _ := NewLangevin(0.1, nil)
	b, _ := NewLangevin(0.1, nil)
	m, err := NewCombined(a, b)
	require.NoError(t, err)

	meas, err := NewPositionMeasurement(m, 0.25)
	require.NoError(t, err)
	require.Equal(t, 2, meas.Dim())
	require.Equal(t, 4, meas.StateDim())
	require.Equal(t, []int{0, 2}, meas.Mapping())
	require.Equal(t, 0.25, meas.R().At(1, 1))
	require.Equal(t, 1.0, meas.H().At(1, 2))

	x := mat.NewVecDense(4, []float64{5, 1, -2, 1})
	z, err := meas.Predict(x)
	require.NoError(t, err)
	require.Equal(t, []float64{5, -2}, z.RawVector().Data)

	obs, err := meas.Observe(x, rand.New(rand.NewPCG(3, 4)))
	require.NoError(t, err)
	require.NotEqual(t, z.RawVector().Data, obs.RawVector().Data)

	_, err = meas.Predict(mat.NewVecDense(2, nil))
	require.ErrorIs(t, err, core.ErrDimensionMismatch)

	_, err = NewPositionMeasurement(m, -1)
	require.ErrorIs(t, err, core.ErrConfiguration)
}

func TestObserveNoiseless(t *testing.T) {
	meas, err := NewMeasurement(2, []int{1}, mat.NewSymDense(1, []float64{0}))
	require.NoError(t, err)
	z, err := meas.Observe(mat.NewVecDense(2, []float64{1, 7}), nil)
	require.NoError(t, err)
	require.Equal(t, 7.0, z.AtVec(0))
}
