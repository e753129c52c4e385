package model

import (
	"fmt"
	"math/rand/v2"

	"github.com/cwbudde/algo-levy/core"
	"gonum.org/v1/gonum/mat"
)

// Measurement is a linear-Gaussian observation of selected state components.
type Measurement struct {
	stateDim int
	mapping  []int
	h        *mat.Dense
	r        *mat.SymDense
}

// NewMeasurement observes the state components listed in mapping with noise
// covariance noise, which must be len(mapping) square and positive semi-definite.
func NewMeasurement(stateDim int, mapping []int, noise mat.Symmetric) (*Measurement, error) {
	if stateDim <= 0 {
		return nil, fmt.Errorf("model: state dimension must be > 0: %d: %w", stateDim, core.ErrConfiguration)
	}

	if len(mapping) == 0 {
		return nil, fmt.Errorf("model: measurement mapping is empty: %w", core.ErrConfiguration)
	}

	if noise == nil {
		return nil, fmt.Errorf("model: measurement noise is nil: %w", core.ErrConfiguration)
	}

	if noise.SymmetricDim() != len(mapping) {
		return nil, fmt.Errorf("model: noise covariance is %dx%d for %d measured components: %w",
			noise.SymmetricDim(), noise.SymmetricDim(), len(mapping), core.ErrDimensionMismatch)
	}

	h := mat.NewDense(len(mapping), stateDim, nil)
	for row, idx := range mapping {
		if idx < 0 || idx >= stateDim {
			return nil, fmt.Errorf("model: mapped index %d outside state of dimension %d: %w", idx, stateDim, core.ErrDimensionMismatch)
		}

		h.Set(row, idx, 1)
	}

	for i := 0; i < noise.SymmetricDim(); i++ {
		if !core.IsFinite(noise.At(i, i)) {
			return nil, fmt.Errorf("model: noise covariance has non-finite diagonal: %w", core.ErrConfiguration)
		}
	}

	if !core.IsPSD(noise, 1e-12) {
		return nil, fmt.Errorf("model: noise covariance is not positive semi-definite: %w", core.ErrConfiguration)
	}

	r := mat.NewSymDense(noise.SymmetricDim(), nil)
	r.CopySym(noise)

	return &Measurement{
		stateDim: stateDim,
		mapping:  append([]int(nil), mapping...),
		h:        h,
		r:        r,
	}, nil
}

// NewPositionMeasurement observes every position of m with independent
// noise of the given variance.
func NewPositionMeasurement(m *Combined, variance float64) (*Measurement, error) {
	if !(variance >= 0) {
		return nil, fmt.Errorf("model: measurement variance must be >= 0: %v: %w", variance, core.ErrConfiguration)
	}

	idx := m.PositionIndices()
	r := mat.NewSymDense(len(idx), nil)
	for i := range idx {
		r.SetSym(i, i, variance)
	}

	return NewMeasurement(m.Dim(), idx, r)
}

// Dim returns the measurement dimension.
func (m *Measurement) Dim() int { return len(m.mapping) }

// StateDim returns the state dimension H expects.
func (m *Measurement) StateDim() int { return m.stateDim }

// Mapping returns the measured state indices.
func (m *Measurement) Mapping() []int { return append([]int(nil), m.mapping...) }

// H returns the observation matrix.
func (m *Measurement) H() mat.Matrix { return m.h }

// R returns the measurement noise covariance.
func (m *Measurement) R() mat.Symmetric { return m.r }

// Predict returns H·state.
func (m *Measurement) Predict(state mat.Vector) (*mat.VecDense, error) {
	if state.Len() != m.stateDim {
		return nil, fmt.Errorf("model: state has %d entries, measurement expects %d: %w", state.Len(), m.stateDim, core.ErrDimensionMismatch)
	}

	out := mat.NewVecDense(m.Dim(), nil)
	out.MulVec(m.h, state)

	return out, nil
}

// Observe draws z = H·state + r with r ~ N(0, R).
func (m *Measurement) Observe(state mat.Vector, rng *rand.Rand) (*mat.VecDense, error) {
	z, err := m.Predict(state)
	if err != nil {
		return nil, err
	}

	if isZero(m.r) {
		return z, nil
	}

	if rng == nil {
		return nil, fmt.Errorf("model: sampling needs a generator: %w", core.ErrConfiguration)
	}

	l, err := core.SqrtPSD(m.r)
	if err != nil {
		return nil, err
	}

	w := mat.NewVecDense(m.Dim(), nil)
	for i := 0; i < m.Dim(); i++ {
		w.SetVec(i, rng.NormFloat64())
	}

	var noise mat.VecDense
	noise.MulVec(l, w)
	z.AddVec(z, &noise)

	return z, nil
}
