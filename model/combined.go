package model

import (
	"fmt"
	"math/rand/v2"

	"github.com/cwbudde/algo-levy/core"
	"github.com/cwbudde/algo-levy/levy"
	"gonum.org/v1/gonum/mat"
)

// Paths holds one jump path per axis. Axes sharing a Driver hold the same
// pointer; noiseless axes hold nil.
type Paths []*levy.JumpPath

// Combined is the block-diagonal composition of independent Langevin axes.
type Combined struct {
	axes []*Langevin
}

// NewCombined stacks axes in order. The state is [x₀, v₀, x₁, v₁, …].
func NewCombined(axes ...*Langevin) (*Combined, error) {
	if len(axes) == 0 {
		return nil, fmt.Errorf("model: combined model needs at least one axis: %w", core.ErrConfiguration)
	}

	for i, a := range axes {
		if a == nil {
			return nil, fmt.Errorf("model: axis %d is nil: %w", i, core.ErrConfiguration)
		}
	}

	return &Combined{axes: append([]*Langevin(nil), axes...)}, nil
}

// Dim returns the state dimension 2·len(axes).
func (m *Combined) Dim() int { return AxisDim * len(m.axes) }

// NumAxes returns the number of stacked axes.
func (m *Combined) NumAxes() int { return len(m.axes) }

// Axis returns the i-th axis.
func (m *Combined) Axis(i int) *Langevin { return m.axes[i] }

// PositionIndices returns the state indices holding positions.
func (m *Combined) PositionIndices() []int {
	idx := make([]int, len(m.axes))
	for i := range idx {
		idx[i] = AxisDim * i
	}

	return idx
}

// VelocityIndices returns the state indices holding velocities.
func (m *Combined) VelocityIndices() []int {
	idx := make([]int, len(m.axes))
	for i := range idx {
		idx[i] = AxisDim*i + 1
	}

	return idx
}

// TransitionMatrix returns the block-diagonal F(dt).
func (m *Combined) TransitionMatrix(dt float64) *mat.Dense {
	blocks := make([]mat.Matrix, len(m.axes))
	for i, a := range m.axes {
		blocks[i] = a.TransitionMatrix(dt)
	}

	return core.BlockDiagDense(blocks...)
}

// DrawPaths draws the jump paths for one step. Axes are visited in index
// order and each distinct Driver is drawn exactly once, at its first
// reference; later axes holding the same Driver reuse that path. This is the
// fixed draw order that makes shared latent jumps reproducible.
func (m *Combined) DrawPaths(dt float64) (Paths, error) {
	if !(dt > 0) {
		return nil, fmt.Errorf("model: dt must be > 0: %v: %w", dt, core.ErrConfiguration)
	}

	paths := make(Paths, len(m.axes))
	drawn := make(map[*levy.Driver]*levy.JumpPath, len(m.axes))
	for i, a := range m.axes {
		d := a.Driver()
		if d == nil {
			continue
		}

		if p, ok := drawn[d]; ok {
			paths[i] = p
			continue
		}

		p, err := d.Draw(dt)
		if err != nil {
			return nil, err
		}

		drawn[d] = p
		paths[i] = p
	}

	return paths, nil
}

// MomentsFromPaths assembles the step moments from previously drawn paths.
// It reads no random state and is safe to call concurrently.
func (m *Combined) MomentsFromPaths(dt float64, paths Paths) (levy.Moments, error) {
	if len(paths) != len(m.axes) {
		return levy.Moments{}, fmt.Errorf("model: %d paths for %d axes: %w", len(paths), len(m.axes), core.ErrDimensionMismatch)
	}

	n := m.Dim()
	mean := mat.NewVecDense(n, nil)
	covs := make([]mat.Symmetric, len(m.axes))
	for i, a := range m.axes {
		am, err := a.MomentsFromPath(paths[i])
		if err != nil {
			return levy.Moments{}, fmt.Errorf("model: axis %d: %w", i, err)
		}

		mean.SetVec(AxisDim*i, am.Mean.AtVec(0))
		mean.SetVec(AxisDim*i+1, am.Mean.AtVec(1))
		covs[i] = am.Cov
	}

	return levy.Moments{Mean: mean, Cov: core.BlockDiag(covs...)}, nil
}

// Moments draws the step's paths and returns the combined mean and
// block-diagonal covariance.
func (m *Combined) Moments(dt float64) (levy.Moments, error) {
	paths, err := m.DrawPaths(dt)
	if err != nil {
		return levy.Moments{}, err
	}

	return m.MomentsFromPaths(dt, paths)
}

// SampleNext draws one state transition for simulation.
func (m *Combined) SampleNext(state mat.Vector, dt float64, rng *rand.Rand) (*mat.VecDense, error) {
	if state.Len() != m.Dim() {
		return nil, fmt.Errorf("model: state has %d entries, want %d: %w", state.Len(), m.Dim(), core.ErrDimensionMismatch)
	}

	mom, err := m.Moments(dt)
	if err != nil {
		return nil, err
	}

	return sampleNext(m.TransitionMatrix(dt), state, mom, rng)
}

// Positions extracts the position components of state.
func (m *Combined) Positions(state mat.Vector) []float64 {
	out := make([]float64, len(m.axes))
	for i, idx := range m.PositionIndices() {
		out[i] = state.AtVec(idx)
	}

	return out
}
