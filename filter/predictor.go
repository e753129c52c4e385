package filter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cwbudde/algo-levy/core"
	"github.com/cwbudde/algo-levy/model"
	"gonum.org/v1/gonum/mat"
)

// Predictor propagates an ensemble forward in time.
type Predictor struct {
	model *model.Combined
	cfg   config
}

// NewPredictor returns a Predictor for m.
func NewPredictor(m *model.Combined, opts ...Option) (*Predictor, error) {
	if m == nil {
		return nil, fmt.Errorf("filter: model is nil: %w", core.ErrConfiguration)
	}

	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	return &Predictor{model: m, cfg: cfg}, nil
}

// Model returns the transition model.
func (p *Predictor) Model() *model.Combined { return p.model }

// Predict returns the ensemble propagated to t. Every particle receives its
// own jump paths, drawn serially in particle order; the Kalman propagation
//
//	m' = F·m + μ,  P' = F·P·Fᵀ + Σ
//
// then runs in parallel. Weights are carried over unchanged. t must be
// strictly later than ens.Time.
func (p *Predictor) Predict(ens *Ensemble, t time.Time) (*Ensemble, error) {
	if err := ens.Validate(); err != nil {
		return nil, err
	}

	if ens.Dim() != p.model.Dim() {
		return nil, fmt.Errorf("filter: ensemble dimension %d, model dimension %d: %w", ens.Dim(), p.model.Dim(), core.ErrDimensionMismatch)
	}

	if !t.After(ens.Time) {
		return nil, fmt.Errorf("filter: predict to %s from %s: %w", t.Format(time.RFC3339Nano), ens.Time.Format(time.RFC3339Nano), core.ErrTemporalOrder)
	}

	dt := t.Sub(ens.Time).Seconds()
	f := p.model.TransitionMatrix(dt)

	paths := make([]model.Paths, ens.Len())
	for i := range paths {
		var err error
		if paths[i], err = p.model.DrawPaths(dt); err != nil {
			return nil, fmt.Errorf("filter: particle %d: %w", i, err)
		}
	}

	out := make([]Particle, ens.Len())
	err := forEach(context.Background(), ens.Len(), p.cfg.workers, func(i int) error {
		mom, err := p.model.MomentsFromPaths(dt, paths[i])
		if err != nil {
			return fmt.Errorf("filter: particle %d: %w", i, err)
		}

		out[i] = propagate(ens.Particles[i], f, mom.Mean, mom.Cov)

		return nil
	})
	if err != nil {
		return nil, err
	}

	p.cfg.logger.Debug("predicted ensemble",
		slog.Time("time", t),
		slog.Float64("dt", dt),
		slog.Int("particles", len(out)))

	return &Ensemble{Time: t, Particles: out}, nil
}

func propagate(p Particle, f mat.Matrix, mu *mat.VecDense, sigma *mat.SymDense) Particle {
	d := p.Mean.Len()
	mean := mat.NewVecDense(d, nil)
	mean.MulVec(f, p.Mean)
	mean.AddVec(mean, mu)

	var fp, fpf mat.Dense
	fp.Mul(f, p.Cov)
	fpf.Mul(&fp, f.T())
	cov := core.Symmetrize(&fpf)
	cov.AddSym(cov, sigma)

	return Particle{Mean: mean, Cov: cov, Weight: p.Weight}
}
