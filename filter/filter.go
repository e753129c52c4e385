package filter

import (
	"errors"
	"fmt"
	"time"

	"github.com/cwbudde/algo-levy/core"
	"github.com/cwbudde/algo-levy/model"
	"gonum.org/v1/gonum/mat"
)

// Filter runs predict and update in sequence and records the posterior track.
type Filter struct {
	pred  *Predictor
	upd   *Updater
	ens   *Ensemble
	track Track
	last  *Result
}

// New returns a Filter starting from initial. The options apply to both
// stages.
func New(m *model.Combined, meas *model.Measurement, initial *Ensemble, opts ...Option) (*Filter, error) {
	if m != nil && meas != nil && meas.StateDim() != m.Dim() {
		return nil, fmt.Errorf("filter: measurement expects dimension %d, model has %d: %w", meas.StateDim(), m.Dim(), core.ErrDimensionMismatch)
	}

	if err := initial.Validate(); err != nil {
		return nil, err
	}

	if m != nil && initial.Dim() != m.Dim() {
		return nil, fmt.Errorf("filter: initial dimension %d, model dimension %d: %w", initial.Dim(), m.Dim(), core.ErrDimensionMismatch)
	}

	pred, err := NewPredictor(m, opts...)
	if err != nil {
		return nil, err
	}

	upd, err := NewUpdater(meas, opts...)
	if err != nil {
		return nil, err
	}

	f := &Filter{pred: pred, upd: upd, ens: initial.Clone()}
	if err := f.track.Append(f.ens); err != nil {
		return nil, err
	}

	return f, nil
}

// Step predicts to t, updates with z and returns the posterior. On a
// degenerate update the resampled ensemble still becomes current and the
// *DegenerateError is returned alongside it. Any other error leaves the
// filter unchanged.
func (f *Filter) Step(t time.Time, z mat.Vector) (*Ensemble, error) {
	prior, err := f.pred.Predict(f.ens, t)
	if err != nil {
		return nil, err
	}

	res, err := f.upd.UpdateDetailed(prior, z)
	var degenerate *DegenerateError
	if err != nil && (!errors.As(err, &degenerate) || res == nil) {
		return nil, err
	}

	if appendErr := f.track.Append(res.Ensemble); appendErr != nil {
		return nil, appendErr
	}

	f.ens = res.Ensemble
	f.last = res

	return res.Ensemble, err
}

// Ensemble returns the current posterior.
func (f *Filter) Ensemble() *Ensemble { return f.ens }

// Track returns every posterior so far, starting with the initial ensemble.
func (f *Filter) Track() *Track { return &f.track }

// LastResult returns the statistics of the latest update, or nil before the
// first step.
func (f *Filter) LastResult() *Result { return f.last }
