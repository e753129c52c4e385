package filter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-levy/core"
	"github.com/cwbudde/algo-levy/model"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// Updater conditions an ensemble on a measurement.
type Updater struct {
	meas *model.Measurement
	cfg  config
}

// NewUpdater returns an Updater for the linear-Gaussian measurement meas.
func NewUpdater(meas *model.Measurement, opts ...Option) (*Updater, error) {
	if meas == nil {
		return nil, fmt.Errorf("filter: measurement model is nil: %w", core.ErrConfiguration)
	}

	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	return &Updater{meas: meas, cfg: cfg}, nil
}

// Measurement returns the measurement model.
func (u *Updater) Measurement() *model.Measurement { return u.meas }

// Result carries the posterior ensemble together with the statistics of the
// update that produced it.
type Result struct {
	// Ensemble is the resampled posterior with uniform weights.
	Ensemble *Ensemble
	// ESS is the effective sample size of the updated weights before
	// resampling.
	ESS float64
	// LogLikelihood estimates ln p(z | earlier measurements).
	LogLikelihood float64
	// Innovation is z minus the predicted measurement of the prior mixture.
	Innovation *mat.VecDense
	// InnovationCov is the covariance of the predicted measurement mixture.
	InnovationCov *mat.SymDense
}

type correction struct {
	particle   Particle
	innovation *mat.VecDense
	s          *mat.SymDense
	logLik     float64
}

// Update returns the posterior ensemble for measurement z. If the weights
// degenerate the error is a *DegenerateError; the resampled ensemble is
// still returned when it could be formed.
func (u *Updater) Update(pred *Ensemble, z mat.Vector) (*Ensemble, error) {
	res, err := u.UpdateDetailed(pred, z)
	if res == nil {
		return nil, err
	}

	return res.Ensemble, err
}

// UpdateDetailed is Update with the update statistics.
func (u *Updater) UpdateDetailed(pred *Ensemble, z mat.Vector) (*Result, error) {
	if err := pred.Validate(); err != nil {
		return nil, err
	}

	if pred.Dim() != u.meas.StateDim() {
		return nil, fmt.Errorf("filter: ensemble dimension %d, measurement expects %d: %w", pred.Dim(), u.meas.StateDim(), core.ErrDimensionMismatch)
	}

	if z == nil || z.Len() != u.meas.Dim() {
		return nil, fmt.Errorf("filter: measurement length does not match dimension %d: %w", u.meas.Dim(), core.ErrDimensionMismatch)
	}

	for i := 0; i < z.Len(); i++ {
		if !core.IsFinite(z.AtVec(i)) {
			return nil, fmt.Errorf("filter: measurement component %d is %v: %w", i, z.AtVec(i), core.ErrConfiguration)
		}
	}

	n := pred.Len()
	prior := pred.weights()
	if _, err := Normalize(prior); err != nil {
		return nil, &DegenerateError{}
	}

	corr := make([]correction, n)
	err := forEach(context.Background(), n, u.cfg.workers, func(i int) error {
		c, err := u.correct(pred.Particles[i], z)
		if err != nil {
			return fmt.Errorf("filter: particle %d: %w", i, err)
		}

		corr[i] = c

		return nil
	})
	if err != nil {
		return nil, err
	}

	post := make([]Weight, n)
	for i := range post {
		post[i] = prior[i].MulLog(corr[i].logLik)
	}

	logZ, err := Normalize(post)
	if err != nil {
		u.cfg.logger.Warn("all particle weights vanished", slog.Time("time", pred.Time))
		return nil, &DegenerateError{}
	}

	ess := EffectiveSampleSize(post)

	idx, err := u.cfg.resampler.Resample(Probs(nil, post), n)
	if err != nil {
		return nil, err
	}

	w := UniformWeight(n)
	out := make([]Particle, n)
	for k, j := range idx {
		out[k] = corr[j].particle.Clone()
		out[k].Weight = w
	}

	res := &Result{
		Ensemble:      &Ensemble{Time: pred.Time, Particles: out},
		ESS:           ess,
		LogLikelihood: logZ,
	}

	res.Innovation, res.InnovationCov = innovationMixture(corr, Probs(nil, prior))

	u.cfg.logger.Debug("updated ensemble",
		slog.Time("time", pred.Time),
		slog.Float64("ess", ess),
		slog.Float64("log_likelihood", logZ))

	if n > 1 && ess < u.cfg.minESS {
		u.cfg.logger.Warn("ensemble degenerate",
			slog.Time("time", pred.Time),
			slog.Float64("ess", ess),
			slog.Int("particles", n))

		return res, &DegenerateError{ESS: ess, Ensemble: res.Ensemble}
	}

	return res, nil
}

// correct applies the Kalman update to one particle using the Joseph form
// P⁺ = (I−KH)P(I−KH)ᵀ + KRKᵀ. A singular innovation covariance gets one
// retry with diagonal regularization.
func (u *Updater) correct(p Particle, z mat.Vector) (correction, error) {
	h, r := u.meas.H(), u.meas.R()
	d, m := p.Mean.Len(), u.meas.Dim()

	nu := mat.NewVecDense(m, nil)
	nu.MulVec(h, p.Mean)
	nu.SubVec(z, nu)

	var hp, hph mat.Dense
	hp.Mul(h, p.Cov)
	hph.Mul(&hp, h.T())
	s := core.Symmetrize(&hph)
	s.AddSym(s, r)

	var chol mat.Cholesky
	if !chol.Factorize(s) {
		s = core.AddDiag(s, u.cfg.regularization)
		if !chol.Factorize(s) {
			return correction{}, fmt.Errorf("filter: innovation covariance not positive definite: %w", core.ErrNumericalSingularity)
		}
	}

	// K = P·Hᵀ·S⁻¹ = (S⁻¹·H·P)ᵀ
	var sinvHP mat.Dense
	if err := chol.SolveTo(&sinvHP, &hp); err != nil {
		return correction{}, fmt.Errorf("filter: %v: %w", err, core.ErrNumericalSingularity)
	}

	k := sinvHP.T()

	mean := mat.NewVecDense(d, nil)
	mean.MulVec(k, nu)
	mean.AddVec(mean, p.Mean)

	ikh := mat.NewDense(d, d, nil)
	ikh.Mul(k, h)
	ikh.Scale(-1, ikh)
	for i := 0; i < d; i++ {
		ikh.Set(i, i, ikh.At(i, i)+1)
	}

	var a, joseph, kr, krk mat.Dense
	a.Mul(ikh, p.Cov)
	joseph.Mul(&a, ikh.T())
	kr.Mul(k, r)
	krk.Mul(&kr, k.T())
	joseph.Add(&joseph, &krk)
	cov := core.Symmetrize(&joseph)

	if !core.AllFinite(mean.RawVector().Data) || !core.AllFinite(cov.RawSymmetric().Data) {
		return correction{}, fmt.Errorf("filter: posterior is not finite: %w", core.ErrNumericalSingularity)
	}

	return correction{
		particle:   Particle{Mean: mean, Cov: cov, Weight: p.Weight},
		innovation: nu,
		s:          s,
		logLik:     distmv.NormalLogProb(nu.RawVector().Data, make([]float64, m), &chol),
	}, nil
}

// innovationMixture returns the weighted mean and covariance of the
// per-particle innovations under the prior weights.
func innovationMixture(corr []correction, w []float64) (*mat.VecDense, *mat.SymDense) {
	m := corr[0].innovation.Len()
	mean := mat.NewVecDense(m, nil)
	for i, c := range corr {
		mean.AddScaledVec(mean, w[i], c.innovation)
	}

	cov := mat.NewSymDense(m, nil)
	diff := mat.NewVecDense(m, nil)
	for i, c := range corr {
		if w[i] == 0 {
			continue
		}

		cov.AddSym(cov, scaledSym(c.s, w[i]))
		diff.SubVec(c.innovation, mean)
		cov.SymRankOne(cov, w[i], diff)
	}

	return mean, cov
}
