package consistency

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-levy/core"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultSignificance is the test level used when Config leaves it zero.
const DefaultSignificance = 0.05

// Autocorrelation returns the sample autocorrelation ρ(0..maxLag) of x,
// normalized so that ρ(0) = 1. The mean is removed first. The sequence is
// zero-padded to at least 2·len(x) so the FFT yields the linear, not the
// circular, correlation.
func Autocorrelation(x []float64, maxLag int) ([]float64, error) {
	n := len(x)
	if n < 2 {
		return nil, fmt.Errorf("consistency: autocorrelation needs at least 2 samples: %d: %w", n, core.ErrConfiguration)
	}

	if maxLag < 0 || maxLag >= n {
		return nil, fmt.Errorf("consistency: max lag must be in [0, %d): %d: %w", n, maxLag, core.ErrConfiguration)
	}

	fftSize := nextPowerOf2(2 * n)
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("consistency: failed to create FFT plan: %w", err)
	}

	mean := stat.Mean(x, nil)
	padded := make([]complex128, fftSize)
	for i, v := range x {
		padded[i] = complex(v-mean, 0)
	}

	freq := make([]complex128, fftSize)
	if err := plan.Forward(freq, padded); err != nil {
		return nil, fmt.Errorf("consistency: forward FFT failed: %w", err)
	}

	re := make([]float64, fftSize)
	im := make([]float64, fftSize)
	for i, c := range freq {
		re[i], im[i] = real(c), imag(c)
	}

	power := make([]float64, fftSize)
	vecmath.Power(power, re, im)
	for i, p := range power {
		freq[i] = complex(p, 0)
	}

	lags := make([]complex128, fftSize)
	if err := plan.Inverse(lags, freq); err != nil {
		return nil, fmt.Errorf("consistency: inverse FFT failed: %w", err)
	}

	r0 := real(lags[0])
	if !(r0 > 0) {
		return nil, fmt.Errorf("consistency: sequence has zero variance: %w", core.ErrNumericalSingularity)
	}

	out := make([]float64, maxLag+1)
	for k := range out {
		out[k] = real(lags[k]) / r0
	}

	return out, nil
}

// Config holds whiteness test parameters.
type Config struct {
	// MaxLag is the number of autocorrelation lags tested. Zero selects
	// min(20, n/4).
	MaxLag int
	// Significance is the test level. Zero selects DefaultSignificance.
	Significance float64
}

// Result holds a Ljung–Box test outcome.
type Result struct {
	Lags            []float64
	Statistic       float64
	DegreesFreedom  int
	PValue          float64
	Significance    float64
	White           bool
	// ConfidenceBound is the half-width of the two-sided band, at
	// Significance, that a single lag of white noise stays inside.
	ConfidenceBound float64
}

// Whiteness tests whether innovations are serially uncorrelated with the
// Ljung–Box statistic Q = n(n+2) Σ ρ(k)²/(n−k), which is χ²(MaxLag) under
// the null hypothesis.
func Whiteness(innovations []float64, cfg Config) (Result, error) {
	n := len(innovations)
	if n < 4 {
		return Result{}, fmt.Errorf("consistency: whiteness needs at least 4 samples: %d: %w", n, core.ErrConfiguration)
	}

	if cfg.MaxLag == 0 {
		cfg.MaxLag = min(20, n/4)
	}

	if cfg.Significance == 0 {
		cfg.Significance = DefaultSignificance
	}

	if !(cfg.Significance > 0 && cfg.Significance < 1) {
		return Result{}, fmt.Errorf("consistency: significance must be in (0, 1): %v: %w", cfg.Significance, core.ErrConfiguration)
	}

	rho, err := Autocorrelation(innovations, cfg.MaxLag)
	if err != nil {
		return Result{}, err
	}

	fn := float64(n)
	var q float64
	for k := 1; k <= cfg.MaxLag; k++ {
		q += rho[k] * rho[k] / (fn - float64(k))
	}

	q *= fn * (fn + 2)

	chi := distuv.ChiSquared{K: float64(cfg.MaxLag)}
	p := chi.Survival(q)

	return Result{
		Lags:            rho,
		Statistic:       q,
		DegreesFreedom:  cfg.MaxLag,
		PValue:          p,
		Significance:    cfg.Significance,
		White:           p >= cfg.Significance,
		ConfidenceBound: distuv.UnitNormal.Quantile(1-cfg.Significance/2) / math.Sqrt(fn),
	}, nil
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
