package filter

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime"

	"github.com/cwbudde/algo-levy/core"
	"github.com/cwbudde/algo-levy/filter/resample"
)

const (
	// DefaultRegularization is the diagonal jitter added to a singular
	// innovation covariance before the single retry.
	DefaultRegularization = 1e-9
	// DefaultMinESS is the effective sample size below which an update is
	// reported as degenerate. An ensemble whose mass sits on one particle has
	// ESS 1.
	DefaultMinESS = 1 + 1e-6
	// DefaultSeed seeds the resampler when no generator is configured.
	DefaultSeed = 1
)

type config struct {
	workers        int
	logger         *slog.Logger
	resampler      resample.Resampler
	regularization float64
	minESS         float64
}

func defaultConfig() config {
	return config{
		workers:        runtime.GOMAXPROCS(0),
		logger:         slog.New(slog.DiscardHandler),
		regularization: DefaultRegularization,
		minESS:         DefaultMinESS,
	}
}

// Option configures a Predictor, Updater or Filter. Options that do not
// apply to a stage are ignored by it.
type Option func(*config) error

func applyOptions(opts []Option) (config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return config{}, err
		}
	}

	if cfg.resampler == nil {
		cfg.resampler = resample.NewSystematic(DefaultSeed)
	}

	return cfg, nil
}

// WithWorkers bounds the number of goroutines used for per-particle work.
func WithWorkers(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return fmt.Errorf("filter: workers must be >= 1: %d: %w", n, core.ErrConfiguration)
		}

		c.workers = n

		return nil
	}
}

// WithLogger sets the structured logger. The default discards all records.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) error {
		if l == nil {
			return fmt.Errorf("filter: logger is nil: %w", core.ErrConfiguration)
		}

		c.logger = l

		return nil
	}
}

// WithResampler replaces the default systematic resampler.
func WithResampler(r resample.Resampler) Option {
	return func(c *config) error {
		if r == nil {
			return fmt.Errorf("filter: resampler is nil: %w", core.ErrConfiguration)
		}

		c.resampler = r

		return nil
	}
}

// WithRand drives systematic resampling from rng.
func WithRand(rng *rand.Rand) Option {
	return func(c *config) error {
		if rng == nil {
			return fmt.Errorf("filter: generator is nil: %w", core.ErrConfiguration)
		}

		c.resampler = &resample.Systematic{Rand: rng}

		return nil
	}
}

// WithRegularization sets the diagonal jitter used when an innovation
// covariance fails to factorize.
func WithRegularization(eps float64) Option {
	return func(c *config) error {
		if !(eps > 0) || !core.IsFinite(eps) {
			return fmt.Errorf("filter: regularization must be finite and > 0: %v: %w", eps, core.ErrConfiguration)
		}

		c.regularization = eps

		return nil
	}
}

// WithMinESS sets the degeneracy threshold on the effective sample size.
// Zero disables the check.
func WithMinESS(v float64) Option {
	return func(c *config) error {
		if !(v >= 0) || !core.IsFinite(v) {
			return fmt.Errorf("filter: minimum ESS must be finite and >= 0: %v: %w", v, core.ErrConfiguration)
		}

		c.minESS = v

		return nil
	}
}
