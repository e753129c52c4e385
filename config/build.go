package config

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/cwbudde/algo-levy/filter"
	"github.com/cwbudde/algo-levy/filter/resample"
	"github.com/cwbudde/algo-levy/levy"
	"github.com/cwbudde/algo-levy/model"
	"github.com/cwbudde/algo-levy/sim"
	"gonum.org/v1/gonum/mat"
)

// DriverParams converts d into levy.Params with its seed shifted by offset.
func (d DriverConfig) DriverParams(offset uint64) (levy.Params, error) {
	nc, err := levy.ParseNoiseCase(d.NoiseCase)
	if err != nil {
		return levy.Params{}, err
	}

	level, err := levy.ParseResidualLevel(d.Level)
	if err != nil {
		return levy.Params{}, err
	}

	return levy.Params{
		Alpha:     d.Alpha,
		C:         d.C,
		MuW:       d.MuW,
		SigmaW2:   d.SigmaW2,
		NoiseCase: nc,
		Seed:      d.Seed + offset,
		Horizon:   d.Horizon,
		Level:     level,
	}, nil
}

// Model builds the combined model. Every call creates fresh Drivers, one per
// named driver, with seeds shifted by offset; axes naming the same driver
// share it. Use distinct offsets for the truth and the filter so they draw
// independent jumps.
func (s *Scenario) Model(offset uint64) (*model.Combined, error) {
	drivers := make(map[string]*levy.Driver, len(s.Drivers))
	axes := make([]*model.Langevin, len(s.Axes))
	for i, a := range s.Axes {
		var d *levy.Driver
		if a.Driver != "" {
			if d = drivers[a.Driver]; d == nil {
				cfg, ok := s.Drivers[a.Driver]
				if !ok {
					return nil, fmt.Errorf("config: axis %d references unknown driver %q", i, a.Driver)
				}

				p, err := cfg.DriverParams(offset)
				if err != nil {
					return nil, fmt.Errorf("config: driver %q: %w", a.Driver, err)
				}

				if d, err = levy.NewDriver(p); err != nil {
					return nil, fmt.Errorf("config: driver %q: %w", a.Driver, err)
				}

				drivers[a.Driver] = d
			}
		}

		var opts []model.AxisOption
		if a.MuW != nil {
			opts = append(opts, model.WithMuW(*a.MuW))
		}

		ax, err := model.NewLangevin(a.Theta, d, opts...)
		if err != nil {
			return nil, fmt.Errorf("config: axis %d: %w", i, err)
		}

		axes[i] = ax
	}

	return model.NewCombined(axes...)
}

// MeasurementFor returns the position measurement for m.
func (s *Scenario) MeasurementFor(m *model.Combined) (*model.Measurement, error) {
	return model.NewPositionMeasurement(m, s.Measurement.Variance)
}

// FilterOptions translates the filter settings into filter options.
func (s *Scenario) FilterOptions(logger *slog.Logger) ([]filter.Option, error) {
	r, err := resample.New(s.Filter.Resampler, s.Filter.Seed)
	if err != nil {
		return nil, err
	}

	opts := []filter.Option{filter.WithResampler(r)}
	if s.Filter.MinESS > 0 {
		opts = append(opts, filter.WithMinESS(s.Filter.MinESS))
	}

	if s.Filter.Workers > 0 {
		opts = append(opts, filter.WithWorkers(s.Filter.Workers))
	}

	if s.Filter.Regularization > 0 {
		opts = append(opts, filter.WithRegularization(s.Filter.Regularization))
	}

	if logger != nil {
		opts = append(opts, filter.WithLogger(logger))
	}

	return opts, nil
}

// InitialEnsemble returns the filter's starting ensemble at t: zero mean and
// InitialVariance on every state component.
func (s *Scenario) InitialEnsemble(t time.Time, dim int) (*filter.Ensemble, error) {
	cov := mat.NewSymDense(dim, nil)
	for i := 0; i < dim; i++ {
		cov.SetSym(i, i, s.Filter.InitialVariance)
	}

	return filter.NewEnsemble(t, mat.NewVecDense(dim, nil), cov, s.Filter.Particles)
}

// SimConfig returns the simulation settings starting at start.
func (s *Scenario) SimConfig(start time.Time) sim.Config {
	return sim.Config{Start: start, Dt: s.Simulation.Dt, Steps: s.Simulation.Steps}
}

// SimRand returns the generator for the simulation's Gaussian noise.
func (s *Scenario) SimRand() *rand.Rand {
	return rand.New(rand.NewPCG(s.Simulation.Seed, s.Simulation.Seed^0x5851f42d4c957f2d))
}
