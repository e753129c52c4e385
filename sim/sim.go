package sim

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/cwbudde/algo-levy/core"
	"github.com/cwbudde/algo-levy/model"
	"gonum.org/v1/gonum/mat"
)

// Truth is a simulated trajectory. States[0] is the initial state at
// Times[0]; Measurements[i] observes States[i+1] at Times[i+1].
type Truth struct {
	Times        []time.Time
	States       []*mat.VecDense
	Measurements []*mat.VecDense
}

// Steps returns the number of simulated transitions.
func (t *Truth) Steps() int { return len(t.Measurements) }

// Positions returns the position components of every state after the first,
// one row per step.
func (t *Truth) Positions(m *model.Combined) [][]float64 {
	out := make([][]float64, 0, len(t.States)-1)
	for _, s := range t.States[1:] {
		out = append(out, m.Positions(s))
	}

	return out
}

// Config describes a simulation run.
type Config struct {
	Start time.Time
	Dt    float64
	Steps int
}

func (c Config) validate() error {
	if !(c.Dt > 0) || !core.IsFinite(c.Dt) {
		return fmt.Errorf("sim: dt must be > 0 and finite: %v: %w", c.Dt, core.ErrConfiguration)
	}

	if c.Steps <= 0 {
		return fmt.Errorf("sim: steps must be > 0: %d: %w", c.Steps, core.ErrConfiguration)
	}

	return nil
}

// Step returns the duration of one step.
func (c Config) Step() time.Duration {
	return time.Duration(c.Dt * float64(time.Second))
}

// Simulate draws a trajectory of cfg.Steps transitions starting at x0 and
// observes every new state through meas. The model's Drivers supply the
// jumps; rng supplies the conditional Gaussian and measurement noise.
func Simulate(m *model.Combined, meas *model.Measurement, x0 mat.Vector, cfg Config, rng *rand.Rand) (*Truth, error) {
	if m == nil || meas == nil {
		return nil, fmt.Errorf("sim: model and measurement are required: %w", core.ErrConfiguration)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if x0 == nil || x0.Len() != m.Dim() {
		return nil, fmt.Errorf("sim: initial state does not match dimension %d: %w", m.Dim(), core.ErrDimensionMismatch)
	}

	if meas.StateDim() != m.Dim() {
		return nil, fmt.Errorf("sim: measurement expects dimension %d, model has %d: %w", meas.StateDim(), m.Dim(), core.ErrDimensionMismatch)
	}

	tr := &Truth{
		Times:        make([]time.Time, 0, cfg.Steps+1),
		States:       make([]*mat.VecDense, 0, cfg.Steps+1),
		Measurements: make([]*mat.VecDense, 0, cfg.Steps),
	}

	tr.Times = append(tr.Times, cfg.Start)
	tr.States = append(tr.States, mat.VecDenseCopyOf(x0))

	step := cfg.Step()
	x := tr.States[0]
	for k := 1; k <= cfg.Steps; k++ {
		next, err := m.SampleNext(x, cfg.Dt, rng)
		if err != nil {
			return nil, fmt.Errorf("sim: step %d: %w", k, err)
		}

		z, err := meas.Observe(next, rng)
		if err != nil {
			return nil, fmt.Errorf("sim: step %d: %w", k, err)
		}

		tr.Times = append(tr.Times, cfg.Start.Add(time.Duration(k)*step))
		tr.States = append(tr.States, next)
		tr.Measurements = append(tr.Measurements, z)
		x = next
	}

	return tr, nil
}
