package levy

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/cwbudde/algo-levy/core"
	"gonum.org/v1/gonum/mat"
)

// Driver generates conditionally Gaussian increments of the NSM process.
// It owns a seeded generator and is the single writer of that state: Draw
// calls are serialized, and two models sharing a Driver must call it in a
// fixed order to reproduce the same jump paths.
type Driver struct {
	params   Params
	residual residual

	mu    sync.Mutex
	rng   *rand.Rand
	draws uint64
}

// Option configures a Driver.
type Option func(*Driver) error

// WithRand replaces the generator seeded from Params.Seed.
func WithRand(rng *rand.Rand) Option {
	return func(d *Driver) error {
		if rng == nil {
			return fmt.Errorf("levy: nil generator: %w", core.ErrConfiguration)
		}

		d.rng = rng

		return nil
	}
}

// NewDriver validates p and returns a Driver seeded from p.Seed.
func NewDriver(p Params, opts ...Option) (*Driver, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	p = p.withDefaults()
	d := &Driver{
		params:   p,
		residual: p.NoiseCase.strategy(),
		rng:      rand.New(rand.NewPCG(p.Seed, p.Seed^0x9e3779b97f4a7c15)),
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Params returns the validated parameters, defaults filled in.
func (d *Driver) Params() Params {
	return d.params
}

// Draws returns how many paths have been drawn so far.
func (d *Driver) Draws() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.draws
}

// Draw simulates the jump path for an interval of length dt.
//
// For every epoch the generator is read twice, first the exponential epoch
// increment and then the uniform jump time. The loop stops at the first
// epoch beyond the horizon, whose time is not drawn.
func (d *Driver) Draw(dt float64) (*JumpPath, error) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("levy: dt must be > 0 and finite: %v: %w", dt, core.ErrConfiguration)
	}

	p := d.params
	rate := p.Alpha / (p.C * dt)
	invAlpha := -1 / p.Alpha

	d.mu.Lock()
	defer d.mu.Unlock()

	jumps := make([]Jump, 0, int(p.Horizon)+int(3*math.Sqrt(p.Horizon))+1)
	gamma := 0.0
	for {
		gamma += d.rng.ExpFloat64()
		if gamma > p.Horizon {
			break
		}

		jumps = append(jumps, Jump{
			Size: math.Pow(rate*gamma, invAlpha),
			Time: d.rng.Float64() * dt,
		})
	}

	d.draws++

	eps := math.Pow(rate*p.Horizon, invAlpha)
	if p.Level == LevelFromPath && len(jumps) > 0 {
		eps = jumps[len(jumps)-1].Size
	}

	return &JumpPath{Dt: dt, Jumps: jumps, Epsilon: eps}, nil
}

// Moments maps a drawn path through kernel into the increment's mean and
// covariance, using muW as the drift of each jump. It does not touch the
// generator and may run concurrently.
func (d *Driver) Moments(path *JumpPath, kernel Kernel, muW float64) (Moments, error) {
	if path == nil {
		return Moments{}, fmt.Errorf("levy: nil jump path: %w", core.ErrConfiguration)
	}

	n := kernel.Dim()
	if n <= 0 {
		return Moments{}, fmt.Errorf("levy: kernel dimension must be > 0: %d: %w", n, core.ErrDimensionMismatch)
	}

	p := d.params

	mean := make([]float64, n)
	cov := mat.NewSymDense(n, nil)
	h := make([]float64, n)
	for _, j := range path.Jumps {
		kernel.Response(path.Dt-j.Time, h)
		ms := muW * j.Size
		vs := p.SigmaW2 * j.Size * j.Size
		for a := 0; a < n; a++ {
			mean[a] += ms * h[a]
			for b := a; b < n; b++ {
				cov.SetSym(a, b, cov.At(a, b)+vs*h[a]*h[b])
			}
		}
	}

	t := &tail{
		alpha:   p.Alpha,
		c:       p.C,
		eps:     path.Epsilon,
		muW:     muW,
		sigmaW2: p.SigmaW2,
	}

	if p.Alpha >= 1 || d.residual.needsTail() {
		t.first = make([]float64, n)
		t.second = mat.NewSymDense(n, nil)
		kernel.Integrals(path.Dt, t.first, t.second)
		t.addMean(mean, muW*t.compensator())
		d.residual.add(t, mean, cov)
	}

	return Moments{Mean: mat.NewVecDense(n, mean), Cov: cov}, nil
}

// SampleMoments draws a path for dt and returns its moments under kernel
// with the Driver's own μ_W.
func (d *Driver) SampleMoments(dt float64, kernel Kernel) (Moments, error) {
	path, err := d.Draw(dt)
	if err != nil {
		return Moments{}, err
	}

	return d.Moments(path, kernel, d.params.MuW)
}
