package resample

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/cwbudde/algo-levy/core"
	"gonum.org/v1/gonum/floats"
)

// Resampler selects n particle indices, with repetition, in proportion to weights.
type Resampler interface {
	Resample(weights []float64, n int) ([]int, error)
}

// cumulative validates weights and returns their running sums scaled to
// [0, n], together with the index of the last positive weight. Sums within a
// few ulps of an integer are snapped to it, so equal weights give exactly
// 1, 2, …, n.
func cumulative(weights []float64, n int) ([]float64, int, error) {
	if len(weights) == 0 {
		return nil, 0, fmt.Errorf("resample: weights are empty: %w", core.ErrConfiguration)
	}

	if n <= 0 {
		return nil, 0, fmt.Errorf("resample: output count must be > 0: %d: %w", n, core.ErrConfiguration)
	}

	last := -1

	for i, w := range weights {
		if !(w >= 0) || math.IsInf(w, 0) {
			return nil, 0, fmt.Errorf("resample: weight %d is %v: %w", i, w, core.ErrConfiguration)
		}

		if w > 0 {
			last = i
		}
	}

	if last < 0 {
		return nil, 0, fmt.Errorf("resample: all weights are zero: %w", core.ErrDegenerateEnsemble)
	}

	// Neumaier summation keeps every partial sum within a few ulps.
	cum := make([]float64, len(weights))
	sum, comp := 0.0, 0.0

	for i, w := range weights {
		t := sum + w
		if math.Abs(sum) >= math.Abs(w) {
			comp += (sum - t) + w
		} else {
			comp += (w - t) + sum
		}

		sum = t
		cum[i] = sum + comp
	}

	fn := float64(n)
	floats.Scale(fn/cum[len(cum)-1], cum)

	tol := snapUlps * fn * epsilon
	for i, c := range cum {
		if r := math.Round(c); math.Abs(c-r) <= tol {
			cum[i] = r
		}
	}

	cum[len(cum)-1] = fn

	return cum, last, nil
}

const (
	epsilon  = 0x1p-52
	snapUlps = 16
)

// above reports whether a > whole+frac without rounding the sum. frac lies
// in [0, 1).
func above(a float64, whole int, frac float64) bool {
	w := float64(whole)

	switch {
	case a >= w+1:
		return true
	case a <= w:
		return false
	}

	return a-w > frac
}

// walk maps nondecreasing positions whole+frac in [0, n) onto indices j with
// cum[j-1] ≤ position < cum[j], never past last.
func walk(cum []float64, last int, position func(k int) (int, float64), n int) []int {
	out := make([]int, n)
	j := 0

	for k := 0; k < n; k++ {
		whole, frac := position(k)
		for j < last && !above(cum[j], whole, frac) {
			j++
		}

		out[k] = j
	}

	return out
}

// unitFrac clamps f into [0, 1).
func unitFrac(f float64) float64 {
	if f >= 1 {
		return math.Nextafter(1, 0)
	}

	return f
}

// SystematicFromOffset is the deterministic core of systematic resampling:
// position k is u0 + k/n. u0 must lie in [0, 1/n). Equal weights return
// 0, 1, …, n-1 for every valid offset.
func SystematicFromOffset(weights []float64, n int, u0 float64) ([]int, error) {
	cum, last, err := cumulative(weights, n)
	if err != nil {
		return nil, err
	}

	step := 1 / float64(n)
	if !(u0 >= 0 && u0 < step) {
		return nil, fmt.Errorf("resample: offset must be in [0, %v): %v: %w", step, u0, core.ErrConfiguration)
	}

	frac := unitFrac(u0 * float64(n))

	return walk(cum, last, func(k int) (int, float64) { return k, frac }, n), nil
}

// Systematic resamples with a single uniform draw per call.
type Systematic struct {
	Rand *rand.Rand
}

// NewSystematic returns a Systematic resampler seeded with seed.
func NewSystematic(seed uint64) *Systematic {
	return &Systematic{Rand: rand.New(rand.NewPCG(seed, seed+1))}
}

// Resample implements Resampler.
func (s *Systematic) Resample(weights []float64, n int) ([]int, error) {
	cum, last, err := cumulative(weights, n)
	if err != nil {
		return nil, err
	}

	frac := s.Rand.Float64()

	return walk(cum, last, func(k int) (int, float64) { return k, frac }, n), nil
}

// Stratified draws one uniform position inside each of the n strata.
type Stratified struct {
	Rand *rand.Rand
}

// NewStratified returns a Stratified resampler seeded with seed.
func NewStratified(seed uint64) *Stratified {
	return &Stratified{Rand: rand.New(rand.NewPCG(seed, seed+1))}
}

// Resample implements Resampler.
func (s *Stratified) Resample(weights []float64, n int) ([]int, error) {
	cum, last, err := cumulative(weights, n)
	if err != nil {
		return nil, err
	}

	return walk(cum, last, func(k int) (int, float64) { return k, s.Rand.Float64() }, n), nil
}

// Multinomial draws n independent positions.
type Multinomial struct {
	Rand *rand.Rand
}

// NewMultinomial returns a Multinomial resampler seeded with seed.
func NewMultinomial(seed uint64) *Multinomial {
	return &Multinomial{Rand: rand.New(rand.NewPCG(seed, seed+1))}
}

// Resample implements Resampler.
func (m *Multinomial) Resample(weights []float64, n int) ([]int, error) {
	cum, last, err := cumulative(weights, n)
	if err != nil {
		return nil, err
	}

	u := make([]float64, n)
	for i := range u {
		u[i] = m.Rand.Float64() * float64(n)
	}

	sort.Float64s(u)

	return walk(cum, last, func(k int) (int, float64) {
		whole := math.Floor(u[k])
		if whole >= float64(n) {
			return n - 1, math.Nextafter(1, 0)
		}

		return int(whole), unitFrac(u[k] - whole)
	}, n), nil
}

// New returns the resampler registered under name: "systematic",
// "stratified" or "multinomial".
func New(name string, seed uint64) (Resampler, error) {
	switch name {
	case "", "systematic":
		return NewSystematic(seed), nil
	case "stratified":
		return NewStratified(seed), nil
	case "multinomial":
		return NewMultinomial(seed), nil
	}

	return nil, fmt.Errorf("resample: unknown scheme %q: %w", name, core.ErrConfiguration)
}
