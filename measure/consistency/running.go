package consistency

import "math"

// Summary holds the moments of a scalar diagnostic stream.
type Summary struct {
	Count    int
	Skipped  int
	Mean     float64
	Variance float64
	Skewness float64
	// ExcessKurtosis is 0 for Gaussian data; heavy-tailed innovations push
	// it well above zero.
	ExcessKurtosis float64
	Min            float64
	Max            float64
	RMS            float64
}

// Running accumulates NIS, NEES or normalized innovation values one step at
// a time using Welford's update for the first four central moments.
// Non-finite values are counted as skipped. The zero value is ready to use.
type Running struct {
	n       int
	skipped int
	mean    float64
	m2      float64
	m3      float64
	m4      float64
	sumSq   float64
	min     float64
	max     float64
}

// Add accumulates values.
func (r *Running) Add(values ...float64) {
	for _, x := range values {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			r.skipped++
			continue
		}

		r.n++
		ni := float64(r.n)

		delta := x - r.mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(r.n-1)

		r.m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*r.m2 - 4*deltaN*r.m3
		r.m3 += term1*deltaN*(float64(r.n-1)-1) - 3*deltaN*r.m2
		r.m2 += term1
		r.mean += deltaN
		r.sumSq += x * x

		if r.n == 1 || x < r.min {
			r.min = x
		}

		if r.n == 1 || x > r.max {
			r.max = x
		}
	}
}

// Summary returns the population moments of the accumulated values.
func (r *Running) Summary() Summary {
	s := Summary{Count: r.n, Skipped: r.skipped}
	if r.n == 0 {
		return s
	}

	nf := float64(r.n)
	s.Mean = r.mean
	s.Variance = r.m2 / nf
	s.Min, s.Max = r.min, r.max
	s.RMS = math.Sqrt(r.sumSq / nf)
	if s.Variance > 0 {
		s.Skewness = (r.m3 / nf) / (s.Variance * math.Sqrt(s.Variance))
		s.ExcessKurtosis = (r.m4/nf)/(s.Variance*s.Variance) - 3
	}

	return s
}

// Reset clears the accumulator.
func (r *Running) Reset() {
	*r = Running{}
}
