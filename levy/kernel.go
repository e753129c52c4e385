package levy

import "gonum.org/v1/gonum/mat"

// Kernel is the impulse response of a linear SDE driven by the Lévy process.
// A unit jump applied u seconds before the end of the interval moves the
// state by h(u).
type Kernel interface {
	// Dim returns the length of h.
	Dim() int
	// Response writes h(u) into dst, which has length Dim.
	Response(u float64, dst []float64)
	// Integrals writes ∫₀^dt h(u) du into first and ∫₀^dt h(u)h(u)ᵀ du into
	// second. Both are needed in closed form for compensation and residuals.
	Integrals(dt float64, first []float64, second *mat.SymDense)
}

// Moments are the conditionally Gaussian mean and covariance of one increment.
type Moments struct {
	Mean *mat.VecDense
	Cov  *mat.SymDense
}

// ZeroMoments returns a zero mean and covariance of dimension n.
func ZeroMoments(n int) Moments {
	return Moments{
		Mean: mat.NewVecDense(n, nil),
		Cov:  mat.NewSymDense(n, nil),
	}
}
