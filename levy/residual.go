package levy

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// tail describes the jumps below the truncation size ε for one interval
// together with the kernel integrals H₁ = ∫h and H₂ = ∫hhᵀ.
type tail struct {
	alpha, c, eps float64
	muW, sigmaW2  float64
	first         []float64
	second        *mat.SymDense
}

// firstMoment returns ∫₀^ε s Q(ds) for Q(ds) = c s^(-1-α) ds. It diverges for
// α ≥ 1, where small jumps are compensated and contribute no mean.
func (t *tail) firstMoment() float64 {
	if t.alpha >= 1 {
		return 0
	}

	return t.c * math.Pow(t.eps, 1-t.alpha) / (1 - t.alpha)
}

// secondMoment returns ∫₀^ε s² Q(ds).
func (t *tail) secondMoment() float64 {
	return t.c * math.Pow(t.eps, 2-t.alpha) / (2 - t.alpha)
}

// compensator returns the drift coefficient subtracted for jumps in (ε, 1]
// so that the series converges for α ≥ 1. It multiplies μ_W·H₁.
func (t *tail) compensator() float64 {
	switch {
	case t.alpha < 1:
		return 0
	case t.alpha == 1:
		return t.c * math.Log(t.eps)
	default:
		return -t.c * (math.Pow(t.eps, 1-t.alpha) - 1) / (t.alpha - 1)
	}
}

func (t *tail) addMean(mean []float64, scale float64) {
	if scale == 0 {
		return
	}

	for i := range mean {
		mean[i] += scale * t.first[i]
	}
}

func (t *tail) addCov(cov *mat.SymDense, scale float64) {
	if scale == 0 {
		return
	}

	n := cov.SymmetricDim()
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			cov.SetSym(i, j, cov.At(i, j)+scale*t.second.At(i, j))
		}
	}
}

// residual is the correction strategy for one NoiseCase.
type residual interface {
	// needsTail reports whether add reads the kernel integrals.
	needsTail() bool
	add(t *tail, mean []float64, cov *mat.SymDense)
}

type residualNone struct{}

func (residualNone) needsTail() bool                     { return false }
func (residualNone) add(*tail, []float64, *mat.SymDense) {}

type residualGaussian struct{}

func (residualGaussian) needsTail() bool { return true }

func (residualGaussian) add(t *tail, mean []float64, cov *mat.SymDense) {
	t.addMean(mean, t.muW*t.firstMoment())
	t.addCov(cov, (t.sigmaW2+t.muW*t.muW)*t.secondMoment())
}

type residualPartial struct{}

func (residualPartial) needsTail() bool { return true }

func (residualPartial) add(t *tail, mean []float64, cov *mat.SymDense) {
	t.addMean(mean, t.muW*t.firstMoment())
	t.addCov(cov, t.sigmaW2*t.secondMoment())
}

func (nc NoiseCase) strategy() residual {
	switch nc {
	case NoiseGaussian:
		return residualGaussian{}
	case NoisePartial:
		return residualPartial{}
	default:
		return residualNone{}
	}
}
