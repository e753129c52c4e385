package filter

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-levy/core"
	"gonum.org/v1/gonum/floats"
)

// Weight is a non-negative importance weight held as its natural logarithm.
// The zero value is a weight of one.
type Weight struct {
	log float64
}

// ZeroWeight returns the weight 0.
func ZeroWeight() Weight { return Weight{log: math.Inf(-1)} }

// UniformWeight returns 1/n.
func UniformWeight(n int) Weight { return Weight{log: -math.Log(float64(n))} }

// WeightFromProb wraps a linear-domain weight p ≥ 0.
func WeightFromProb(p float64) (Weight, error) {
	if !(p >= 0) || math.IsInf(p, 1) {
		return Weight{}, fmt.Errorf("filter: weight must be finite and >= 0: %v: %w", p, core.ErrConfiguration)
	}

	return Weight{log: math.Log(p)}, nil
}

// WeightFromLog wraps a log-domain weight. -Inf is the zero weight.
func WeightFromLog(l float64) (Weight, error) {
	if math.IsNaN(l) || math.IsInf(l, 1) {
		return Weight{}, fmt.Errorf("filter: log weight must be < +Inf: %v: %w", l, core.ErrConfiguration)
	}

	return Weight{log: l}, nil
}

// Log returns ln w.
func (w Weight) Log() float64 { return w.log }

// Prob returns w in the linear domain.
func (w Weight) Prob() float64 { return math.Exp(w.log) }

// IsZero reports whether w is exactly zero.
func (w Weight) IsZero() bool { return math.IsInf(w.log, -1) }

// Mul returns w·o.
func (w Weight) Mul(o Weight) Weight { return Weight{log: w.log + o.log} }

// MulLog returns w·exp(l). A NaN or +Inf l yields the zero weight.
func (w Weight) MulLog(l float64) Weight {
	if math.IsNaN(l) || math.IsInf(l, 1) {
		return ZeroWeight()
	}

	return Weight{log: w.log + l}
}

func logs(ws []Weight) []float64 {
	out := make([]float64, len(ws))
	for i, w := range ws {
		out[i] = w.log
	}

	return out
}

// LogSum returns ln Σ wᵢ.
func LogSum(ws []Weight) float64 {
	if len(ws) == 0 {
		return math.Inf(-1)
	}

	return floats.LogSumExp(logs(ws))
}

// Normalize rescales ws in place to sum to one and returns the log of the
// previous total. All-zero weights cannot be normalized and yield
// core.ErrDegenerateEnsemble.
func Normalize(ws []Weight) (float64, error) {
	total := LogSum(ws)
	if math.IsInf(total, -1) || math.IsNaN(total) {
		return total, fmt.Errorf("filter: weights sum to zero: %w", core.ErrDegenerateEnsemble)
	}

	for i := range ws {
		ws[i].log -= total
	}

	return total, nil
}

// Probs writes the linear-domain weights into dst, growing it as needed.
func Probs(dst []float64, ws []Weight) []float64 {
	if cap(dst) < len(ws) {
		dst = make([]float64, len(ws))
	}

	dst = dst[:len(ws)]
	for i, w := range ws {
		dst[i] = w.Prob()
	}

	return dst
}

// EffectiveSampleSize returns (Σw)²/Σw², which is N for uniform weights and
// 1 when a single weight carries all mass. It is 0 for all-zero weights.
func EffectiveSampleSize(ws []Weight) float64 {
	l := logs(ws)
	if len(l) == 0 {
		return 0
	}

	first := floats.LogSumExp(l)
	if math.IsInf(first, -1) {
		return 0
	}

	floats.Scale(2, l)

	return math.Exp(2*first - floats.LogSumExp(l))
}
