package testutil

import (
	"fmt"
	"math"
	"testing"

	"github.com/cwbudde/algo-levy/core"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()
	require.Len(t, got, len(want), "length mismatch")
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			require.Failf(t, "slice mismatch", "index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireSliceRelNearlyEqual is RequireSliceNearlyEqual with the mixed
// absolute/relative tolerance of core.NearlyEqual.
func RequireSliceRelNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()
	require.Len(t, got, len(want), "length mismatch")

	for i := range got {
		if !core.NearlyEqual(got[i], want[i], eps) {
			require.Failf(t, "slice mismatch", "index %d: got %v, want %v (rel eps %v)", i, got[i], want[i], eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t testing.TB, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			require.Failf(t, "non-finite value", "index %d: %v", i, v)
		}
	}
}

// RequireMatrixNearlyEqual fails t if the matrices differ in shape or any
// element pair exceeds eps.
func RequireMatrixNearlyEqual(t testing.TB, got, want mat.Matrix, eps float64) {
	t.Helper()
	gr, gc := got.Dims()
	wr, wc := want.Dims()
	require.Equal(t, [2]int{wr, wc}, [2]int{gr, gc}, "shape mismatch")
	for i := 0; i < gr; i++ {
		for j := 0; j < gc; j++ {
			diff := math.Abs(got.At(i, j) - want.At(i, j))
			if diff > eps {
				require.Failf(t, "matrix mismatch", "(%d,%d): got %v, want %v (diff %v > eps %v)",
					i, j, got.At(i, j), want.At(i, j), diff, eps)
			}
		}
	}
}

// RequireSymmetricPSD fails t unless s is exactly symmetric and admits a
// Cholesky factorization once a relative jitter of eps is added to its diagonal.
func RequireSymmetricPSD(t testing.TB, s mat.Matrix, eps float64) {
	t.Helper()
	r, c := s.Dims()
	require.Equal(t, r, c, "not square")
	scale := 0.0
	for i := 0; i < r; i++ {
		scale = math.Max(scale, math.Abs(s.At(i, i)))
		for j := i + 1; j < c; j++ {
			require.Equal(t, s.At(i, j), s.At(j, i), "asymmetric at (%d,%d)", i, j)
		}
	}

	jittered := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < c; j++ {
			jittered.SetSym(i, j, s.At(i, j))
		}

		jittered.SetSym(i, i, s.At(i, i)+eps*math.Max(scale, 1))
	}

	var chol mat.Cholesky
	require.True(t, chol.Factorize(jittered), "cholesky failed:\n%v", mat.Formatted(s))
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}

	maxDiff := 0.0
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if d > maxDiff {
			maxDiff = d
		}
	}

	return maxDiff, nil
}
