package core

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Symmetrize writes (a + aᵀ)/2 into a new SymDense. It cancels the
// round-off asymmetry produced by products such as F·P·Fᵀ.
func Symmetrize(a mat.Matrix) *mat.SymDense {
	r, c := a.Dims()
	if r != c {
		panic(fmt.Sprintf("core: symmetrize needs a square matrix, got %dx%d", r, c))
	}

	out := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		out.SetSym(i, i, a.At(i, i))
		for j := i + 1; j < r; j++ {
			out.SetSym(i, j, 0.5*(a.At(i, j)+a.At(j, i)))
		}
	}

	return out
}

// AddDiag returns a copy of s with eps added to every diagonal entry.
func AddDiag(s mat.Symmetric, eps float64) *mat.SymDense {
	n := s.SymmetricDim()
	out := mat.NewSymDense(n, nil)
	out.CopySym(s)
	for i := 0; i < n; i++ {
		out.SetSym(i, i, out.At(i, i)+eps)
	}

	return out
}

// BlockDiag assembles symmetric blocks along the diagonal of one matrix.
// Off-diagonal blocks are zero.
func BlockDiag(blocks ...mat.Symmetric) *mat.SymDense {
	n := 0
	for _, b := range blocks {
		n += b.SymmetricDim()
	}

	out := mat.NewSymDense(n, nil)
	off := 0
	for _, b := range blocks {
		k := b.SymmetricDim()
		for i := 0; i < k; i++ {
			for j := i; j < k; j++ {
				out.SetSym(off+i, off+j, b.At(i, j))
			}
		}

		off += k
	}

	return out
}

// BlockDiagDense is BlockDiag for general square blocks such as transition matrices.
func BlockDiagDense(blocks ...mat.Matrix) *mat.Dense {
	n := 0
	for _, b := range blocks {
		r, c := b.Dims()
		if r != c {
			panic(fmt.Sprintf("core: block must be square, got %dx%d", r, c))
		}

		n += r
	}

	out := mat.NewDense(n, n, nil)
	off := 0
	for _, b := range blocks {
		k, _ := b.Dims()
		out.Slice(off, off+k, off, off+k).(*mat.Dense).Copy(b)
		off += k
	}

	return out
}

// IsPSD reports whether s is positive semi-definite within tol, judged by
// its smallest eigenvalue relative to the largest magnitude.
func IsPSD(s mat.Symmetric, tol float64) bool {
	n := s.SymmetricDim()
	if n == 0 {
		return true
	}

	var eig mat.EigenSym
	if !eig.Factorize(s, false) {
		return false
	}

	vals := eig.Values(nil)
	scale := 0.0
	for _, v := range vals {
		if a := math.Abs(v); a > scale {
			scale = a
		}
	}

	if tol <= 0 {
		tol = 1e-10
	}

	return vals[0] >= -tol*max(scale, 1)
}

// SqrtPSD returns L with L·Lᵀ = s for a positive semi-definite s.
// Cholesky is tried first; singular matrices fall back to an eigen
// decomposition with negative round-off eigenvalues clipped to zero.
func SqrtPSD(s mat.Symmetric) (*mat.Dense, error) {
	n := s.SymmetricDim()
	var chol mat.Cholesky
	if chol.Factorize(s) {
		var l mat.TriDense
		chol.LTo(&l)

		return mat.DenseCopyOf(&l), nil
	}

	var eig mat.EigenSym
	if !eig.Factorize(s, true) {
		return nil, fmt.Errorf("core: eigen decomposition failed: %w", ErrNumericalSingularity)
	}

	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	out := mat.NewDense(n, n, nil)
	for j, v := range vals {
		if v <= 0 {
			continue
		}

		sv := math.Sqrt(v)
		for i := 0; i < n; i++ {
			out.Set(i, j, vecs.At(i, j)*sv)
		}
	}

	return out, nil
}
