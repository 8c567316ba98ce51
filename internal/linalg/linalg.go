// Package linalg provides small dense linear-algebra helpers shared by the
// geometry estimators. It wraps gonum's mat package with the handful of
// operations the estimators need: full SVD, transposed copies, identity
// matrices and triple products.
package linalg

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ErrSVDFailed is returned when the SVD factorization does not converge.
var ErrSVDFailed = errors.New("linalg: SVD factorization failed")

// SVDFull computes the full singular value decomposition A = U * diag(s) * Vᵀ
// and returns U, the singular values in descending order, and V (not Vᵀ).
func SVDFull(a mat.Matrix) (*mat.Dense, []float64, *mat.Dense, error) {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDFull); !ok {
		return nil, nil, nil, ErrSVDFailed
	}
	u := &mat.Dense{}
	v := &mat.Dense{}
	svd.UTo(u)
	svd.VTo(v)
	return u, svd.Values(nil), v, nil
}

// Transpose returns a newly allocated transposed copy of m.
func Transpose(m mat.Matrix) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(c, r, nil)
	out.Copy(m.T())
	return out
}

// Eye returns the n x n identity matrix.
func Eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// Col extracts column j of m as a slice.
func Col(m mat.Matrix, j int) []float64 {
	r, _ := m.Dims()
	out := make([]float64, r)
	for i := 0; i < r; i++ {
		out[i] = m.At(i, j)
	}
	return out
}

// MulTriple returns the product a * b * c as a new matrix.
func MulTriple(a, b, c mat.Matrix) *mat.Dense {
	var tmp, out mat.Dense
	tmp.Mul(a, b)
	out.Mul(&tmp, c)
	return &out
}
