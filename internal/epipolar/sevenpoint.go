package epipolar

import (
	"fmt"
	"math"

	"github.com/MeKo-Tech/epipolar/internal/linalg"
	"gonum.org/v1/gonum/mat"
)

// RunSevenPoint computes fundamental matrix candidates from exactly 7 point
// correspondences. The 7x9 epipolar constraint system has a 2-dimensional
// null space spanned by F1 and F2; requiring det(λ*F1 + (1-λ)*F2) = 0
// yields a cubic in λ with 1-3 real roots, and each root produces one
// candidate matrix. Callers select among candidates with a residual test
// such as SelectBestCandidate.
//
// If the root count falls outside [1, 3] (a solver edge case, not a
// mathematically expected outcome) a single all-zero matrix is returned so
// that callers can detect "no usable solution" by construction.
func RunSevenPoint(points1, points2 []Point) ([]*mat.Dense, error) {
	if len(points1) != 7 || len(points2) != 7 {
		return nil, fmt.Errorf("seven point: expected exactly 7 correspondences, got %d and %d",
			len(points1), len(points2))
	}

	norm1, t1, err := NormalizePoints(points1, DefaultEps)
	if err != nil {
		return nil, fmt.Errorf("seven point: %w", err)
	}
	norm2, t2, err := NormalizePoints(points2, DefaultEps)
	if err != nil {
		return nil, fmt.Errorf("seven point: %w", err)
	}

	x := constraintMatrix(norm1, norm2)

	_, _, v, err := linalg.SVDFull(x)
	if err != nil {
		return nil, fmt.Errorf("seven point: %w", err)
	}

	// The two right singular vectors of smallest singular value span the
	// null space; flattened row-major they are the basis matrices F1, F2.
	f1 := linalg.Col(v, 7)
	f2 := linalg.Col(v, 8)

	coeffs := detExpansionCoefficients(f1, f2)
	roots, n := solveCubicOne(coeffs[0], coeffs[1], coeffs[2], coeffs[3])

	if n < 1 || n > 3 {
		return []*mat.Dense{mat.NewDense(3, 3, nil)}, nil
	}

	t2t := linalg.Transpose(t2)
	candidates := make([]*mat.Dense, 0, n)
	for i := 0; i < n; i++ {
		fmat := candidateFromRoot(f1, f2, roots[i])
		fmat = linalg.MulTriple(t2t, fmat, t1)
		fmat, err = NormalizeTransformation(fmat, DefaultEps)
		if err != nil {
			return nil, fmt.Errorf("seven point: %w", err)
		}
		candidates = append(candidates, fmat)
	}
	return candidates, nil
}

// RunSevenPointBatch runs the 7-point algorithm independently for each batch
// element. Inner slices hold the 1-3 candidates of that element; the slice
// length is the valid-candidate count.
func RunSevenPointBatch(points1, points2 [][]Point) ([][]*mat.Dense, error) {
	if len(points1) != len(points2) {
		return nil, fmt.Errorf("seven point: batch sizes differ: %d vs %d", len(points1), len(points2))
	}
	out := make([][]*mat.Dense, len(points1))
	for i := range points1 {
		cands, err := RunSevenPoint(points1[i], points2[i])
		if err != nil {
			return nil, fmt.Errorf("batch element %d: %w", i, err)
		}
		out[i] = cands
	}
	return out, nil
}

// constraintMatrix assembles the Nx9 linear system encoding
// (x2, y2, 1) * F * (x1, y1, 1)ᵀ = 0 for each correspondence.
func constraintMatrix(points1, points2 []Point) *mat.Dense {
	x := mat.NewDense(len(points1), 9, nil)
	for i := range points1 {
		x1, y1 := points1[i].X, points1[i].Y
		x2, y2 := points2[i].X, points2[i].Y
		x.SetRow(i, []float64{
			x2 * x1, x2 * y1, x2,
			y2 * x1, y2 * y1, y2,
			x1, y1, 1,
		})
	}
	return x
}

// detExpansionCoefficients expands det(λ*F1 + (1-λ)*F2) = 0 into cubic
// coefficients (λ^3, λ^2, λ, 1) using cofactor combinations of the two
// flattened basis matrices.
func detExpansionCoefficients(f1, f2 []float64) [4]float64 {
	var coeffs [4]float64

	t0 := f2[4]*f2[8] - f2[5]*f2[7]
	t1 := f2[3]*f2[8] - f2[5]*f2[6]
	t2 := f2[3]*f2[7] - f2[4]*f2[6]

	coeffs[3] = f2[0]*t0 - f2[1]*t1 + f2[2]*t2

	coeffs[2] = f1[0]*t0 - f1[1]*t1 + f1[2]*t2 -
		f1[3]*(f2[1]*f2[8]-f2[2]*f2[7]) +
		f1[4]*(f2[0]*f2[8]-f2[2]*f2[6]) -
		f1[5]*(f2[0]*f2[7]-f2[1]*f2[6]) +
		f1[6]*(f2[1]*f2[5]-f2[2]*f2[4]) -
		f1[7]*(f2[0]*f2[5]-f2[2]*f2[3]) +
		f1[8]*(f2[0]*f2[4]-f2[1]*f2[3])

	t0 = f1[4]*f1[8] - f1[5]*f1[7]
	t1 = f1[3]*f1[8] - f1[5]*f1[6]
	t2 = f1[3]*f1[7] - f1[4]*f1[6]

	coeffs[1] = f2[0]*t0 - f2[1]*t1 + f2[2]*t2 -
		f2[3]*(f1[1]*f1[8]-f1[2]*f1[7]) +
		f2[4]*(f1[0]*f1[8]-f1[2]*f1[6]) -
		f2[5]*(f1[0]*f1[7]-f1[1]*f1[6]) +
		f2[6]*(f1[1]*f1[5]-f1[2]*f1[4]) -
		f2[7]*(f1[0]*f1[5]-f1[2]*f1[3]) +
		f2[8]*(f1[0]*f1[4]-f1[1]*f1[3])

	coeffs[0] = f1[0]*t0 - f1[1]*t1 + f1[2]*t2

	return coeffs
}

// candidateFromRoot reconstructs a candidate F = λ*F1 + μ*F2 for one cubic
// root. When the combined [2,2] entry is resolvable, λ and μ are rescaled so
// that entry becomes exactly 1; otherwise the entry is pinned to 0 and the
// scale ambiguity remains for NormalizeTransformation to report.
func candidateFromRoot(f1, f2 []float64, root float64) *mat.Dense {
	lambda := root
	mu := 1.0

	fmat := mat.NewDense(3, 3, nil)
	s := f1[8]*root + f2[8]
	if math.Abs(s) > DegenerateEps {
		mu = 1 / s
		lambda *= mu
		fmat.Set(2, 2, 1)
	}

	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if r == 2 && c == 2 {
				continue
			}
			fmat.Set(r, c, f1[r*3+c]*lambda+f2[r*3+c]*mu)
		}
	}
	return fmat
}
