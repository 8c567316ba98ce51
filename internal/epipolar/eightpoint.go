package epipolar

import (
	"fmt"

	"github.com/MeKo-Tech/epipolar/internal/linalg"
	"gonum.org/v1/gonum/mat"
)

// RunEightPoint computes the fundamental matrix from N >= 8 correspondences
// with the weighted DLT formulation. The null vector of the normal-equations
// matrix Xᵀ·diag(weights)·X gives the raw estimate, which is projected onto
// the rank-2 manifold by zeroing its smallest singular value and then mapped
// back through the normalization transforms.
//
// weights may be nil for the unweighted solve; otherwise it must hold one
// value per correspondence. This is a single-shot linear estimator: outlier
// robustness is the caller's responsibility.
func RunEightPoint(points1, points2 []Point, weights []float64) (*mat.Dense, error) {
	if len(points1) != len(points2) {
		return nil, fmt.Errorf("eight point: point sets differ in size: %d vs %d",
			len(points1), len(points2))
	}
	if len(points1) < 8 {
		return nil, fmt.Errorf("eight point: need at least 8 correspondences, got %d", len(points1))
	}
	if weights != nil && len(weights) != len(points1) {
		return nil, fmt.Errorf("eight point: weight count %d does not match correspondence count %d",
			len(weights), len(points1))
	}

	norm1, t1, err := NormalizePoints(points1, DefaultEps)
	if err != nil {
		return nil, fmt.Errorf("eight point: %w", err)
	}
	norm2, t2, err := NormalizePoints(points2, DefaultEps)
	if err != nil {
		return nil, fmt.Errorf("eight point: %w", err)
	}

	x := constraintMatrix(norm1, norm2)

	// Normal equations: Xᵀ·diag(w)·X, a 9x9 symmetric matrix whose
	// eigenvector of smallest eigenvalue is the raw estimate.
	var xtx mat.Dense
	if weights == nil {
		xtx.Mul(x.T(), x)
	} else {
		wx := mat.DenseCopyOf(x)
		for i, w := range weights {
			row := wx.RawRowView(i)
			for j := range row {
				row[j] *= w
			}
		}
		xtx.Mul(x.T(), wx)
	}

	_, _, v, err := linalg.SVDFull(&xtx)
	if err != nil {
		return nil, fmt.Errorf("eight point: %w", err)
	}
	raw := mat.NewDense(3, 3, linalg.Col(v, 8))

	rank2, err := projectRank2(raw)
	if err != nil {
		return nil, fmt.Errorf("eight point: %w", err)
	}

	f := linalg.MulTriple(linalg.Transpose(t2), rank2, t1)
	out, err := NormalizeTransformation(f, DefaultEps)
	if err != nil {
		return nil, fmt.Errorf("eight point: %w", err)
	}
	return out, nil
}

// RunEightPointBatch runs the 8-point algorithm independently per batch
// element. weights may be nil, or hold one (possibly nil) weight slice per
// element.
func RunEightPointBatch(points1, points2 [][]Point, weights [][]float64) ([]*mat.Dense, error) {
	if len(points1) != len(points2) {
		return nil, fmt.Errorf("eight point: batch sizes differ: %d vs %d", len(points1), len(points2))
	}
	if weights != nil && len(weights) != len(points1) {
		return nil, fmt.Errorf("eight point: weight batch size %d does not match point batch size %d",
			len(weights), len(points1))
	}
	out := make([]*mat.Dense, len(points1))
	for i := range points1 {
		var w []float64
		if weights != nil {
			w = weights[i]
		}
		f, err := RunEightPoint(points1[i], points2[i], w)
		if err != nil {
			return nil, fmt.Errorf("batch element %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

// projectRank2 returns the closest rank-2 matrix to m in the Frobenius
// sense: the truncated SVD reconstruction with the smallest singular value
// zeroed. The SVD outputs are not mutated; the reconstruction is a fresh
// matrix.
func projectRank2(m *mat.Dense) (*mat.Dense, error) {
	u, vals, v, err := linalg.SVDFull(m)
	if err != nil {
		return nil, err
	}
	s := make([]float64, len(vals))
	copy(s, vals)
	s[len(s)-1] = 0

	return linalg.MulTriple(u, mat.NewDiagDense(len(s), s), v.T()), nil
}
