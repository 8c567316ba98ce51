package epipolar

import (
	"fmt"

	"github.com/MeKo-Tech/epipolar/internal/linalg"
	"gonum.org/v1/gonum/mat"
)

// FundamentalFromEssential converts an essential matrix to a fundamental
// matrix given the two camera intrinsic matrices: F = K2⁻ᵀ · E · K1⁻¹.
func FundamentalFromEssential(e, k1, k2 *mat.Dense) (*mat.Dense, error) {
	for _, m := range []struct {
		m    *mat.Dense
		name string
	}{{e, "essential matrix"}, {k1, "camera matrix K1"}, {k2, "camera matrix K2"}} {
		if err := checkThreeByThree(m.m, m.name); err != nil {
			return nil, fmt.Errorf("fundamental from essential: %w", err)
		}
	}

	var k1inv, k2inv mat.Dense
	if err := k1inv.Inverse(k1); err != nil {
		return nil, fmt.Errorf("fundamental from essential: K1 is singular: %w", err)
	}
	if err := k2inv.Inverse(k2); err != nil {
		return nil, fmt.Errorf("fundamental from essential: K2 is singular: %w", err)
	}

	return linalg.MulTriple(k2inv.T(), e, &k1inv), nil
}

// EssentialFromFundamental is the inverse conversion, E = K2ᵀ · F · K1,
// with the rank-2 constraint re-imposed on the product.
func EssentialFromFundamental(f, k1, k2 *mat.Dense) (*mat.Dense, error) {
	for _, m := range []struct {
		m    *mat.Dense
		name string
	}{{f, "fundamental matrix"}, {k1, "camera matrix K1"}, {k2, "camera matrix K2"}} {
		if err := checkThreeByThree(m.m, m.name); err != nil {
			return nil, fmt.Errorf("essential from fundamental: %w", err)
		}
	}

	e := linalg.MulTriple(k2.T(), f, k1)
	out, err := projectRank2(e)
	if err != nil {
		return nil, fmt.Errorf("essential from fundamental: %w", err)
	}
	return out, nil
}

// DecomposeEssential decomposes an essential matrix into its two possible
// rotations R1 = U·W·Vᵀ, R2 = U·Wᵀ·Vᵀ and the translation direction t (the
// last column of U). U and V are sign-corrected to proper rotations first.
// The four (R, ±t) combinations are the usual cheirality candidates.
func DecomposeEssential(e *mat.Dense) (*mat.Dense, *mat.Dense, *mat.Dense, error) {
	if err := checkThreeByThree(e, "essential matrix"); err != nil {
		return nil, nil, nil, fmt.Errorf("decompose essential: %w", err)
	}

	u, _, v, err := linalg.SVDFull(e)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("decompose essential: %w", err)
	}
	if mat.Det(u) < 0 {
		u.Scale(-1, u)
	}
	if mat.Det(v) < 0 {
		v.Scale(-1, v)
	}

	w := mat.NewDense(3, 3, []float64{
		0, 1, 0,
		-1, 0, 0,
		0, 0, 1,
	})

	r1 := linalg.MulTriple(u, w, v.T())
	r2 := linalg.MulTriple(u, w.T(), v.T())
	t := mat.NewDense(3, 1, linalg.Col(u, 2))
	return r1, r2, t, nil
}
