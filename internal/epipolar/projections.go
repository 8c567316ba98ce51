package epipolar

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// FundamentalFromProjections builds the fundamental matrix relating two 3x4
// camera projection matrices. Entry (r, c) of F is the determinant of the
// 4x4 matrix formed by stacking row pair c of P1 over row pair r of P2,
// following the standard projective-geometry formula.
func FundamentalFromProjections(p1, p2 *mat.Dense) (*mat.Dense, error) {
	if err := checkThreeByFour(p1, "projection matrix P1"); err != nil {
		return nil, fmt.Errorf("fundamental from projections: %w", err)
	}
	if err := checkThreeByFour(p2, "projection matrix P2"); err != nil {
		return nil, fmt.Errorf("fundamental from projections: %w", err)
	}

	// Row pairs in cyclic order: dropping row 0, row 1, row 2.
	pairs := [3][2]int{{1, 2}, {2, 0}, {0, 1}}

	f := mat.NewDense(3, 3, nil)
	stacked := mat.NewDense(4, 4, nil)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			xa, xb := pairs[c][0], pairs[c][1]
			ya, yb := pairs[r][0], pairs[r][1]
			for j := 0; j < 4; j++ {
				stacked.Set(0, j, p1.At(xa, j))
				stacked.Set(1, j, p1.At(xb, j))
				stacked.Set(2, j, p2.At(ya, j))
				stacked.Set(3, j, p2.At(yb, j))
			}
			f.Set(r, c, mat.Det(stacked))
		}
	}
	return f, nil
}

func checkThreeByFour(m mat.Matrix, what string) error {
	r, c := m.Dims()
	if r != 3 || c != 4 {
		return fmt.Errorf("%s must be 3x4, got %dx%d", what, r, c)
	}
	return nil
}
