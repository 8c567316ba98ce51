// Package testutil provides synthetic two-view geometry fixtures for tests:
// random rank-2 ground-truth matrices, correspondence sets consistent with
// them, and small comparison helpers.
package testutil

import (
	"math"
	"math/rand"

	"github.com/MeKo-Tech/epipolar/internal/epipolar"
	"github.com/MeKo-Tech/epipolar/internal/linalg"
	"gonum.org/v1/gonum/mat"
)

// RandomFundamental generates a random rank-2 fundamental matrix normalized
// so its bottom-right entry is 1. Matrices whose bottom-right entry comes
// out near zero are rejected and regenerated so tests can compare entries
// directly after scale normalization.
func RandomFundamental(rng *rand.Rand) *mat.Dense {
	for {
		data := make([]float64, 9)
		for i := range data {
			data[i] = rng.Float64()*2 - 1
		}
		m := mat.NewDense(3, 3, data)

		u, vals, v, err := linalg.SVDFull(m)
		if err != nil {
			continue
		}
		s := []float64{vals[0], vals[1], 0}
		f := linalg.MulTriple(u, mat.NewDiagDense(3, s), v.T())

		if math.Abs(f.At(2, 2)) < 0.1 {
			continue
		}
		f.Scale(1/f.At(2, 2), f)
		return f
	}
}

// Correspondences generates n exact point correspondences consistent with
// the fundamental matrix f: each second point lies on the epipolar line of
// its first point. Coordinates stay within a moderate range so the
// estimators see well-conditioned input.
func Correspondences(f *mat.Dense, n int, rng *rand.Rand) ([]epipolar.Point, []epipolar.Point) {
	pts1 := make([]epipolar.Point, 0, n)
	pts2 := make([]epipolar.Point, 0, n)

	for len(pts1) < n {
		p1 := epipolar.Point{X: rng.Float64()*100 - 50, Y: rng.Float64()*100 - 50}

		a := f.At(0, 0)*p1.X + f.At(0, 1)*p1.Y + f.At(0, 2)
		b := f.At(1, 0)*p1.X + f.At(1, 1)*p1.Y + f.At(1, 2)
		c := f.At(2, 0)*p1.X + f.At(2, 1)*p1.Y + f.At(2, 2)

		var p2 epipolar.Point
		switch {
		case math.Abs(b) >= math.Abs(a) && math.Abs(b) > 1e-12:
			p2.X = rng.Float64()*100 - 50
			p2.Y = -(a*p2.X + c) / b
		case math.Abs(a) > 1e-12:
			p2.Y = rng.Float64()*100 - 50
			p2.X = -(b*p2.Y + c) / a
		default:
			continue
		}
		if math.Abs(p2.X) > 1e4 || math.Abs(p2.Y) > 1e4 {
			continue
		}
		pts1 = append(pts1, p1)
		pts2 = append(pts2, p2)
	}
	return pts1, pts2
}

// MaxAbsDiff returns the largest absolute entrywise difference between two
// equally sized matrices.
func MaxAbsDiff(a, b mat.Matrix) float64 {
	ra, ca := a.Dims()
	var maxDiff float64
	for i := 0; i < ra; i++ {
		for j := 0; j < ca; j++ {
			if d := math.Abs(a.At(i, j) - b.At(i, j)); d > maxDiff {
				maxDiff = d
			}
		}
	}
	return maxDiff
}

// ProjectPoint applies a 3x4 projection matrix to a 3D point and returns
// the dehomogenized image coordinate.
func ProjectPoint(p *mat.Dense, x, y, z float64) epipolar.Point {
	u := p.At(0, 0)*x + p.At(0, 1)*y + p.At(0, 2)*z + p.At(0, 3)
	v := p.At(1, 0)*x + p.At(1, 1)*y + p.At(1, 2)*z + p.At(1, 3)
	w := p.At(2, 0)*x + p.At(2, 1)*y + p.At(2, 2)*z + p.At(2, 3)
	return epipolar.Point{X: u / w, Y: v / w}
}
