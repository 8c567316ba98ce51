package epipolar

import (
	"math"
	"math/rand"

	"github.com/MeKo-Tech/epipolar/internal/linalg"
	"gonum.org/v1/gonum/mat"
)

// randomRank2 builds a random rank-2 matrix scaled to a unit bottom-right
// entry, regenerating when that entry is too small to normalize against.
func randomRank2(rng *rand.Rand) *mat.Dense {
	for {
		data := make([]float64, 9)
		for i := range data {
			data[i] = rng.Float64()*2 - 1
		}

		u, vals, v, err := linalg.SVDFull(mat.NewDense(3, 3, data))
		if err != nil {
			continue
		}
		f := linalg.MulTriple(u, mat.NewDiagDense(3, []float64{vals[0], vals[1], 0}), v.T())
		if math.Abs(f.At(2, 2)) < 0.1 {
			continue
		}
		f.Scale(1/f.At(2, 2), f)
		return f
	}
}

// correspondencesOnEpilines samples n exact correspondences for f: each
// second point is placed on the epipolar line of its first point.
func correspondencesOnEpilines(f *mat.Dense, n int, rng *rand.Rand) ([]Point, []Point) {
	pts1 := make([]Point, 0, n)
	pts2 := make([]Point, 0, n)
	for len(pts1) < n {
		p1 := Point{X: rng.Float64()*100 - 50, Y: rng.Float64()*100 - 50}
		l := applyHomogeneous(f, p1)

		var p2 Point
		switch {
		case math.Abs(l[1]) >= math.Abs(l[0]) && math.Abs(l[1]) > 1e-12:
			p2.X = rng.Float64()*100 - 50
			p2.Y = -(l[0]*p2.X + l[2]) / l[1]
		case math.Abs(l[0]) > 1e-12:
			p2.Y = rng.Float64()*100 - 50
			p2.X = -(l[1]*p2.Y + l[2]) / l[0]
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

func maxAbsDiff3(a, b *mat.Dense) float64 {
	var maxDiff float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if d := math.Abs(a.At(i, j) - b.At(i, j)); d > maxDiff {
				maxDiff = d
			}
		}
	}
	return maxDiff
}
