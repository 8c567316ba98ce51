package epipolar

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Numerical guard constants used across the estimators. They are part of the
// documented contract: degenerate inputs are handled by masked fallbacks
// built on these thresholds, never by errors.
const (
	// DefaultEps guards divisions in point and transformation
	// normalization against near-zero denominators.
	DefaultEps = 1e-8

	// DegenerateEps is the magnitude below which a value is treated as
	// exactly zero in the cubic-root case analysis and in the 7-point
	// candidate rescaling.
	DegenerateEps = 1e-16
)

// Point is a 2D image coordinate.
type Point struct {
	X float64
	Y float64
}

// NormalizePoints applies Hartley's isotropic normalization: the returned
// points have their centroid at the origin and mean distance from it of √2.
// The 3x3 similarity transform that realizes the mapping is returned
// alongside, so results computed in the normalized frame can be mapped back.
// eps guards the scale division when all points coincide; pass DefaultEps
// unless a caller has a reason to widen the guard.
func NormalizePoints(points []Point, eps float64) ([]Point, *mat.Dense, error) {
	if len(points) == 0 {
		return nil, nil, fmt.Errorf("normalize points: empty point set")
	}

	var mx, my float64
	for _, p := range points {
		mx += p.X
		my += p.Y
	}
	n := float64(len(points))
	mx /= n
	my /= n

	var meanDist float64
	for _, p := range points {
		meanDist += math.Hypot(p.X-mx, p.Y-my)
	}
	meanDist /= n

	scale := math.Sqrt2 / (meanDist + eps)

	transform := mat.NewDense(3, 3, []float64{
		scale, 0, -scale * mx,
		0, scale, -scale * my,
		0, 0, 1,
	})

	return transformPoints(transform, points), transform, nil
}

// NormalizeTransformation rescales M so that its bottom-right entry is 1,
// resolving the scale ambiguity of a homogeneous transformation. When the
// bottom-right entry's magnitude does not exceed eps the matrix is returned
// unchanged (as a copy); the caller sees a 0 entry there instead of an
// exploding scale. M must be at least 2x2.
func NormalizeTransformation(m *mat.Dense, eps float64) (*mat.Dense, error) {
	r, c := m.Dims()
	if r < 2 || c < 2 {
		return nil, fmt.Errorf("normalize transformation: matrix must be at least 2x2, got %dx%d", r, c)
	}

	out := mat.DenseCopyOf(m)
	norm := m.At(r-1, c-1)
	if math.Abs(norm) > eps {
		out.Scale(1/(norm+eps), out)
	}
	return out, nil
}

// transformPoints applies a 3x3 similarity transform to 2D points.
func transformPoints(t *mat.Dense, points []Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		x := t.At(0, 0)*p.X + t.At(0, 1)*p.Y + t.At(0, 2)
		y := t.At(1, 0)*p.X + t.At(1, 1)*p.Y + t.At(1, 2)
		w := t.At(2, 0)*p.X + t.At(2, 1)*p.Y + t.At(2, 2)
		out[i] = Point{X: x / w, Y: y / w}
	}
	return out
}
