package epipolar

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Line is a 2D line in implicit form a*x + b*y + c = 0.
type Line struct {
	A float64
	B float64
	C float64
}

// ComputeCorrespondEpilines projects points through F to their epipolar
// lines in the other image, one line per point. Lines are scaled so (a, b)
// has unit norm; a degenerate projection with a = b = 0 is left as computed.
func ComputeCorrespondEpilines(points []Point, f *mat.Dense) ([]Line, error) {
	if err := checkThreeByThree(f, "fundamental matrix"); err != nil {
		return nil, fmt.Errorf("epilines: %w", err)
	}

	lines := make([]Line, len(points))
	for i, p := range points {
		a := f.At(0, 0)*p.X + f.At(0, 1)*p.Y + f.At(0, 2)
		b := f.At(1, 0)*p.X + f.At(1, 1)*p.Y + f.At(1, 2)
		c := f.At(2, 0)*p.X + f.At(2, 1)*p.Y + f.At(2, 2)

		if nu := a*a + b*b; nu > 0 {
			inv := 1 / math.Sqrt(nu)
			a, b, c = a*inv, b*inv, c*inv
		}
		lines[i] = Line{A: a, B: b, C: c}
	}
	return lines, nil
}

// GetPerpendicular returns, for each (line, point) pair, the line through
// the point perpendicular to the given line: the cross product of the
// homogeneous point with the line's point at infinity (a, b, 0).
func GetPerpendicular(lines []Line, points []Point) ([]Line, error) {
	if len(lines) != len(points) {
		return nil, fmt.Errorf("perpendicular: %d lines but %d points", len(lines), len(points))
	}
	out := make([]Line, len(lines))
	for i, l := range lines {
		p := points[i]
		// (x, y, 1) x (a, b, 0)
		out[i] = Line{
			A: -l.B,
			B: l.A,
			C: p.X*l.B - p.Y*l.A,
		}
	}
	return out, nil
}

// GetClosestPointOnEpipolarLine returns, for each correspondence, the point
// on the epipolar line of pts1[i] (under F) closest to pts2[i]: the
// intersection of that epiline with its perpendicular through pts2[i].
func GetClosestPointOnEpipolarLine(pts1, pts2 []Point, f *mat.Dense) ([]Point, error) {
	if len(pts1) != len(pts2) {
		return nil, fmt.Errorf("closest point: point sets differ in size: %d vs %d", len(pts1), len(pts2))
	}
	lines, err := ComputeCorrespondEpilines(pts1, f)
	if err != nil {
		return nil, err
	}
	perps, err := GetPerpendicular(lines, pts2)
	if err != nil {
		return nil, err
	}

	out := make([]Point, len(pts1))
	for i := range lines {
		l, p := lines[i], perps[i]
		// Intersection of the two lines via cross product, then
		// dehomogenize. A vanishing w means the lines are parallel;
		// the components are reported undivided in that case.
		x := l.B*p.C - l.C*p.B
		y := l.C*p.A - l.A*p.C
		w := l.A*p.B - l.B*p.A
		if math.Abs(w) > DefaultEps {
			x /= w
			y /= w
		}
		out[i] = Point{X: x, Y: y}
	}
	return out, nil
}

// checkThreeByThree validates that m is a 3x3 matrix.
func checkThreeByThree(m mat.Matrix, what string) error {
	r, c := m.Dims()
	if r != 3 || c != 3 {
		return fmt.Errorf("%s must be 3x3, got %dx%d", what, r, c)
	}
	return nil
}
