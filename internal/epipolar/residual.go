package epipolar

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// EpipolarError is the normalized squared epipolar residual of a single
// correspondence: (p2ᵀ·F·p1)² / (‖F·p1‖² + ‖Fᵀ·p2‖²). Zero for a perfect
// correspondence under F; the denominator makes the score comparable across
// differently scaled matrices.
func EpipolarError(p1, p2 Point, f *mat.Dense) float64 {
	fx1 := applyHomogeneous(f, p1)
	ftx2 := applyHomogeneousTransposed(f, p2)

	num := p2.X*fx1[0] + p2.Y*fx1[1] + fx1[2]
	num *= num

	denom := fx1[0]*fx1[0] + fx1[1]*fx1[1] + fx1[2]*fx1[2] +
		ftx2[0]*ftx2[0] + ftx2[1]*ftx2[1] + ftx2[2]*ftx2[2]
	if denom == 0 {
		return math.Inf(1)
	}
	return num / denom
}

// MeanEpipolarError averages EpipolarError over a correspondence set.
func MeanEpipolarError(pts1, pts2 []Point, f *mat.Dense) (float64, error) {
	if len(pts1) != len(pts2) {
		return 0, fmt.Errorf("epipolar error: point sets differ in size: %d vs %d", len(pts1), len(pts2))
	}
	if len(pts1) == 0 {
		return 0, fmt.Errorf("epipolar error: empty point set")
	}
	var sum float64
	for i := range pts1 {
		sum += EpipolarError(pts1[i], pts2[i], f)
	}
	return sum / float64(len(pts1)), nil
}

// SelectBestCandidate returns the candidate with the smallest mean epipolar
// residual over the given correspondences, together with its index. This is
// the selection step the 7-point algorithm leaves to the caller.
func SelectBestCandidate(candidates []*mat.Dense, pts1, pts2 []Point) (*mat.Dense, int, error) {
	if len(candidates) == 0 {
		return nil, -1, fmt.Errorf("select candidate: no candidates")
	}
	best := 0
	bestErr := math.Inf(1)
	for i, cand := range candidates {
		e, err := MeanEpipolarError(pts1, pts2, cand)
		if err != nil {
			return nil, -1, fmt.Errorf("select candidate: %w", err)
		}
		if e < bestErr {
			best = i
			bestErr = e
		}
	}
	return candidates[best], best, nil
}

// applyHomogeneous computes F * (x, y, 1)ᵀ.
func applyHomogeneous(f *mat.Dense, p Point) [3]float64 {
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = f.At(i, 0)*p.X + f.At(i, 1)*p.Y + f.At(i, 2)
	}
	return out
}

// applyHomogeneousTransposed computes Fᵀ * (x, y, 1)ᵀ.
func applyHomogeneousTransposed(f *mat.Dense, p Point) [3]float64 {
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = f.At(0, i)*p.X + f.At(1, i)*p.Y + f.At(2, i)
	}
	return out
}
