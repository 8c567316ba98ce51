package epipolar

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Supported estimation methods for FindFundamental. Matching is
// case-insensitive.
const (
	MethodSevenPoint = "7POINT"
	MethodEightPoint = "8POINT"
)

// FindFundamental estimates fundamental matrices for a batch of
// correspondence sets, dispatching on method. For MethodEightPoint every
// inner slice holds exactly one matrix; for MethodSevenPoint it holds the
// 1-3 candidates of that batch element (weights are not used by the 7-point
// path). Any method other than the supported two is an invalid-argument
// error, never a silent default.
func FindFundamental(points1, points2 [][]Point, weights [][]float64, method string) ([][]*mat.Dense, error) {
	switch strings.ToUpper(method) {
	case MethodSevenPoint:
		return RunSevenPointBatch(points1, points2)
	case MethodEightPoint:
		single, err := RunEightPointBatch(points1, points2, weights)
		if err != nil {
			return nil, err
		}
		out := make([][]*mat.Dense, len(single))
		for i, f := range single {
			out[i] = []*mat.Dense{f}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("find fundamental: invalid method %q, supported methods are %q and %q",
			method, MethodSevenPoint, MethodEightPoint)
	}
}
