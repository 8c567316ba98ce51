// Package epipolar computes two-view geometry quantities from point
// correspondences, principally the fundamental matrix relating two
// uncalibrated camera views.
//
// The estimation entry point is FindFundamental, which dispatches to the
// 7-point algorithm (RunSevenPoint, 1-3 candidate matrices per instance) or
// the weighted 8-point/DLT algorithm (RunEightPoint, exactly one matrix).
// Both paths use Hartley's isotropic point normalization for conditioning
// and fix the scale of the result so its bottom-right entry is 1 where that
// entry is not degenerate.
//
// All operations are pure and call-local: inputs are never mutated, results
// are owned by the caller, and batch elements are independent.
package epipolar
