package epipolar

import "math"

// SolveQuadratic solves a batch of quadratic equations a*x^2 + b*x + c = 0
// given as coefficient triples (a, b, c). Each result holds up to two real
// roots. A negative discriminant yields the sentinel pair {0, 0}: there is
// no real solution and callers must not treat the zeros as roots. A zero
// discriminant also yields {0, 0} rather than the repeated root -b/2a; this
// mirrors the reference solver and is kept deliberately (see DESIGN.md).
func SolveQuadratic(coeffs [][3]float64) [][2]float64 {
	roots := make([][2]float64, len(coeffs))
	for i, cf := range coeffs {
		roots[i], _ = solveQuadraticOne(cf[0], cf[1], cf[2])
	}
	return roots
}

// solveQuadraticOne solves a single quadratic and reports the number of
// distinct real roots it filled in.
func solveQuadraticOne(a, b, c float64) ([2]float64, int) {
	delta := b*b - 4*a*c
	switch {
	case delta < 0:
		return [2]float64{}, 0
	case delta == 0:
		// Sentinel: repeated root is reported as {0, 0}.
		return [2]float64{}, 0
	default:
		inv2a := 0.5 / a
		sq := math.Sqrt(delta)
		return [2]float64{(-b + sq) * inv2a, (-b - sq) * inv2a}, 2
	}
}

// SolveCubic solves a batch of cubic equations
// a*x^3 + b*x^2 + c*x + d = 0 given as coefficient quadruples (a, b, c, d).
// Each result holds up to three real roots; unfilled slots stay 0.
//
// Degenerate leading coefficients are handled per element:
//   - a=b=c=0: the single root 0.
//   - a=b=0, c!=0: the sentinel root 1 (the linear case has no
//     representable root in this formulation; do not treat 1 as a
//     solution of c*x + d = 0).
//   - a=0, b!=0: the quadratic path on (b, c, d).
//
// The full cubic is reduced to depressed form and branches on
// Q = (3c/a - (b/a)^2)/9, R = (9(b/a)(c/a) - 27d/a - 2(b/a)^3)/54 and
// D = Q^3 + R^2: Q=0 with R!=0 gives the single root cbrt(2R) - b/3a; Q=R=0
// the triple root -b/3a; D<=0 three real roots via the trigonometric form
// (casus irreducibilis); D>0 one real root via Cardano's formula.
func SolveCubic(coeffs [][4]float64) [][3]float64 {
	roots := make([][3]float64, len(coeffs))
	for i, cf := range coeffs {
		roots[i], _ = solveCubicOne(cf[0], cf[1], cf[2], cf[3])
	}
	return roots
}

// solveCubicOne solves a single cubic and reports how many real roots were
// found. The count is what the 7-point estimator keys its candidate
// reconstruction on.
func solveCubicOne(a, b, c, d float64) ([3]float64, int) {
	var out [3]float64

	switch {
	case a == 0 && b == 0 && c == 0:
		return out, 1
	case a == 0 && b == 0:
		out[0] = 1
		return out, 1
	case a == 0:
		q, n := solveQuadraticOne(b, c, d)
		out[0], out[1] = q[0], q[1]
		return out, n
	}

	invA := 1 / a
	ba := b * invA
	ba2 := ba * ba
	ca := c * invA
	da := d * invA

	q := (3*ca - ba2) / 9
	r := (9*ba*ca - 27*da - 2*ba*ba2) / 54
	q3 := q * q * q
	disc := q3 + r*r
	ba3 := ba / 3

	switch {
	case q == 0 && r != 0:
		out[0] = math.Cbrt(2*r) - ba3
		return out, 1
	case q == 0 && r == 0:
		out[0], out[1], out[2] = -ba3, -ba3, -ba3
		return out, 3
	case disc <= 0:
		// Three real roots via the trigonometric identity.
		theta := math.Acos(r / math.Sqrt(-q3))
		sq := 2 * math.Sqrt(-q)
		out[0] = sq*math.Cos(theta/3) - ba3
		out[1] = sq*math.Cos((theta+2*math.Pi)/3) - ba3
		out[2] = sq*math.Cos((theta+4*math.Pi)/3) - ba3
		return out, 3
	default:
		// One real root via Cardano's formula.
		var ad, bd float64
		if math.Abs(r) > DegenerateEps {
			ad = math.Cbrt(math.Abs(r) + math.Sqrt(disc))
			if r < 0 {
				ad = -ad
			}
			bd = -q / ad
		}
		out[0] = ad + bd - ba3
		return out, 1
	}
}
