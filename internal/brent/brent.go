/*
Copyright © 2026 the CarbSys authors.
This file is part of CarbSys.

CarbSys is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

CarbSys is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with CarbSys.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package brent finds a root of a scalar function within a bracketing
// interval using Brent's method, which combines bisection with secant and
// inverse quadratic interpolation steps.
package brent

import (
	"errors"
	"math"
)

// ErrNotBracketed is returned when the function has the same sign at both
// ends of the search interval.
var ErrNotBracketed = errors.New("brent: root is not bracketed")

// Settings control convergence of Find.
type Settings struct {
	// FTol is the absolute function value below which the search stops.
	FTol float64

	// RelTol is the relative tolerance on the root location.
	RelTol float64

	// MaxIter is the maximum number of iterations.
	MaxIter int
}

// Result is the outcome of a search.
type Result struct {
	// X is the root, or zero if the search did not converge.
	X float64

	// Iterations is the number of iterations performed.
	Iterations int

	// Converged is true if X satisfies the tolerances in Settings.
	Converged bool
}

// Find searches for a root of f in [a, b]. f(a) and f(b) must differ in
// sign or be zero. A search that runs out of iterations returns
// Converged == false and a nil error.
func Find(f func(float64) float64, a, b float64, s Settings) (Result, error) {
	fa, fb := f(a), f(b)
	switch {
	case fa == 0:
		return Result{X: a, Converged: true}, nil
	case fb == 0:
		return Result{X: b, Converged: true}, nil
	case (fa > 0) == (fb > 0):
		return Result{}, ErrNotBracketed
	}

	c, fc := b, fb
	var d, e float64
	for i := 1; i <= s.MaxIter; i++ {
		if (fb > 0) == (fc > 0) {
			// Keep the root between b and c.
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}
		tol := 2*epsilon*math.Abs(b) + 0.5*s.RelTol*math.Abs(b)
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol || math.Abs(fb) < s.FTol {
			return Result{X: b, Iterations: i, Converged: true}, nil
		}

		if math.Abs(e) >= tol && math.Abs(fa) > math.Abs(fb) {
			var p, q float64
			sr := fb / fa
			if a == c {
				// Secant step.
				p = 2 * xm * sr
				q = 1 - sr
			} else {
				// Inverse quadratic interpolation.
				qr := fa / fc
				r := fb / fc
				p = sr * (2*xm*qr*(qr-r) - (b-a)*(r-1))
				q = (qr - 1) * (r - 1) * (sr - 1)
			}
			if p > 0 {
				q = -q
			} else {
				p = -p
			}
			if 2*p < math.Min(3*xm*q-math.Abs(tol*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}

		a, fa = b, fb
		if math.Abs(d) > tol {
			b += d
		} else {
			b += math.Copysign(tol, xm)
		}
		fb = f(b)
	}
	return Result{Iterations: s.MaxIter}, nil
}

// epsilon is the machine epsilon for float64.
const epsilon = 2.220446049250313e-16
