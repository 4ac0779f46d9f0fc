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

package brent

import (
	"math"
	"testing"
)

var defaultSettings = Settings{FTol: 1e-14, RelTol: 1e-12, MaxIter: 100}

func TestFind(t *testing.T) {
	tests := []struct {
		name string
		f    func(float64) float64
		a, b float64
		want float64
	}{
		{name: "sqrt2", f: func(x float64) float64 { return x*x - 2 }, a: 0, b: 2, want: math.Sqrt2},
		{name: "cubic", f: func(x float64) float64 { return (x - 1) * (x + 2) * (x - 3) }, a: 0.2, b: 2, want: 1},
		{name: "reversed", f: func(x float64) float64 { return 3 - x }, a: 10, b: -4, want: 3},
		{name: "decreasing", f: func(x float64) float64 { return 1e-3/x - 1e5 }, a: 1e-12, b: 1e-2, want: 1e-8},
		{name: "cosine", f: math.Cos, a: 1, b: 2, want: math.Pi / 2},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r, err := Find(test.f, test.a, test.b, defaultSettings)
			if err != nil {
				t.Fatal(err)
			}
			if !r.Converged {
				t.Fatalf("did not converge after %d iterations", r.Iterations)
			}
			if math.Abs(r.X-test.want) > 1e-9*math.Abs(test.want) {
				t.Errorf("have %g, want %g", r.X, test.want)
			}
			if r.Iterations > defaultSettings.MaxIter {
				t.Errorf("%d iterations exceeds limit", r.Iterations)
			}
		})
	}
}

func TestFindEndpoint(t *testing.T) {
	r, err := Find(func(x float64) float64 { return x - 5 }, 5, 7, defaultSettings)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Converged || r.X != 5 || r.Iterations != 0 {
		t.Errorf("have %+v, want root at the lower endpoint", r)
	}
}

func TestFindNotBracketed(t *testing.T) {
	_, err := Find(func(x float64) float64 { return x*x + 1 }, -1, 1, defaultSettings)
	if err != ErrNotBracketed {
		t.Errorf("have %v, want %v", err, ErrNotBracketed)
	}
}

func TestFindMaxIter(t *testing.T) {
	s := Settings{RelTol: 1e-15, MaxIter: 3}
	r, err := Find(func(x float64) float64 { return math.Atan(x - 0.3) }, -100, 1000, s)
	if err != nil {
		t.Fatal(err)
	}
	if r.Converged {
		t.Errorf("should not converge in %d iterations: %+v", s.MaxIter, r)
	}
	if r.X != 0 || r.Iterations != s.MaxIter {
		t.Errorf("have %+v", r)
	}
}
