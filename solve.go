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

package carbsys

import (
	"errors"
	"fmt"
	"math"

	"github.com/spatialmodel/carbsys/internal/brent"
	"github.com/spatialmodel/carbsys/science/equilibrium"
)

// Solve calculates the carbonate system for s. The returned error is
// non-nil only if s or o is invalid, in which case it wraps
// ErrPrecondition. A solve that does not converge returns a Result with
// Converged == false and a nil error. Solve holds no state and may be
// called concurrently.
func Solve(s Sample, o Options) (Result, error) {
	o = o.withDefaults()
	r := Result{PHScale: o.PHScale, Stage: StageInit}
	if err := o.validate(); err != nil {
		return r, err
	}
	if err := s.check(); err != nil {
		return r, err
	}

	c, err := equilibrium.Calculate(s.T, s.S, s.P, o.Options)
	if err != nil {
		return r, fmt.Errorf("%w: %v", ErrPrecondition, err)
	}
	r.K0 = c.K0
	r.Stage = StageConstantsComputed

	t := equilibrium.CalculateTotals(s.S, o.Borate)
	r.Stage = StageTotalsComputed

	ws, err := c.WorkingScale()
	if err != nil {
		return r, fmt.Errorf("carbsys: %v", err)
	}
	r.Scale = ws
	sys := System{
		DIC: s.DIC, TA: s.TA, BT: t.BT,
		K1: c.K1.Value, K2: c.K2.Value, KB: c.KB.Value, KW: c.KW.Value,
	}
	r.Stage = StageSolving

	f := func(h float64) float64 { return Residual(h, sys) }
	settings := brent.Settings{FTol: o.FTol, RelTol: o.RelTol, MaxIter: o.MaxIter}
	root, err := brent.Find(f, hFromPH(o.PHMax), hFromPH(o.PHMin), settings)
	if errors.Is(err, brent.ErrNotBracketed) {
		r.Widened = true
		root, err = brent.Find(f, hFromPH(o.WidePHMax), hFromPH(o.WidePHMin), settings)
	}
	r.Iterations = root.Iterations
	if err != nil || !root.Converged {
		r.Stage = StageFailed
		return r, nil
	}

	h := root.X
	sp := Speciate(h, s.DIC, c.K0, sys.K1, sys.K2)
	r.H = h
	r.PH = -math.Log10(h * c.Ratio(ws, o.PHScale.Scale()))
	r.PCO2 = sp.PCO2
	r.H2CO3 = sp.H2CO3
	r.HCO3 = sp.HCO3
	r.CO3 = sp.CO3
	r.Converged = true
	r.Stage = StageConverged
	return r, nil
}

// hFromPH returns the hydrogen-ion concentration at pH ph.
func hFromPH(ph float64) float64 { return math.Pow(10, -ph) }
