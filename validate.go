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
	"io"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrNoReferenceCases is returned when a reference table has no usable
// rows.
var ErrNoReferenceCases = errors.New("carbsys: reference table has no usable rows")

// Tolerances are the maximum allowed absolute errors when comparing
// results to a reference table.
type Tolerances struct {
	PH   float64
	PCO2 float64 // [atm]
}

// DefaultTolerances returns the default validation tolerances: 1e-6 pH
// units and 1e-8 atm.
func DefaultTolerances() Tolerances {
	return Tolerances{PH: 1e-6, PCO2: 1e-8}
}

// CaseOutcome is the result of checking one reference case.
type CaseOutcome struct {
	Case   ReferenceCase
	Result Result

	// Err is set if the case inputs are invalid.
	Err error

	// PHError and PCO2Error are absolute differences from the expected
	// values. They are NaN if the solve failed.
	PHError, PCO2Error float64

	Pass bool
}

// ValidationReport summarizes a comparison against a reference table.
type ValidationReport struct {
	Outcomes []CaseOutcome
	Skipped  []SkippedRow

	// Passed counts cases within tolerance, Failed counts all other cases
	// and NotConverged counts the failed cases whose solve did not
	// converge or could not be attempted.
	Passed, Failed, NotConverged int

	// MaxPHError, MeanPHError and MaxPCO2Error are calculated over the
	// converged cases.
	MaxPHError, MeanPHError, MaxPCO2Error float64
}

// OK reports whether every case passed.
func (r *ValidationReport) OK() bool {
	return len(r.Outcomes) > 0 && r.Failed == 0
}

// Validate solves every case in t with options o and compares the total
// scale pH and pCO2 to the expected values. Reference cases are surface
// samples on the total scale, so o.PHScale should be PHTotal.
func Validate(t *ReferenceTable, o Options, tol Tolerances) (*ValidationReport, error) {
	if len(t.Cases) == 0 {
		return nil, ErrNoReferenceCases
	}
	samples := make([]Sample, len(t.Cases))
	for i, c := range t.Cases {
		samples[i] = c.Sample
	}
	results, errs := solveEach(samples, o)

	rep := &ValidationReport{Skipped: t.Skipped}
	var phErrs, pco2Errs []float64
	for i, c := range t.Cases {
		out := CaseOutcome{Case: c, Result: results[i], Err: errs[i], PHError: math.NaN(), PCO2Error: math.NaN()}
		if out.Err == nil && out.Result.Converged {
			out.PHError = math.Abs(out.Result.PH - c.PH)
			out.PCO2Error = math.Abs(out.Result.PCO2 - c.PCO2)
			out.Pass = out.PHError <= tol.PH && out.PCO2Error <= tol.PCO2
			phErrs = append(phErrs, out.PHError)
			pco2Errs = append(pco2Errs, out.PCO2Error)
		} else {
			rep.NotConverged++
		}
		if out.Pass {
			rep.Passed++
		} else {
			rep.Failed++
		}
		rep.Outcomes = append(rep.Outcomes, out)
	}
	if len(phErrs) > 0 {
		rep.MaxPHError = floats.Max(phErrs)
		rep.MeanPHError = stat.Mean(phErrs, nil)
		rep.MaxPCO2Error = floats.Max(pco2Errs)
	}
	return rep, nil
}

// Fprint writes one PASS or FAIL line per case followed by a summary.
// Failures report the exact inputs of the case.
func (r *ValidationReport) Fprint(w io.Writer) error {
	for _, s := range r.Skipped {
		if _, err := fmt.Fprintf(w, "SKIP line %d: %s\n", s.Line, s.Reason); err != nil {
			return err
		}
	}
	for _, o := range r.Outcomes {
		c := o.Case
		var err error
		switch {
		case o.Pass:
			_, err = fmt.Fprintf(w, "PASS line %d: pH %.6f, pCO2 %.4e atm\n", c.Line, o.Result.PH, o.Result.PCO2)
		case o.Err != nil:
			_, err = fmt.Fprintf(w, "FAIL line %d: T=%v S=%v DIC=%v TA=%v: %v\n", c.Line, c.T, c.S, c.DIC, c.TA, o.Err)
		case !o.Result.Converged:
			_, err = fmt.Fprintf(w, "FAIL line %d: T=%v S=%v DIC=%v TA=%v: did not converge after %d iterations\n",
				c.Line, c.T, c.S, c.DIC, c.TA, o.Result.Iterations)
		default:
			_, err = fmt.Fprintf(w, "FAIL line %d: T=%v S=%v DIC=%v TA=%v: pH %.9f want %.9f (error %.3g), pCO2 %.6e want %.6e (error %.3g)\n",
				c.Line, c.T, c.S, c.DIC, c.TA, o.Result.PH, c.PH, o.PHError, o.Result.PCO2, c.PCO2, o.PCO2Error)
		}
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d passed, %d failed (%d not converged), %d skipped; max |ΔpH| %.3g, mean |ΔpH| %.3g, max |ΔpCO2| %.3g atm\n",
		r.Passed, r.Failed, r.NotConverged, len(r.Skipped), r.MaxPHError, r.MeanPHError, r.MaxPCO2Error)
	return err
}
