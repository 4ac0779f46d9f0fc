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

package equilibrium

import "fmt"

// Constant is an acid dissociation constant tagged with the pH scale that
// its hydrogen-ion concentration is expressed on.
type Constant struct {
	Value float64
	Scale Scale
}

func (c Constant) String() string {
	return fmt.Sprintf("%g (%v)", c.Value, c.Scale)
}

// To returns c converted to scale s using the conversion factors f.
func (c Constant) To(s Scale, f Factors) Constant {
	return Constant{Value: c.Value * f.Ratio(c.Scale, s), Scale: s}
}

// scaled returns c multiplied by a correction factor that does not
// change its scale.
func (c Constant) scaled(factor float64) Constant {
	return Constant{Value: c.Value * factor, Scale: c.Scale}
}

// Factors holds the ratios between hydrogen-ion concentrations on the
// different pH scales at a given temperature, salinity and pressure.
type Factors struct {
	// SWS2Total is [H+]T / [H+]SWS.
	SWS2Total float64
	// Free2Total is [H+]T / [H+]F.
	Free2Total float64
}

// NewFactors returns the scale conversion factors for the given totals
// and free-scale bisulfate (ks) and hydrogen fluoride (kf) dissociation
// constants.
func NewFactors(t Totals, ks, kf float64) Factors {
	free2total := 1 + t.ST/ks
	return Factors{
		Free2Total: free2total,
		SWS2Total:  free2total / (free2total + t.FT/kf),
	}
}

// toTotal returns [H+]T / [H+] on scale s.
func (f Factors) toTotal(s Scale) float64 {
	switch s {
	case ScaleSWS:
		return f.SWS2Total
	case ScaleFree:
		return f.Free2Total
	}
	return 1
}

// Ratio returns [H+] on scale to divided by [H+] on scale from.
func (f Factors) Ratio(from, to Scale) float64 {
	if from == to {
		return 1
	}
	return f.toTotal(from) / f.toTotal(to)
}
