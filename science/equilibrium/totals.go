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

// Totals holds the total concentrations of the acid-base systems other than
// carbonate that contribute to alkalinity [mol/kg-SW].
type Totals struct {
	// BT is total borate.
	BT float64
	// ST is total sulfate.
	ST float64
	// FT is total fluoride.
	FT float64
}

// CalculateTotals returns the total concentrations at salinity s [PSU].
// All totals are zero in fresh water.
func CalculateTotals(s float64, b Borate) Totals {
	cl := s / 1.80655 // chlorinity [‰]
	t := Totals{
		ST: 0.14 * cl / 96.062,     // Morris & Riley (1966)
		FT: 0.000067 * cl / 18.998, // Riley (1965)
	}
	switch b {
	case Uppstrom1974:
		t.BT = 0.000416 * s / 35
	default:
		t.BT = 0.0004326 * s / 35 // Lee et al. (2010)
	}
	return t
}
