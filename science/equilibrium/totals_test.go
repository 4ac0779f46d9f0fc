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

import "testing"

func TestCalculateTotals(t *testing.T) {
	const tolerance = 1.e-12
	have := CalculateTotals(35, Lee2010)
	want := Totals{BT: 4.326e-04, ST: 2.823543413286013e-02, FT: 6.832583968836728e-05}
	if different(have.BT, want.BT, tolerance) || different(have.ST, want.ST, tolerance) || different(have.FT, want.FT, tolerance) {
		t.Errorf("have %+v, want %+v", have, want)
	}
	if u := CalculateTotals(35, Uppstrom1974); different(u.BT, 4.16e-4, tolerance) {
		t.Errorf("Uppström borate: have %g, want %g", u.BT, 4.16e-4)
	}
	if f := CalculateTotals(0, Lee2010); f != (Totals{}) {
		t.Errorf("fresh water totals should be zero: %+v", f)
	}
}
