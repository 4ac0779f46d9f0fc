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

// Species holds the carbonate speciation at a known hydrogen-ion
// concentration.
type Species struct {
	H2CO3, HCO3, CO3 float64 // [mol/kg-SW]
	PCO2             float64 // [atm]
}

// Speciate partitions dic among carbonic acid, bicarbonate and carbonate at
// hydrogen-ion concentration h. k1 and k2 must be on the scale of h.
// PCO2 is zero if k0 is not positive.
func Speciate(h, dic, k0, k1, k2 float64) Species {
	denom := h*h + k1*h + k1*k2
	s := Species{
		H2CO3: dic * h * h / denom,
		HCO3:  dic * k1 * h / denom,
		CO3:   dic * k1 * k2 / denom,
	}
	if k0 > 0 {
		s.PCO2 = s.H2CO3 / k0
	}
	return s
}
