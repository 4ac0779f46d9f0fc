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

import "math"

// gasConstant is the universal gas constant [cm³ bar / mol / K].
const gasConstant = 83.14472

// pressureCoefficients hold the partial molal volume and compressibility
// changes of a dissociation reaction from Millero (1995) as polynomials in
// temperature [°C]:
//	ΔV = a0 + a1 T + a2 T²          [cm³/mol]
//	Δκ = (b0 + b1 T) / 1000         [cm³/mol/bar]
type pressureCoefficients struct {
	a0, a1, a2 float64
	b0, b1     float64
}

var (
	k1Pressure = pressureCoefficients{a0: -25.5, a1: 0.1271, b0: -3.08, b1: 0.0877}
	k2Pressure = pressureCoefficients{a0: -15.82, a1: -0.0219, b0: 1.13, b1: -0.1475}
	kbPressure = pressureCoefficients{a0: -29.48, a1: 0.1622, a2: -0.002608, b0: -2.84}
	kwPressure = pressureCoefficients{a0: -20.02, a1: 0.1119, a2: -0.001409, b0: -5.13, b1: 0.0794}
	kfPressure = pressureCoefficients{a0: -9.78, a1: -0.009, a2: -0.000942, b0: -3.91, b1: 0.054}
	ksPressure = pressureCoefficients{a0: -18.03, a1: 0.0466, a2: 0.000316, b0: -4.53, b1: 0.09}
)

// factor returns the multiplicative pressure correction at temperature
// tc [°C], gauge pressure p [bar] and R·TK = rt. It is exactly 1 at the
// surface.
func (c pressureCoefficients) factor(tc, p, rt float64) float64 {
	dv := c.a0 + c.a1*tc + c.a2*tc*tc
	dk := (c.b0 + c.b1*tc) / 1000
	return math.Exp((-dv + 0.5*dk*p) * p / rt)
}
