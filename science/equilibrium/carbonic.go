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

// carbonic returns the first and second dissociation constants of
// carbonic acid at temperature tk [K] and salinity s, tagged with the
// scale of the formulation that produced them.
func carbonic(o Options, tk, s float64) (k1, k2 Constant) {
	if o.PHScale == PHSWSLegacy {
		return mehrbachDicksonMillero(tk, s)
	}
	if o.Carbonic == Millero2010 {
		return millero2010(tk, s)
	}
	return lueker2000(tk, s)
}

// lueker2000 returns K1 and K2 on the total scale from Lueker et al. (2000).
func lueker2000(tk, s float64) (k1, k2 Constant) {
	lnTK := math.Log(tk)
	pK1 := 3633.86/tk - 61.2172 + 9.6777*lnTK - 0.011555*s + 0.0001152*s*s
	pK2 := 471.78/tk + 25.929 - 3.16967*lnTK - 0.01781*s + 0.0001122*s*s
	return Constant{math.Pow(10, -pK1), ScaleTotal}, Constant{math.Pow(10, -pK2), ScaleTotal}
}

// millero2010 returns K1 and K2 on the seawater scale from Millero (2010),
// which holds down to fresh water.
func millero2010(tk, s float64) (k1, k2 Constant) {
	lnTK := math.Log(tk)
	sqrtS := math.Sqrt(s)
	pK1 := -126.34048 + 6320.813/tk + 19.568224*lnTK +
		13.4038*sqrtS + 0.03206*s - 5.242e-5*s*s +
		(-530.659*sqrtS-5.8210*s)/tk - 2.0664*sqrtS*lnTK
	pK2 := -90.18333 + 5143.692/tk + 14.613358*lnTK +
		21.3728*sqrtS + 0.1218*s - 3.688e-4*s*s +
		(-788.289*sqrtS-19.189*s)/tk - 3.374*sqrtS*lnTK
	return Constant{math.Pow(10, -pK1), ScaleSWS}, Constant{math.Pow(10, -pK2), ScaleSWS}
}

// mehrbachDicksonMillero returns K1 and K2 on the seawater scale from
// Mehrbach et al. (1973) as refit by Dickson and Millero (1987).
func mehrbachDicksonMillero(tk, s float64) (k1, k2 Constant) {
	lnTK := math.Log(tk)
	pK1 := 3670.7/tk - 62.008 + 9.7944*lnTK - 0.0118*s + 0.000116*s*s
	pK2 := 1394.7/tk + 4.777 - 0.0184*s + 0.000118*s*s
	return Constant{math.Pow(10, -pK1), ScaleSWS}, Constant{math.Pow(10, -pK2), ScaleSWS}
}
