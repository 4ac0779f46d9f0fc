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

// System holds the quantities other than the hydrogen-ion concentration
// that enter the alkalinity balance. K1, K2, KB and KW must share one pH
// scale.
type System struct {
	DIC, TA, BT    float64
	K1, K2, KB, KW float64
}

// Residual returns the difference between the alkalinity implied by the
// hydrogen-ion concentration h and the measured total alkalinity:
//	F(h) = [HCO3-] + 2[CO3--] + [B(OH)4-] + [OH-] - [H+] - TA
// It decreases monotonically with h, so its root is unique.
func Residual(h float64, s System) float64 {
	denom := h*h + s.K1*h + s.K1*s.K2
	hco3 := s.DIC * s.K1 * h / denom
	co3 := s.DIC * s.K1 * s.K2 / denom
	borate := s.BT * s.KB / (s.KB + h)
	oh := s.KW / h
	return hco3 + 2*co3 + borate + oh - h - s.TA
}
