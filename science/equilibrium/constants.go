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

// Package equilibrium calculates the temperature, salinity and pressure
// dependent equilibrium constants of the seawater carbonate system and the
// total concentrations of the minor acid-base systems that contribute to
// alkalinity.
package equilibrium

import (
	"fmt"
	"math"
)

// zeroCelsius is 0 °C in Kelvin.
const zeroCelsius = 273.15

// Constants holds the equilibrium constants at one temperature, salinity
// and pressure.
type Constants struct {
	// K0 is the CO2 solubility [mol/kg-SW/atm].
	K0 float64

	// K1 and K2 are the first and second dissociation constants of
	// carbonic acid, KB is the dissociation constant of boric acid and
	// KW is the ion product of water. They share the working scale.
	K1, K2, KB, KW Constant

	// KS is the bisulfate and KF the hydrogen fluoride dissociation
	// constant, both on the free scale.
	KS, KF Constant

	// Factors converts between pH scales at the sample pressure.
	Factors
}

// Total2SWS returns [H+]SWS / [H+]T.
func (c *Constants) Total2SWS() float64 { return 1 / c.SWS2Total }

// Total2Free returns [H+]F / [H+]T.
func (c *Constants) Total2Free() float64 { return 1 / c.Free2Total }

// WorkingScale returns the scale shared by K1, K2, KB and KW, or an error
// if they are not all on the same scale.
func (c *Constants) WorkingScale() (Scale, error) {
	s := c.K1.Scale
	for _, k := range []struct {
		name string
		c    Constant
	}{{"K2", c.K2}, {"KB", c.KB}, {"KW", c.KW}} {
		if k.c.Scale != s {
			return s, fmt.Errorf("equilibrium: %s is on the %v scale but K1 is on the %v scale", k.name, k.c.Scale, s)
		}
	}
	return s, nil
}

// Calculate returns the equilibrium constants at temperature tc [°C],
// salinity s [PSU] and gauge pressure p [bar]. Temperatures below 0 °C are
// evaluated at 0 °C. Pressure corrections are applied on the seawater
// scale, after which the constants are converted to the working scale
// selected by o using scale factors recalculated at pressure.
func Calculate(tc, s, p float64, o Options) (*Constants, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if tc < 0 {
		tc = 0
	}
	tk := tc + zeroCelsius
	rt := gasConstant * tk
	t := CalculateTotals(s, o.Borate)

	ks := ksDickson1990(tk, s)
	kf := fluorideConstant(o.Fluoride, tk, s)
	surface := NewFactors(t, ks, kf)

	k1, k2 := carbonic(o, tk, s)
	kb := Constant{Value: kbDickson1990(tk, s), Scale: ScaleTotal}
	kw := Constant{Value: kwMillero1995(tk, s), Scale: ScaleSWS}

	// Millero (1995) pressure corrections apply to seawater scale constants.
	k1 = k1.To(ScaleSWS, surface).scaled(k1Pressure.factor(tc, p, rt))
	k2 = k2.To(ScaleSWS, surface).scaled(k2Pressure.factor(tc, p, rt))
	kb = kb.To(ScaleSWS, surface).scaled(kbPressure.factor(tc, p, rt))
	kw = kw.To(ScaleSWS, surface).scaled(kwPressure.factor(tc, p, rt))
	ks *= ksPressure.factor(tc, p, rt)
	kf *= kfPressure.factor(tc, p, rt)

	c := &Constants{
		K0:      k0Weiss1974(tk, s, p),
		KS:      Constant{Value: ks, Scale: ScaleFree},
		KF:      Constant{Value: kf, Scale: ScaleFree},
		Factors: NewFactors(t, ks, kf),
	}
	ws := o.WorkingScale()
	c.K1 = k1.To(ws, c.Factors)
	c.K2 = k2.To(ws, c.Factors)
	c.KB = kb.To(ws, c.Factors)
	c.KW = kw.To(ws, c.Factors)
	return c, nil
}

// k0Weiss1974 returns the CO2 solubility from Weiss (1974).
func k0Weiss1974(tk, s, p float64) float64 {
	tk100 := tk / 100
	k0 := math.Exp(-60.2409 + 93.4517/tk100 + 23.3585*math.Log(tk100) +
		s*(0.023517-0.023656*tk100+0.0047036*tk100*tk100))
	if p > 0 {
		k0 *= math.Exp(-p * 32.3 / (gasConstant * tk))
	}
	return k0
}

// ionicStrength returns the ionic strength of seawater from Dickson (1990).
func ionicStrength(s float64) float64 {
	return 19.924 * s / (1000 - 1.005*s)
}

// ksDickson1990 returns the bisulfate dissociation constant on the free
// scale from Dickson (1990). The ionic strength terms vanish in fresh water.
func ksDickson1990(tk, s float64) float64 {
	lnTK := math.Log(tk)
	lnKS := -4276.1/tk + 141.328 - 23.093*lnTK
	if s <= 0 {
		return math.Exp(lnKS)
	}
	is := ionicStrength(s)
	sqrtIS := math.Sqrt(is)
	lnKS += (-13856/tk+324.57-47.986*lnTK)*sqrtIS +
		(35474/tk-771.54+114.723*lnTK)*is -
		2698/tk*is*sqrtIS + 1776/tk*is*is
	return math.Exp(lnKS) * (1 - 0.001005*s)
}

// fluorideConstant returns the hydrogen fluoride dissociation constant on the free scale.
func fluorideConstant(f Fluoride, tk, s float64) float64 {
	if f == DicksonRiley1979 {
		var is float64
		if s > 0 {
			is = ionicStrength(s)
		}
		return math.Exp(1590.2/tk-12.641+1.525*math.Sqrt(is)) * (1 - 0.001005*s)
	}
	// Perez & Fraga (1987)
	return math.Exp(874/tk - 9.68 + 0.111*math.Sqrt(s))
}

// kbDickson1990 returns the boric acid dissociation constant on the total
// scale from Dickson (1990).
func kbDickson1990(tk, s float64) float64 {
	lnTK := math.Log(tk)
	sqrtS := math.Sqrt(s)
	top := -8966.9 - 2890.53*sqrtS - 77.942*s + 1.728*s*sqrtS - 0.0996*s*s
	return math.Exp(top/tk + 148.0248 + 137.1942*sqrtS + 1.62142*s +
		(-24.4344-25.085*sqrtS-0.2474*s)*lnTK + 0.053105*sqrtS*tk)
}

// kwMillero1995 returns the ion product of water on the seawater scale
// from Millero (1995).
func kwMillero1995(tk, s float64) float64 {
	lnTK := math.Log(tk)
	return math.Exp(148.9802 - 13847.26/tk - 23.6521*lnTK +
		(-5.977+118.67/tk+1.0495*lnTK)*math.Sqrt(s) - 0.01615*s)
}
