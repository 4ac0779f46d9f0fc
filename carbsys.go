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

// Package carbsys solves the seawater carbonate system: given dissolved
// inorganic carbon, total alkalinity, temperature, salinity and pressure it
// calculates pH, the partial pressure of CO2 and the concentrations of
// carbonic acid, bicarbonate and carbonate ions.
package carbsys

import (
	"errors"
	"fmt"
	"math"

	"github.com/spatialmodel/carbsys/science/equilibrium"
)

// Version gives the version number.
const Version = "1.0.0"

// ErrPrecondition is wrapped by the errors returned for invalid inputs.
var ErrPrecondition = errors.New("carbsys: precondition violated")

// Sample holds the state of one parcel of water.
type Sample struct {
	// T is temperature [°C]. Equilibrium constants are evaluated at no
	// less than 0 °C.
	T float64

	// S is practical salinity [PSU].
	S float64

	// P is gauge pressure [bar], zero at the surface.
	P float64

	// DIC is dissolved inorganic carbon [mol/kg-SW].
	DIC float64

	// TA is total alkalinity [mol/kg-SW].
	TA float64
}

// check returns an error wrapping ErrPrecondition if s cannot be solved.
func (s Sample) check() error {
	for _, v := range []struct {
		name string
		val  float64
	}{{"T", s.T}, {"S", s.S}, {"P", s.P}, {"DIC", s.DIC}, {"TA", s.TA}} {
		if math.IsNaN(v.val) || math.IsInf(v.val, 0) {
			return fmt.Errorf("%w: %s is %g", ErrPrecondition, v.name, v.val)
		}
	}
	if s.S < 0 {
		return fmt.Errorf("%w: salinity %g is negative", ErrPrecondition, s.S)
	}
	if s.P < 0 {
		return fmt.Errorf("%w: pressure %g is negative", ErrPrecondition, s.P)
	}
	if s.DIC < 0 {
		return fmt.Errorf("%w: DIC %g is negative", ErrPrecondition, s.DIC)
	}
	return nil
}

// Options configures a solve. Zero-valued solver settings are replaced by
// the values returned by DefaultOptions.
type Options struct {
	// Options selects the equilibrium constant formulations and the pH
	// scale results are reported on.
	equilibrium.Options

	// PHMin and PHMax bound the search for the hydrogen-ion concentration.
	PHMin, PHMax float64

	// WidePHMin and WidePHMax bound the single retry that is made when the
	// root is not bracketed by PHMin and PHMax.
	WidePHMin, WidePHMax float64

	// FTol is the alkalinity residual [mol/kg-SW] below which the
	// solution is considered converged.
	FTol float64

	// RelTol is the relative tolerance on the hydrogen-ion concentration.
	RelTol float64

	// MaxIter is the maximum number of root finder iterations per bracket.
	MaxIter int
}

// DefaultOptions returns the default configuration: total pH scale,
// Lueker et al. (2000) carbonic acid constants, Lee et al. (2010) borate
// and Perez and Fraga (1987) hydrogen fluoride.
func DefaultOptions() Options {
	return Options{
		PHMin:     2,
		PHMax:     12,
		WidePHMin: 1,
		WidePHMax: 13,
		FTol:      1e-12,
		RelTol:    1e-8,
		MaxIter:   100,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.PHMin == 0 && o.PHMax == 0 {
		o.PHMin, o.PHMax = d.PHMin, d.PHMax
	}
	if o.WidePHMin == 0 && o.WidePHMax == 0 {
		o.WidePHMin, o.WidePHMax = d.WidePHMin, d.WidePHMax
	}
	if o.FTol == 0 {
		o.FTol = d.FTol
	}
	if o.RelTol == 0 {
		o.RelTol = d.RelTol
	}
	if o.MaxIter == 0 {
		o.MaxIter = d.MaxIter
	}
	return o
}

func (o Options) validate() error {
	if err := o.Options.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrPrecondition, err)
	}
	if !(o.PHMin < o.PHMax) {
		return fmt.Errorf("%w: PHMin (%g) must be less than PHMax (%g)", ErrPrecondition, o.PHMin, o.PHMax)
	}
	if !(o.WidePHMin < o.WidePHMax) {
		return fmt.Errorf("%w: WidePHMin (%g) must be less than WidePHMax (%g)", ErrPrecondition, o.WidePHMin, o.WidePHMax)
	}
	if o.FTol < 0 || o.RelTol < 0 || o.MaxIter < 0 {
		return fmt.Errorf("%w: solver tolerances and MaxIter must not be negative", ErrPrecondition)
	}
	return nil
}

// Stage is a step of the solution pipeline.
type Stage int

// The stages of a solve, in order. A solve ends in StageConverged or
// StageFailed unless its inputs are invalid.
const (
	StageInit Stage = iota
	StageConstantsComputed
	StageTotalsComputed
	StageSolving
	StageConverged
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageInit:
		return "Init"
	case StageConstantsComputed:
		return "ConstantsComputed"
	case StageTotalsComputed:
		return "TotalsComputed"
	case StageSolving:
		return "Solving"
	case StageConverged:
		return "Converged"
	case StageFailed:
		return "Failed"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Result holds the solution for one Sample.
type Result struct {
	// H is the hydrogen-ion concentration [mol/kg-SW] on scale Scale.
	// It is zero if the solve did not converge.
	H     float64
	Scale equilibrium.Scale

	// PH is the pH on scale PHScale.
	PH      float64
	PHScale equilibrium.PHScale

	// PCO2 is the partial pressure of CO2 [atm].
	PCO2 float64

	// H2CO3, HCO3 and CO3 are the concentrations [mol/kg-SW] of carbonic
	// acid (dissolved CO2), bicarbonate and carbonate.
	H2CO3, HCO3, CO3 float64

	// K0 is the CO2 solubility [mol/kg-SW/atm].
	K0 float64

	Converged bool

	// Iterations is the number of root finder iterations in the final
	// bracket.
	Iterations int

	// Widened is true if the wide pH bracket was searched.
	Widened bool

	Stage Stage
}
