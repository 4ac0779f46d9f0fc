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

import (
	"fmt"
	"strings"
)

// Scale is a pH scale convention, i.e. the definition of the hydrogen-ion
// concentration that an equilibrium constant or a pH value refers to.
type Scale int

const (
	// ScaleTotal is the total scale: [H+]T = [H+]F (1 + ST/KS).
	ScaleTotal Scale = iota
	// ScaleSWS is the seawater scale: [H+]SWS = [H+]F (1 + ST/KS + FT/KF).
	ScaleSWS
	// ScaleFree is the free scale.
	ScaleFree
)

func (s Scale) String() string {
	switch s {
	case ScaleTotal:
		return "Total"
	case ScaleSWS:
		return "SWS"
	case ScaleFree:
		return "Free"
	}
	return fmt.Sprintf("Scale(%d)", int(s))
}

// PHScale selects the pH scale that results are reported on.
type PHScale int

const (
	// PHTotal reports pH on the total scale. It is the default.
	PHTotal PHScale = iota
	// PHSWS reports pH on the seawater scale. Constants are still
	// evaluated on the total scale and the result is converted.
	PHSWS
	// PHSWSLegacy evaluates every constant on the seawater scale using the
	// Mehrbach et al. (1973) K1 and K2 as refit by Dickson and Millero (1987).
	PHSWSLegacy
	// PHFree reports pH on the free scale.
	PHFree
)

var phScaleNames = map[PHScale]string{
	PHTotal:     "Total",
	PHSWS:       "SWS",
	PHSWSLegacy: "SWSLegacy",
	PHFree:      "Free",
}

func (s PHScale) String() string {
	if n, ok := phScaleNames[s]; ok {
		return n
	}
	return fmt.Sprintf("PHScale(%d)", int(s))
}

// Scale returns the scale that pH values are reported on.
func (s PHScale) Scale() Scale {
	switch s {
	case PHSWS, PHSWSLegacy:
		return ScaleSWS
	case PHFree:
		return ScaleFree
	}
	return ScaleTotal
}

// ParsePHScale parses a pH scale name. Matching is case insensitive and
// "SWS_legacy" is accepted as an alias for SWSLegacy.
func ParsePHScale(name string) (PHScale, error) {
	n := strings.Replace(name, "_", "", -1)
	for s, sn := range phScaleNames {
		if strings.EqualFold(n, sn) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("equilibrium: invalid pH scale %q; valid options are Total, SWS, SWSLegacy and Free", name)
}

// Carbonic selects the formulation of the first and second dissociation
// constants of carbonic acid.
type Carbonic int

const (
	// Lueker2000 is Lueker et al. (2000), total scale, valid for S 19-43.
	Lueker2000 Carbonic = iota
	// Millero2010 is Millero (2010), seawater scale, valid for S 1-50.
	Millero2010
)

var carbonicNames = map[Carbonic]string{
	Lueker2000:  "Lueker2000",
	Millero2010: "Millero2010",
}

func (c Carbonic) String() string {
	if n, ok := carbonicNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Carbonic(%d)", int(c))
}

// ParseCarbonic parses a carbonic acid formulation name.
func ParseCarbonic(name string) (Carbonic, error) {
	for c, cn := range carbonicNames {
		if strings.EqualFold(name, cn) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("equilibrium: invalid carbonic acid formulation %q; valid options are Lueker2000 and Millero2010", name)
}

// Borate selects the total borate to salinity ratio.
type Borate int

const (
	// Lee2010 is Lee et al. (2010).
	Lee2010 Borate = iota
	// Uppstrom1974 is Uppström (1974).
	Uppstrom1974
)

var borateNames = map[Borate]string{
	Lee2010:      "Lee2010",
	Uppstrom1974: "Uppstrom1974",
}

func (b Borate) String() string {
	if n, ok := borateNames[b]; ok {
		return n
	}
	return fmt.Sprintf("Borate(%d)", int(b))
}

// ParseBorate parses a total borate formulation name.
func ParseBorate(name string) (Borate, error) {
	for b, bn := range borateNames {
		if strings.EqualFold(name, bn) {
			return b, nil
		}
	}
	return 0, fmt.Errorf("equilibrium: invalid borate formulation %q; valid options are Lee2010 and Uppstrom1974", name)
}

// Fluoride selects the formulation of the hydrogen fluoride dissociation
// constant.
type Fluoride int

const (
	// PerezFraga1987 is Perez and Fraga (1987).
	PerezFraga1987 Fluoride = iota
	// DicksonRiley1979 is Dickson and Riley (1979).
	DicksonRiley1979
)

var fluorideNames = map[Fluoride]string{
	PerezFraga1987:   "PerezFraga1987",
	DicksonRiley1979: "DicksonRiley1979",
}

func (f Fluoride) String() string {
	if n, ok := fluorideNames[f]; ok {
		return n
	}
	return fmt.Sprintf("Fluoride(%d)", int(f))
}

// ParseFluoride parses a fluoride formulation name.
func ParseFluoride(name string) (Fluoride, error) {
	for f, fn := range fluorideNames {
		if strings.EqualFold(name, fn) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("equilibrium: invalid fluoride formulation %q; valid options are PerezFraga1987 and DicksonRiley1979", name)
}

// Options selects the formulations used to calculate equilibrium constants.
// The zero value selects the defaults: total scale, Lueker et al. (2000),
// Lee et al. (2010) and Perez and Fraga (1987).
type Options struct {
	PHScale  PHScale
	Carbonic Carbonic
	Borate   Borate
	Fluoride Fluoride
}

// Validate returns an error if any of the selections in o is unknown.
func (o Options) Validate() error {
	if _, ok := phScaleNames[o.PHScale]; !ok {
		return fmt.Errorf("equilibrium: invalid pH scale %v", o.PHScale)
	}
	if _, ok := carbonicNames[o.Carbonic]; !ok {
		return fmt.Errorf("equilibrium: invalid carbonic acid formulation %v", o.Carbonic)
	}
	if _, ok := borateNames[o.Borate]; !ok {
		return fmt.Errorf("equilibrium: invalid borate formulation %v", o.Borate)
	}
	if _, ok := fluorideNames[o.Fluoride]; !ok {
		return fmt.Errorf("equilibrium: invalid fluoride formulation %v", o.Fluoride)
	}
	return nil
}

// WorkingScale returns the scale that the acid dissociation constants are
// expressed on when calculated with these options: the seawater scale for
// the legacy formulation and the total scale otherwise.
func (o Options) WorkingScale() Scale {
	if o.PHScale == PHSWSLegacy {
		return ScaleSWS
	}
	return ScaleTotal
}
