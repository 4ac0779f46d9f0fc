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

package carbsysutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/carbsys"
	"github.com/spatialmodel/carbsys/science/equilibrium"
	"github.com/spf13/cast"
)

// SolverOptions unmarshals the solver configuration in cfg.
func SolverOptions(cfg *viper.Viper) (carbsys.Options, error) {
	o := carbsys.DefaultOptions()
	var err error
	if o.PHScale, err = equilibrium.ParsePHScale(cfg.GetString("PHScale")); err != nil {
		return o, fmt.Errorf("carbsysutil: PHScale: %v", err)
	}
	if o.Carbonic, err = equilibrium.ParseCarbonic(cfg.GetString("Carbonic")); err != nil {
		return o, fmt.Errorf("carbsysutil: Carbonic: %v", err)
	}
	if o.Borate, err = equilibrium.ParseBorate(cfg.GetString("Borate")); err != nil {
		return o, fmt.Errorf("carbsysutil: Borate: %v", err)
	}
	if o.Fluoride, err = equilibrium.ParseFluoride(cfg.GetString("Fluoride")); err != nil {
		return o, fmt.Errorf("carbsysutil: Fluoride: %v", err)
	}
	o.PHMin = cfg.GetFloat64("Solver.PHMin")
	o.PHMax = cfg.GetFloat64("Solver.PHMax")
	if !(o.PHMin < o.PHMax) {
		return o, fmt.Errorf("carbsysutil: Solver.PHMin (%g) must be less than Solver.PHMax (%g)", o.PHMin, o.PHMax)
	}
	if o.MaxIter = cfg.GetInt("Solver.MaxIter"); o.MaxIter <= 0 {
		return o, fmt.Errorf("carbsysutil: Solver.MaxIter must be positive, but is %d", o.MaxIter)
	}
	return o, nil
}

// sampleConfig returns the sample specified in cfg.
func sampleConfig(cfg *viper.Viper) carbsys.Sample {
	return carbsys.Sample{
		T:   cfg.GetFloat64("T"),
		S:   cfg.GetFloat64("S"),
		P:   cfg.GetFloat64("P"),
		DIC: cfg.GetFloat64("DIC"),
		TA:  cfg.GetFloat64("TA"),
	}
}

// GetStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func GetStringMapString(varName string, cfg *viper.Viper) (map[string]string, error) {
	i := cfg.Get(varName)
	switch v := i.(type) {
	case nil:
		return make(map[string]string), nil
	case map[string]string:
		return v, nil
	case map[string]interface{}:
		return cast.ToStringMapStringE(v)
	case string:
		o := make(map[string]string)
		if strings.TrimSpace(v) == "" {
			return o, nil
		}
		d := json.NewDecoder(bytes.NewBufferString(v))
		if err := d.Decode(&o); err != nil {
			return nil, fmt.Errorf("carbsysutil: parsing %s: %v", varName, err)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("carbsysutil: invalid type for %s: %#v", varName, i)
	}
}

// checkOutputVars removes end lines and expands environment
// variables in the output variables.
func checkOutputVars(vars map[string]string) map[string]string {
	o := make(map[string]string, len(vars))
	for k, v := range vars {
		v = strings.Replace(v, "\r\n", " ", -1)
		v = strings.Replace(v, "\n", " ", -1)
		o[os.ExpandEnv(k)] = os.ExpandEnv(v)
	}
	return o
}

// checkInputFile makes sure that the input file named by the configuration
// variable varName is specified and exists, and expands any environment
// variables.
func checkInputFile(f, varName string) (string, error) {
	if f == "" {
		return "", fmt.Errorf("carbsysutil: you need to specify the %s configuration variable", varName)
	}
	f = os.ExpandEnv(f)
	if _, err := os.Stat(f); err != nil {
		return f, fmt.Errorf("carbsysutil: %s: %v", varName, err)
	}
	return f, nil
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expands any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`carbsysutil: you need to specify an output file configuration variable (for example: OutputFile="output.csv")`)
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("carbsysutil: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// setLogging configures the standard logger to print messages at level
// and above with full timestamps.
func setLogging(level string) error {
	l, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("carbsysutil: LogLevel: %v", err)
	}
	logrus.SetLevel(l)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
	})
	return nil
}

// printResult writes a solve result in human-readable form.
func printResult(w io.Writer, s carbsys.Sample, r carbsys.Result) error {
	if !r.Converged {
		return fmt.Errorf("carbsysutil: solve for T=%v S=%v P=%v DIC=%v TA=%v did not converge after %d iterations",
			s.T, s.S, s.P, s.DIC, s.TA, r.Iterations)
	}
	_, err := fmt.Fprintf(w, `pH (%v scale): %.6f
pCO2: %.6e atm
H2CO3: %.6e mol/kg
HCO3: %.6e mol/kg
CO3: %.6e mol/kg
H+: %.6e mol/kg (%v scale)
K0: %.6e mol/kg/atm
iterations: %d
`, r.PHScale, r.PH, r.PCO2, r.H2CO3, r.HCO3, r.CO3, r.H, r.Scale, r.K0, r.Iterations)
	return err
}

// printConstants writes equilibrium constants and total concentrations in
// human-readable form.
func printConstants(w io.Writer, c *equilibrium.Constants, t equilibrium.Totals) error {
	_, err := fmt.Fprintf(w, `K0: %.6e mol/kg/atm
K1: %v
K2: %v
KB: %v
KW: %v
KS: %v
KF: %v
Total2SWS: %.9f
Total2Free: %.9f
BT: %.6e mol/kg
ST: %.6e mol/kg
FT: %.6e mol/kg
`, c.K0, c.K1, c.K2, c.KB, c.KW, c.KS, c.KF, c.Total2SWS(), c.Total2Free(), t.BT, t.ST, t.FT)
	return err
}
