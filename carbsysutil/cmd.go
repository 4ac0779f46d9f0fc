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

// Package carbsysutil contains the command-line interface of CarbSys.
package carbsysutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/carbsys"
	"github.com/spatialmodel/carbsys/science/equilibrium"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	solverSets := []*pflag.FlagSet{solveCmd.Flags(), constantsCmd.Flags(), validateCmd.Flags(),
		batchCmd.Flags(), gridCmd.Flags(), sweepCmd.Flags()}

	// Options are the configuration options available to CarbSys.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum level of log messages to print:
              debug, info, warning, error or fatal.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "PHScale",
			usage: `
              PHScale is the pH scale that results are reported on: Total,
              SWS, SWSLegacy or Free. SWSLegacy evaluates all constants on
              the seawater scale using the Mehrbach et al. (1973) carbonic
              acid constants refit by Dickson and Millero (1987).`,
			defaultVal: "Total",
			flagsets:   solverSets,
		},
		{
			name: "Carbonic",
			usage: `
              Carbonic selects the carbonic acid dissociation constants:
              Lueker2000 (valid for S 19-43) or Millero2010 (S 1-50).`,
			defaultVal: "Lueker2000",
			flagsets:   solverSets,
		},
		{
			name: "Borate",
			usage: `
              Borate selects the total borate to salinity ratio: Lee2010
              or Uppstrom1974.`,
			defaultVal: "Lee2010",
			flagsets:   solverSets,
		},
		{
			name: "Fluoride",
			usage: `
              Fluoride selects the hydrogen fluoride dissociation constant:
              PerezFraga1987 or DicksonRiley1979.`,
			defaultVal: "PerezFraga1987",
			flagsets:   solverSets,
		},
		{
			name: "Solver.PHMin",
			usage: `
              Solver.PHMin is the lower pH limit of the search bracket.`,
			defaultVal: 2.0,
			flagsets:   solverSets,
		},
		{
			name: "Solver.PHMax",
			usage: `
              Solver.PHMax is the upper pH limit of the search bracket.`,
			defaultVal: 12.0,
			flagsets:   solverSets,
		},
		{
			name: "Solver.MaxIter",
			usage: `
              Solver.MaxIter is the maximum number of root finder iterations.`,
			defaultVal: 100,
			flagsets:   solverSets,
		},
		{
			name: "T",
			usage: `
              T is the temperature [°C].`,
			defaultVal: 25.0,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), constantsCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "S",
			usage: `
              S is the practical salinity [PSU].`,
			defaultVal: 35.0,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), constantsCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "P",
			usage: `
              P is the gauge pressure [bar], zero at the surface.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), constantsCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "DIC",
			usage: `
              DIC is the dissolved inorganic carbon [mol/kg].`,
			defaultVal: 0.0021,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags()},
		},
		{
			name: "TA",
			usage: `
              TA is the total alkalinity [mol/kg].`,
			defaultVal: 0.0023,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "ReferenceFile",
			usage: `
              ReferenceFile is the path to a reference table in CSV or .xlsx
              format with the columns T, S, DIC_molkg, TA_molkg, expected_pH
              and expected_pCO2_atm. Environment variables are expanded.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{validateCmd.Flags()},
		},
		{
			name: "Validate.PHTolerance",
			usage: `
              Validate.PHTolerance is the largest allowed absolute pH error.`,
			defaultVal: carbsys.DefaultTolerances().PH,
			flagsets:   []*pflag.FlagSet{validateCmd.Flags()},
		},
		{
			name: "Validate.PCO2Tolerance",
			usage: `
              Validate.PCO2Tolerance is the largest allowed absolute pCO2
              error [atm].`,
			defaultVal: carbsys.DefaultTolerances().PCO2,
			flagsets:   []*pflag.FlagSet{validateCmd.Flags()},
		},
		{
			name: "InputFile",
			usage: `
              InputFile is the path to the input file: CSV with the columns
              T, S, DIC, TA and optionally P for batch, or NetCDF with the
              variables T, S, DIC, TA and optionally P, each with the
              dimensions [time, point], for grid.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{batchCmd.Flags(), gridCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the output file: CSV for batch and
              sweep, NetCDF for grid.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{batchCmd.Flags(), gridCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "OutputVariables",
			usage: `
              OutputVariables specifies additional output variables to
              calculate, in the form {"name":"expression"}. Expressions can
              use the variables T, S, P, DIC, TA, H, pH, pCO2, H2CO3, HCO3,
              CO3, K0, converged and iterations, other output variables and
              the functions exp, ln and log10.`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{batchCmd.Flags()},
		},
		{
			name: "MetricsFile",
			usage: `
              MetricsFile, if specified, is the path that solver outcome
              counts are written to in the Prometheus text format.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{gridCmd.Flags()},
		},
		{
			name: "MaxCacheEntries",
			usage: `
              MaxCacheEntries is the maximum number of points whose last
              converged result is kept for reuse after a failed solve.
              Zero means no limit.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{gridCmd.Flags()},
		},
		{
			name: "Sweep.DICMin",
			usage: `
              Sweep.DICMin is the lowest DIC in the sweep [mol/kg].`,
			defaultVal: 0.0018,
			flagsets:   []*pflag.FlagSet{sweepCmd.Flags()},
		},
		{
			name: "Sweep.DICMax",
			usage: `
              Sweep.DICMax is the highest DIC in the sweep [mol/kg].`,
			defaultVal: 0.0024,
			flagsets:   []*pflag.FlagSet{sweepCmd.Flags()},
		},
		{
			name: "Sweep.Steps",
			usage: `
              Sweep.Steps is the number of DIC values in the sweep.`,
			defaultVal: 25,
			flagsets:   []*pflag.FlagSet{sweepCmd.Flags()},
		},
		{
			name: "Sweep.PlotFile",
			usage: `
              Sweep.PlotFile, if specified, is the path that a plot of pH
              against DIC is written to. The format is determined by the
              extension, for example .png or .svg.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{sweepCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("CARBSYS")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(v)
				set.StringP(option.name, option.shorthand, b.String(), option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(solveCmd)
	Root.AddCommand(constantsCmd)
	Root.AddCommand(validateCmd)
	Root.AddCommand(batchCmd)
	Root.AddCommand(gridCmd)
	Root.AddCommand(sweepCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and configures logging.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("carbsysutil: problem reading configuration file: %v", err)
		}
	}
	return setLogging(Cfg.GetString("LogLevel"))
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "carbsys",
	Short: "A seawater carbonate system solver.",
	Long: `CarbSys calculates pH, the partial pressure of CO2 and the carbonate
speciation of seawater from dissolved inorganic carbon, total alkalinity,
temperature, salinity and pressure.
Use the subcommands specified below to access the model functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'CARBSYS_var' where 'var' is the
name of the variable to be set. File paths are allowed to contain environment
variables. Refer to https://github.com/spf13/viper for additional configuration
information.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of CarbSys.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "CarbSys v%s\n", carbsys.Version)
	},
	DisableAutoGenTag: true,
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve the carbonate system for one sample",
	Long: `solve calculates pH, pCO2 and the carbonate speciation for the
sample specified by T, S, P, DIC and TA. It returns an error if the
solve does not converge.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := SolverOptions(Cfg)
		if err != nil {
			return err
		}
		s := sampleConfig(Cfg)
		r, err := carbsys.Solve(s, o)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), s, r)
	},
	DisableAutoGenTag: true,
}

var constantsCmd = &cobra.Command{
	Use:   "constants",
	Short: "Print equilibrium constants",
	Long: `constants prints the equilibrium constants and total concentrations
at the temperature, salinity and pressure specified by T, S and P, each
with the pH scale it is expressed on.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := SolverOptions(Cfg)
		if err != nil {
			return err
		}
		s := sampleConfig(Cfg)
		c, err := equilibrium.Calculate(s.T, s.S, s.P, o.Options)
		if err != nil {
			return err
		}
		return printConstants(cmd.OutOrStdout(), c, equilibrium.CalculateTotals(s.S, o.Borate))
	},
	DisableAutoGenTag: true,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Compare results to a reference table",
	Long: `validate solves every row of the reference table specified by
ReferenceFile and compares the total scale pH and pCO2 to the expected
values. It prints PASS or FAIL for each row and returns an error if any
row fails, does not converge, or if the table has no usable rows.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := SolverOptions(Cfg)
		if err != nil {
			return err
		}
		f, err := checkInputFile(Cfg.GetString("ReferenceFile"), "ReferenceFile")
		if err != nil {
			return err
		}
		tol := carbsys.Tolerances{
			PH:   Cfg.GetFloat64("Validate.PHTolerance"),
			PCO2: Cfg.GetFloat64("Validate.PCO2Tolerance"),
		}
		return Validate(cmd.OutOrStdout(), f, o, tol)
	},
	DisableAutoGenTag: true,
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Solve a table of samples",
	Long: `batch solves every sample in the CSV file specified by InputFile
and writes the samples, results and any OutputVariables to the CSV file
specified by OutputFile. Results that do not converge are written as NaN.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := SolverOptions(Cfg)
		if err != nil {
			return err
		}
		in, err := checkInputFile(Cfg.GetString("InputFile"), "InputFile")
		if err != nil {
			return err
		}
		out, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		vars, err := GetStringMapString("OutputVariables", Cfg)
		if err != nil {
			return err
		}
		return Batch(in, out, checkOutputVars(vars), o, logrus.StandardLogger())
	},
	DisableAutoGenTag: true,
}

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Solve gridded samples",
	Long: `grid solves every time step and point of the NetCDF file specified by
InputFile and writes pH, pCO2, H2CO3, HCO3, CO3 and the converged and
fallback flags to the NetCDF file specified by OutputFile. When a solve
fails, the last converged result for the same point is used instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := SolverOptions(Cfg)
		if err != nil {
			return err
		}
		in, err := checkInputFile(Cfg.GetString("InputFile"), "InputFile")
		if err != nil {
			return err
		}
		out, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		return Grid(cmd.OutOrStdout(), in, out, os.ExpandEnv(Cfg.GetString("MetricsFile")),
			Cfg.GetInt("MaxCacheEntries"), o, logrus.StandardLogger())
	},
	DisableAutoGenTag: true,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Calculate pH over a range of DIC",
	Long: `sweep solves the sample specified by T, S, P and TA at Sweep.Steps
evenly spaced DIC values from Sweep.DICMin to Sweep.DICMax and writes the
results as CSV to OutputFile, or to standard output if OutputFile is not
specified. If Sweep.PlotFile is specified, a plot of pH against DIC is
also written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := SolverOptions(Cfg)
		if err != nil {
			return err
		}
		out := os.ExpandEnv(Cfg.GetString("OutputFile"))
		if out != "" {
			if out, err = checkOutputFile(out); err != nil {
				return err
			}
		}
		return Sweep(cmd.OutOrStdout(), sampleConfig(Cfg),
			Cfg.GetFloat64("Sweep.DICMin"), Cfg.GetFloat64("Sweep.DICMax"), Cfg.GetInt("Sweep.Steps"),
			out, os.ExpandEnv(Cfg.GetString("Sweep.PlotFile")), o)
	},
	DisableAutoGenTag: true,
}
