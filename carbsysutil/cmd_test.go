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
	"encoding/csv"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/lnashier/viper"
	"github.com/spatialmodel/carbsys/science/equilibrium"
)

// resetConfig restores the configuration values that the tests change.
func resetConfig() {
	for _, option := range options {
		Cfg.Set(option.name, option.defaultVal)
	}
	Cfg.Set("OutputVariables", "{}")
}

func execute(t *testing.T, args ...string) (string, error) {
	var buf bytes.Buffer
	Root.SetOutput(&buf)
	Root.SetArgs(args)
	err := Root.Execute()
	return buf.String(), err
}

func TestVersion(t *testing.T) {
	resetConfig()
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "CarbSys v") {
		t.Errorf("have %q", out)
	}
}

func TestSolve(t *testing.T) {
	resetConfig()
	Cfg.Set("T", 25.0)
	Cfg.Set("S", 35.0)
	Cfg.Set("DIC", 0.0021)
	Cfg.Set("TA", 0.0023)
	out, err := execute(t, "solve")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "pH (Total scale): 7.852628") {
		t.Errorf("have output:\n%s", out)
	}

	Cfg.Set("PHScale", "sws")
	out, err = execute(t, "solve")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "pH (SWS scale): 7.842506") {
		t.Errorf("have output:\n%s", out)
	}
}

func TestSolveNotConverged(t *testing.T) {
	resetConfig()
	Cfg.Set("TA", -1.0)
	if _, err := execute(t, "solve"); err == nil || !strings.Contains(err.Error(), "did not converge") {
		t.Errorf("have error %v", err)
	}
}

func TestConstants(t *testing.T) {
	resetConfig()
	Cfg.Set("PHScale", "SWS_legacy")
	out, err := execute(t, "constants")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"K1: ", "(SWS)", "KS: ", "(Free)", "Total2SWS: ", "BT: "} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestSolverOptions(t *testing.T) {
	resetConfig()
	Cfg.Set("PHScale", "free")
	Cfg.Set("Carbonic", "millero2010")
	Cfg.Set("Borate", "Uppstrom1974")
	Cfg.Set("Fluoride", "DicksonRiley1979")
	Cfg.Set("Solver.MaxIter", 50)
	o, err := SolverOptions(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := equilibrium.Options{
		PHScale:  equilibrium.PHFree,
		Carbonic: equilibrium.Millero2010,
		Borate:   equilibrium.Uppstrom1974,
		Fluoride: equilibrium.DicksonRiley1979,
	}
	if o.Options != want || o.MaxIter != 50 || o.PHMin != 2 || o.PHMax != 12 {
		t.Errorf("have %+v", o)
	}

	for name, val := range map[string]interface{}{
		"PHScale":      "NBS",
		"Carbonic":     "Mehrbach",
		"Borate":       "x",
		"Fluoride":     "x",
		"Solver.PHMin": 13.0,
	} {
		resetConfig()
		Cfg.Set(name, val)
		if _, err := SolverOptions(Cfg); err == nil || !strings.Contains(err.Error(), name) {
			t.Errorf("%s=%v: have error %v", name, val, err)
		}
	}
}

func TestGetStringMapString(t *testing.T) {
	resetConfig()
	for _, val := range []interface{}{
		`{"a":"pH * 2"}`,
		map[string]string{"a": "pH * 2"},
		map[string]interface{}{"a": "pH * 2"},
	} {
		Cfg.Set("OutputVariables", val)
		m, err := GetStringMapString("OutputVariables", Cfg)
		if err != nil {
			t.Fatal(err)
		}
		if len(m) != 1 || m["a"] != "pH * 2" {
			t.Errorf("%#v: have %v", val, m)
		}
	}
	Cfg.Set("OutputVariables", `{"a":`)
	if _, err := GetStringMapString("OutputVariables", Cfg); err == nil {
		t.Error("expected an error for invalid JSON")
	}
}

func TestCheckOutputVars(t *testing.T) {
	os.Setenv("CARBSYS_TEST_SCALE", "1e6")
	defer os.Unsetenv("CARBSYS_TEST_SCALE")
	vars := checkOutputVars(map[string]string{"pCO2_uatm": "pCO2 *\n${CARBSYS_TEST_SCALE}"})
	if v := vars["pCO2_uatm"]; v != "pCO2 * 1e6" {
		t.Errorf("have %q", v)
	}
}

func TestValidate(t *testing.T) {
	resetConfig()
	Cfg.Set("ReferenceFile", filepath.Join("..", "testdata", "reference_cases.csv"))
	out, err := execute(t, "validate")
	if err != nil {
		t.Fatalf("%v\n%s", err, out)
	}
	if !strings.Contains(out, "15 passed, 0 failed") {
		t.Errorf("have output:\n%s", out)
	}
}

func TestValidateFailures(t *testing.T) {
	dir, err := ioutil.TempDir("", "carbsysutil")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	for name, contents := range map[string]string{
		"wrong":       "25,35,0.0021,0.0023,7.9,6.72e-04\n",
		"unconverged": "25,35,0.0021,-1,7.9,6.72e-04\n",
		"empty":       "# nothing here\nT,S,DIC_molkg,TA_molkg,expected_pH,expected_pCO2_atm\n",
	} {
		t.Run(name, func(t *testing.T) {
			f := filepath.Join(dir, name+".csv")
			if err := ioutil.WriteFile(f, []byte(contents), 0644); err != nil {
				t.Fatal(err)
			}
			resetConfig()
			Cfg.Set("ReferenceFile", f)
			if _, err := execute(t, "validate"); err == nil {
				t.Error("validation should fail")
			}
		})
	}
	resetConfig()
	if _, err := execute(t, "validate"); err == nil || !strings.Contains(err.Error(), "ReferenceFile") {
		t.Errorf("missing ReferenceFile: have error %v", err)
	}
}

func TestBatch(t *testing.T) {
	dir, err := ioutil.TempDir("", "carbsysutil")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	in := filepath.Join(dir, "samples.csv")
	const samples = "T,S,P,DIC,TA\n25,35,0,0.0021,0.0023\n2,35,400,0.0022,0.0024\n25,35,0,0.0021,-1\n"
	if err := ioutil.WriteFile(in, []byte(samples), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "results.csv")

	resetConfig()
	Cfg.Set("InputFile", in)
	Cfg.Set("OutputFile", out)
	Cfg.Set("OutputVariables", `{"pCO2_uatm":"pCO2 * 1e6"}`)
	if _, err := execute(t, "batch"); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 4 {
		t.Fatalf("have %d records, want 4", len(recs))
	}
	if recs[0][len(recs[0])-1] != "pCO2_uatm" {
		t.Errorf("header: %v", recs[0])
	}
	if !strings.HasPrefix(recs[1][5], "7.852627") {
		t.Errorf("pH: have %s", recs[1][5])
	}
	if recs[3][5] != "NaN" || recs[3][10] != "0" {
		t.Errorf("failed sample: %v", recs[3])
	}
}

func TestGrid(t *testing.T) {
	dir, err := ioutil.TempDir("", "carbsysutil")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "in.nc")
	f, err := os.Create(in)
	if err != nil {
		t.Fatal(err)
	}
	dims := []string{"time", "point"}
	h := cdf.NewHeader(dims, []int{2, 2})
	vars := map[string][]float64{
		"T":   {25, 10, 25, 10},
		"S":   {35, 30, 35, 30},
		"DIC": {0.0021, 0.002, 0.0021, 0.002},
		"TA":  {0.0023, 0.0022, -1, 0.0022},
	}
	names := []string{"DIC", "S", "T", "TA"}
	for _, n := range names {
		h.AddVariable(n, dims, []float64{0})
	}
	h.Define()
	cf, err := cdf.Create(f, h)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range names {
		if _, err := cf.Writer(n, nil, nil).Write(vars[n]); err != nil {
			t.Fatal(err)
		}
	}
	f.Close()

	out := filepath.Join(dir, "out.nc")
	metrics := filepath.Join(dir, "carbsys.prom")
	resetConfig()
	Cfg.Set("InputFile", in)
	Cfg.Set("OutputFile", out)
	Cfg.Set("MetricsFile", metrics)
	Cfg.Set("LogLevel", "error")
	summary, err := execute(t, "grid")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(summary, "3 converged, 1 reused, 0 missing") {
		t.Errorf("have summary %q", summary)
	}
	b, err := ioutil.ReadFile(metrics)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `carbsys_solves_total{outcome="reused"} 1`) {
		t.Errorf("metrics:\n%s", b)
	}

	of, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer of.Close()
	o, err := cdf.Open(of)
	if err != nil {
		t.Fatal(err)
	}
	r := o.Reader("pH", nil, nil)
	buf := r.Zero(4)
	if _, err := r.Read(buf); err != nil {
		t.Fatal(err)
	}
	ph := buf.([]float64)
	if ph[2] != ph[0] {
		t.Errorf("the failed solve should reuse the earlier result: %v", ph)
	}
}

func TestSweep(t *testing.T) {
	dir, err := ioutil.TempDir("", "carbsysutil")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	plotFile := filepath.Join(dir, "sweep.svg")

	resetConfig()
	Cfg.Set("Sweep.Steps", 5)
	Cfg.Set("Sweep.PlotFile", plotFile)
	out, err := execute(t, "sweep")
	if err != nil {
		t.Fatal(err)
	}
	recs, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 6 {
		t.Errorf("have %d records, want 6", len(recs))
	}
	b, err := ioutil.ReadFile(plotFile)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(b, []byte("<svg")) {
		t.Error("plot is not an SVG image")
	}
}

func TestConfigFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "carbsysutil")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	config := filepath.Join(dir, "carbsys.toml")
	const toml = `PHScale = "SWS"
Carbonic = "Millero2010"
Borate = "Lee2010"
Fluoride = "PerezFraga1987"
T = 2.0
S = 34.5
DIC = 0.0022
TA = 0.0024

[Solver]
PHMin = 3.0
PHMax = 11.0
MaxIter = 80
`
	if err := ioutil.WriteFile(config, []byte(toml), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := viper.New()
	cfg.SetConfigFile(config)
	if err := cfg.ReadInConfig(); err != nil {
		t.Fatal(err)
	}
	o, err := SolverOptions(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if o.PHScale != equilibrium.PHSWS || o.Carbonic != equilibrium.Millero2010 ||
		o.PHMin != 3 || o.PHMax != 11 || o.MaxIter != 80 {
		t.Errorf("have %+v", o)
	}
	if s := sampleConfig(cfg); s.T != 2 || s.S != 34.5 || s.P != 0 || s.DIC != 0.0022 || s.TA != 0.0024 {
		t.Errorf("have %+v", s)
	}
}

func TestConfigFileMissing(t *testing.T) {
	resetConfig()
	Cfg.Set("config", filepath.Join("testdata", "does_not_exist.toml"))
	defer Cfg.Set("config", "")
	if _, err := execute(t, "version"); err == nil || !strings.Contains(err.Error(), "configuration file") {
		t.Errorf("have error %v", err)
	}
}
