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

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/Knetic/govaluate"
)

func TestOutputter(t *testing.T) {
	o, err := NewOutputter(map[string]string{
		"pCO2_uatm":  "pCO2 * 1e6",
		"CO3_umol":   "CO3 * 1e6",
		"omegaProxy": "CO3_umol / 100",
		"HFromPH":    "exp(-pH * ln(10))",
		"deep":       "P > 100",
		"double":     "twice(TA)",
	}, map[string]govaluate.ExpressionFunction{
		"twice": func(args ...interface{}) (interface{}, error) {
			return 2 * args[0].(float64), nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	wantNames := []string{"CO3_umol", "HFromPH", "deep", "double", "omegaProxy", "pCO2_uatm"}
	if !reflect.DeepEqual(o.Names(), wantNames) {
		t.Errorf("names: have %v, want %v", o.Names(), wantNames)
	}
	s := Sample{T: 25, S: 35, DIC: 0.0021, TA: 0.0023}
	r, err := Solve(s, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	vals, err := o.Evaluate(s, r)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{r.CO3 * 1e6, math.Pow(10, -r.PH), 0, 0.0046, r.CO3 * 1e4, r.PCO2 * 1e6}
	for i, v := range vals {
		if different(v, want[i], 1e-12) && !(v == 0 && want[i] == 0) {
			t.Errorf("%s: have %g, want %g", wantNames[i], v, want[i])
		}
	}
}

func TestOutputterNotConverged(t *testing.T) {
	o, err := NewOutputter(map[string]string{"ph": "pH", "ok": "converged", "t": "T"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	vals, err := o.Evaluate(Sample{T: 3}, Result{Stage: StageFailed})
	if err != nil {
		t.Fatal(err)
	}
	// Names are sorted: ok, ph, t.
	if vals[0] != 0 || !math.IsNaN(vals[1]) || vals[2] != 3 {
		t.Errorf("have %v", vals)
	}
}

func TestOutputterErrors(t *testing.T) {
	for _, test := range []struct {
		name string
		vars map[string]string
		err  string
	}{
		{name: "bad name", vars: map[string]string{"p CO2": "pCO2"}, err: "unsupported characters"},
		{name: "shadow", vars: map[string]string{"pH": "pCO2"}, err: "already a model variable"},
		{name: "undefined", vars: map[string]string{"x": "y * 2"}, err: "undefined variable name 'y'"},
		{name: "cycle", vars: map[string]string{"a": "b + 1", "b": "a + 1"}, err: "refers to itself"},
		{name: "syntax", vars: map[string]string{"a": "pH +"}, err: "output variable a"},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewOutputter(test.vars, nil)
			if err == nil || !strings.Contains(err.Error(), test.err) {
				t.Errorf("have error %v, want %q", err, test.err)
			}
		})
	}
}
