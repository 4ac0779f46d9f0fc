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
	"fmt"
	"math"
	"regexp"
	"sort"

	"github.com/Knetic/govaluate"
)

// ModelVariables are the names that output variable expressions can refer
// to, with descriptions. Solved quantities are NaN if the solve did not
// converge.
var ModelVariables = map[string]string{
	"T":          "temperature [°C]",
	"S":          "salinity [PSU]",
	"P":          "gauge pressure [bar]",
	"DIC":        "dissolved inorganic carbon [mol/kg-SW]",
	"TA":         "total alkalinity [mol/kg-SW]",
	"H":          "hydrogen-ion concentration on the working scale [mol/kg-SW]",
	"pH":         "pH on the requested scale",
	"pCO2":       "partial pressure of CO2 [atm]",
	"H2CO3":      "carbonic acid concentration [mol/kg-SW]",
	"HCO3":       "bicarbonate concentration [mol/kg-SW]",
	"CO3":        "carbonate concentration [mol/kg-SW]",
	"K0":         "CO2 solubility [mol/kg-SW/atm]",
	"converged":  "1 if the solve converged, otherwise 0",
	"iterations": "root finder iterations",
}

// Outputter calculates user-defined output variables from solve results.
// Each output variable is an expression that can use the ModelVariables,
// other output variables and functions. The default functions are
// 'exp(x)', 'ln(x)' and 'log10(x)'.
type Outputter struct {
	names       []string
	order       []string
	expressions map[string]*govaluate.EvaluableExpression
}

var validOutputName = regexp.MustCompile(`^[A-Za-z]\w*$`)

// NewOutputter parses the output variable expressions in outputVariables,
// keyed by output name. outputFunctions adds to or replaces the default
// functions.
func NewOutputter(outputVariables map[string]string, outputFunctions map[string]govaluate.ExpressionFunction) (*Outputter, error) {
	funcs := map[string]govaluate.ExpressionFunction{
		"exp":   unaryFunc("exp", math.Exp),
		"ln":    unaryFunc("ln", math.Log),
		"log10": unaryFunc("log10", math.Log10),
	}
	for k, v := range outputFunctions {
		funcs[k] = v
	}

	o := &Outputter{expressions: make(map[string]*govaluate.EvaluableExpression)}
	for name, expr := range outputVariables {
		if !validOutputName.MatchString(name) {
			return nil, fmt.Errorf("carbsys: output variable name '%s' includes unsupported characters", name)
		}
		if _, ok := ModelVariables[name]; ok {
			return nil, fmt.Errorf("carbsys: output variable name '%s' is already a model variable", name)
		}
		e, err := govaluate.NewEvaluableExpressionWithFunctions(expr, funcs)
		if err != nil {
			return nil, fmt.Errorf("carbsys: output variable %s: %v", name, err)
		}
		o.expressions[name] = e
		o.names = append(o.names, name)
	}
	sort.Strings(o.names)

	// Order the expressions so that each is evaluated after the output
	// variables it refers to.
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int)
	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case visiting:
			return fmt.Errorf("carbsys: output variable %s refers to itself", name)
		case done:
			return nil
		}
		state[name] = visiting
		for _, v := range o.expressions[name].Vars() {
			if _, ok := o.expressions[v]; ok {
				if err := visit(v); err != nil {
					return err
				}
			} else if _, ok := ModelVariables[v]; !ok {
				return fmt.Errorf("carbsys: undefined variable name '%s' in output variable %s", v, name)
			}
		}
		state[name] = done
		o.order = append(o.order, name)
		return nil
	}
	for _, name := range o.names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Names returns the output variable names in the order Evaluate returns
// their values.
func (o *Outputter) Names() []string { return o.names }

// Evaluate returns the value of each output variable for sample s and its
// result r.
func (o *Outputter) Evaluate(s Sample, r Result) ([]float64, error) {
	nan := math.NaN()
	solved := func(v float64) float64 {
		if r.Converged {
			return v
		}
		return nan
	}
	params := map[string]interface{}{
		"T":          s.T,
		"S":          s.S,
		"P":          s.P,
		"DIC":        s.DIC,
		"TA":         s.TA,
		"H":          solved(r.H),
		"pH":         solved(r.PH),
		"pCO2":       solved(r.PCO2),
		"H2CO3":      solved(r.H2CO3),
		"HCO3":       solved(r.HCO3),
		"CO3":        solved(r.CO3),
		"K0":         r.K0,
		"converged":  boolFloat(r.Converged),
		"iterations": float64(r.Iterations),
	}
	for _, name := range o.order {
		v, err := o.expressions[name].Evaluate(params)
		if err != nil {
			return nil, fmt.Errorf("carbsys: evaluating output variable %s: %v", name, err)
		}
		switch vv := v.(type) {
		case float64:
			params[name] = vv
		case bool:
			params[name] = boolFloat(vv)
		default:
			return nil, fmt.Errorf("carbsys: output variable %s has non-numeric value %v", name, v)
		}
	}
	vals := make([]float64, len(o.names))
	for i, name := range o.names {
		vals[i] = params[name].(float64)
	}
	return vals, nil
}

// unaryFunc wraps a function of one float64 for use in expressions.
func unaryFunc(name string, f func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("carbsys: got %d arguments for function '%s', but needs 1", len(args), name)
		}
		x, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("carbsys: argument to function '%s' is %T, not a number", name, args[0])
		}
		return f(x), nil
	}
}
