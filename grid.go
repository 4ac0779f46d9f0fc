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

	"github.com/ctessum/cdf"
	"github.com/sirupsen/logrus"
)

// gridInputs are the NetCDF variables read by GridRunner. P is optional.
var gridInputs = []string{"T", "S", "P", "DIC", "TA"}

// gridOutputs are the floating point NetCDF variables written by
// GridRunner.
var gridOutputs = []struct {
	name, units, description string
	value                    func(Result) float64
}{
	{"pH", "1", "pH", func(r Result) float64 { return r.PH }},
	{"pCO2", "atm", "partial pressure of CO2", func(r Result) float64 { return r.PCO2 }},
	{"H2CO3", "mol/kg", "carbonic acid (dissolved CO2) concentration", func(r Result) float64 { return r.H2CO3 }},
	{"HCO3", "mol/kg", "bicarbonate concentration", func(r Result) float64 { return r.HCO3 }},
	{"CO3", "mol/kg", "carbonate concentration", func(r Result) float64 { return r.CO3 }},
}

// GridRunner solves gridded samples stored in NetCDF files. The input file
// holds the variables T, S, DIC, TA and optionally P, all with the
// dimensions [time, point]. For each time step every point is solved; when
// a solve fails the last converged result for the point is substituted
// from Cache.
type GridRunner struct {
	Options Options

	// Cache holds the last converged result for each point. If nil, a new
	// unbounded cache is created for each run.
	Cache *FallbackCache

	// Metrics, if not nil, records the outcome of each solve.
	Metrics *Metrics

	// Log receives warnings about failed solves. If nil, the standard
	// logrus logger is used.
	Log logrus.FieldLogger
}

// GridSummary counts the outcomes of a grid run.
type GridSummary struct {
	Steps, Points int

	// Converged counts solves that converged, Reused counts failed solves
	// replaced by an earlier result and Missing counts failed solves
	// without an earlier result, written as NaN.
	Converged, Reused, Missing int
}

// Run reads the input NetCDF file in and writes the output NetCDF file to
// out. The output holds the variables pH, pCO2, H2CO3, HCO3 and CO3, and
// the integer flags converged (1 if the solve at that time and point
// converged) and fallback (1 if an earlier result was substituted).
func (g *GridRunner) Run(in, out cdf.ReaderWriterAt) (*GridSummary, error) {
	log := g.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	cache := g.Cache
	if cache == nil {
		cache = NewFallbackCache(0)
	}

	f, err := cdf.Open(in)
	if err != nil {
		return nil, fmt.Errorf("carbsys: opening grid input: %v", err)
	}
	dims := f.Header.Dimensions("T")
	lengths := f.Header.Lengths("T")
	if len(dims) != 2 {
		return nil, fmt.Errorf("carbsys: grid input variable T must have dimensions [time, point], but has %v", dims)
	}
	nt, np := lengths[0], lengths[1]
	if nt == 0 {
		return nil, fmt.Errorf("carbsys: grid input has no time steps")
	}
	hasP := true
	for _, v := range gridInputs {
		l := f.Header.Lengths(v)
		if l == nil && v == "P" {
			hasP = false
			continue
		}
		if len(l) != 2 || l[0] != nt || l[1] != np {
			return nil, fmt.Errorf("carbsys: grid input variable %s has lengths %v; want %v", v, l, lengths)
		}
	}

	h := cdf.NewHeader(dims, lengths)
	for _, v := range gridOutputs {
		h.AddVariable(v.name, dims, []float64{0})
		h.AddAttribute(v.name, "description", v.description)
		h.AddAttribute(v.name, "units", v.units)
	}
	h.AddVariable("converged", dims, []int32{0})
	h.AddAttribute("converged", "description", "1 if the solve converged")
	h.AddVariable("fallback", dims, []int32{0})
	h.AddAttribute("fallback", "description", "1 if the last converged result was substituted")
	h.AddAttribute("", "pH_scale", g.Options.PHScale.String())
	h.AddAttribute("", "carbonic", g.Options.Carbonic.String())
	h.AddAttribute("", "borate", g.Options.Borate.String())
	h.AddAttribute("", "fluoride", g.Options.Fluoride.String())
	h.AddAttribute("", "source", "carbsys v"+Version)
	h.Define()
	if errs := h.Check(); len(errs) > 0 {
		return nil, fmt.Errorf("carbsys: defining grid output: %v", errs[0])
	}
	o, err := cdf.Create(out, h)
	if err != nil {
		return nil, fmt.Errorf("carbsys: creating grid output: %v", err)
	}

	sum := &GridSummary{Steps: nt, Points: np}
	data := make(map[string][]float64)
	for _, v := range gridOutputs {
		data[v.name] = make([]float64, np)
	}
	converged := make([]int32, np)
	fallback := make([]int32, np)
	for t := 0; t < nt; t++ {
		samples, err := readGridStep(f, t, np, hasP)
		if err != nil {
			return nil, err
		}
		results, errs := solveEach(samples, g.Options)
		for p, s := range samples {
			resolved, status := cache.Resolve(p, results[p])
			g.Metrics.Observe(results[p], status)
			converged[p], fallback[p] = 0, 0
			switch status {
			case Fresh:
				sum.Converged++
				converged[p] = 1
			case Reused:
				sum.Reused++
				fallback[p] = 1
			case Missing:
				sum.Missing++
			}
			if status != Fresh {
				entry := log.WithFields(logrus.Fields{
					"time": t, "point": p,
					"T": s.T, "S": s.S, "DIC": s.DIC, "TA": s.TA,
				})
				if errs[p] != nil {
					entry = entry.WithError(errs[p])
				}
				entry.Warnf("carbsys: solve failed; fallback %v", status)
			}
			for _, v := range gridOutputs {
				if status == Missing {
					data[v.name][p] = math.NaN()
				} else {
					data[v.name][p] = v.value(resolved)
				}
			}
		}
		for _, v := range gridOutputs {
			if err := writeGridStep(o, v.name, t, data[v.name]); err != nil {
				return nil, err
			}
		}
		if err := writeGridStep(o, "converged", t, converged); err != nil {
			return nil, err
		}
		if err := writeGridStep(o, "fallback", t, fallback); err != nil {
			return nil, err
		}
	}
	return sum, nil
}

// readGridStep reads the samples at time step t.
func readGridStep(f *cdf.File, t, np int, hasP bool) ([]Sample, error) {
	vals := make(map[string][]float64)
	for _, v := range gridInputs {
		if v == "P" && !hasP {
			vals[v] = make([]float64, np)
			continue
		}
		r := f.Reader(v, []int{t, 0}, []int{t + 1, 0})
		buf := r.Zero(np)
		if _, err := r.Read(buf); err != nil {
			return nil, fmt.Errorf("carbsys: reading grid variable %s at step %d: %v", v, t, err)
		}
		switch b := buf.(type) {
		case []float64:
			vals[v] = b
		case []float32:
			d := make([]float64, np)
			for i, x := range b {
				d[i] = float64(x)
			}
			vals[v] = d
		default:
			return nil, fmt.Errorf("carbsys: grid variable %s has unsupported type %T", v, buf)
		}
	}
	samples := make([]Sample, np)
	for i := range samples {
		samples[i] = Sample{T: vals["T"][i], S: vals["S"][i], P: vals["P"][i], DIC: vals["DIC"][i], TA: vals["TA"][i]}
	}
	return samples, nil
}

// writeGridStep writes data for variable v at time step t.
func writeGridStep(f *cdf.File, v string, t int, data interface{}) error {
	w := f.Writer(v, []int{t, 0}, []int{t + 1, 0})
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("carbsys: writing grid variable %s at step %d: %v", v, t, err)
	}
	return nil
}
