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
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// SolveAll solves every sample concurrently and returns the results in the
// order of samples. If any sample is invalid the error for the first one
// is returned along with the results for all samples.
func SolveAll(samples []Sample, o Options) ([]Result, error) {
	results, errs := solveEach(samples, o)
	for i, err := range errs {
		if err != nil {
			return results, fmt.Errorf("carbsys: sample %d: %w", i, err)
		}
	}
	return results, nil
}

// solveEach solves samples on GOMAXPROCS goroutines, each owning every
// nprocs'th index.
func solveEach(samples []Sample, o Options) ([]Result, []error) {
	results := make([]Result, len(samples))
	errs := make([]error, len(samples))
	nprocs := runtime.GOMAXPROCS(0)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			for i := pp; i < len(samples); i += nprocs {
				results[i], errs[i] = Solve(samples[i], o)
			}
			wg.Done()
		}(pp)
	}
	wg.Wait()
	return results, errs
}

// sampleColumns are the recognized input column names. P is optional.
var sampleColumns = []string{"T", "S", "P", "DIC", "TA"}

// ReadSamplesCSV reads samples from comma separated values. The first
// non-comment row must name the columns T, S, DIC, TA and optionally P, in
// any order; other columns are ignored. Lines starting with '#' are
// comments.
func ReadSamplesCSV(r io.Reader) ([]Sample, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("carbsys: reading sample header: %v", err)
	}
	cols := make(map[string]int)
	for i, h := range header {
		for _, name := range sampleColumns {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				cols[name] = i
			}
		}
	}
	for _, name := range []string{"T", "S", "DIC", "TA"} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("carbsys: sample file is missing column %s", name)
		}
	}

	var samples []Sample
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("carbsys: reading samples: %v", err)
		}
		line, _ := cr.FieldPos(0)
		vals := make(map[string]float64)
		for name, i := range cols {
			if i >= len(rec) {
				return nil, fmt.Errorf("carbsys: line %d: missing column %s", line, name)
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
			if err != nil {
				return nil, fmt.Errorf("carbsys: line %d: column %s: %v", line, name, err)
			}
			vals[name] = v
		}
		samples = append(samples, Sample{T: vals["T"], S: vals["S"], P: vals["P"], DIC: vals["DIC"], TA: vals["TA"]})
	}
	return samples, nil
}

// resultColumns are the columns that WriteResultsCSV always writes.
var resultColumns = []string{"T", "S", "P", "DIC", "TA", "pH", "pCO2", "H2CO3", "HCO3", "CO3", "converged"}

// WriteResultsCSV writes samples and their results as comma separated
// values, followed by one column for each output variable of o, if o is
// not nil. Results that did not converge are written as NaN.
func WriteResultsCSV(w io.Writer, samples []Sample, results []Result, o *Outputter) error {
	if len(samples) != len(results) {
		return fmt.Errorf("carbsys: %d samples but %d results", len(samples), len(results))
	}
	cw := csv.NewWriter(w)
	header := append([]string{}, resultColumns...)
	if o != nil {
		header = append(header, o.Names()...)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, s := range samples {
		r := results[i]
		out := []float64{r.PH, r.PCO2, r.H2CO3, r.HCO3, r.CO3}
		if !r.Converged {
			for j := range out {
				out[j] = math.NaN()
			}
		}
		row := make([]string, 0, len(header))
		for _, v := range []float64{s.T, s.S, s.P, s.DIC, s.TA} {
			row = append(row, formatFloat(v))
		}
		for _, v := range out {
			row = append(row, formatFloat(v))
		}
		row = append(row, formatFloat(boolFloat(r.Converged)))
		if o != nil {
			vals, err := o.Evaluate(s, r)
			if err != nil {
				return fmt.Errorf("carbsys: row %d: %v", i, err)
			}
			for _, v := range vals {
				row = append(row, formatFloat(v))
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
