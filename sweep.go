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
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Sweep solves base at steps evenly spaced DIC values from dicMin to
// dicMax, inclusive, holding the other inputs fixed.
func Sweep(base Sample, dicMin, dicMax float64, steps int, o Options) ([]Sample, []Result, error) {
	if steps < 2 {
		return nil, nil, fmt.Errorf("carbsys: a sweep needs at least 2 steps, not %d", steps)
	}
	if !(dicMin < dicMax) {
		return nil, nil, fmt.Errorf("carbsys: sweep DICMin (%g) must be less than DICMax (%g)", dicMin, dicMax)
	}
	samples := make([]Sample, steps)
	for i := range samples {
		samples[i] = base
		samples[i].DIC = dicMin + (dicMax-dicMin)*float64(i)/float64(steps-1)
	}
	results, err := SolveAll(samples, o)
	if err != nil {
		return nil, nil, err
	}
	return samples, results, nil
}

// SweepPlot plots pH against DIC [µmol/kg] for the converged results of a
// sweep.
func SweepPlot(samples []Sample, results []Result) (*plot.Plot, error) {
	if len(samples) == 0 || len(samples) != len(results) {
		return nil, fmt.Errorf("carbsys: plotting %d samples with %d results", len(samples), len(results))
	}
	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	p.Title.Text = fmt.Sprintf("pH vs. DIC (TA = %.0f µmol/kg, T = %g °C, S = %g)",
		samples[0].TA*1e6, samples[0].T, samples[0].S)
	p.X.Label.Text = "DIC (µmol/kg)"
	p.Y.Label.Text = fmt.Sprintf("pH (%v scale)", results[0].PHScale.Scale())
	var n int
	for _, r := range results {
		if r.Converged {
			n++
		}
	}
	if n == 0 {
		return nil, fmt.Errorf("carbsys: no converged sweep results to plot")
	}
	xy := make(plotter.XYs, n)
	var j int
	for i, s := range samples {
		if !results[i].Converged {
			continue
		}
		xy[j].X = s.DIC * 1e6
		xy[j].Y = results[i].PH
		j++
	}
	if err := plotutil.AddLinePoints(p, "pH", xy); err != nil {
		return nil, err
	}
	return p, nil
}

// WriteSweepPlot writes a plot of a sweep to w in the given format, such
// as "png" or "svg".
func WriteSweepPlot(w io.Writer, samples []Sample, results []Result, format string) error {
	p, err := SweepPlot(samples, results)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
