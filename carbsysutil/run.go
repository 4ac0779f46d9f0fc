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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/carbsys"
	"github.com/spatialmodel/carbsys/science/equilibrium"
)

// Validate compares results calculated with options o to the reference
// table in fileName, writing a report to w. It returns an error if any
// case fails or the table has no usable rows.
func Validate(w io.Writer, fileName string, o carbsys.Options, tol carbsys.Tolerances) error {
	if o.PHScale != equilibrium.PHTotal {
		logrus.Warnf("carbsysutil: reference pH values are on the total scale but PHScale is %v", o.PHScale)
	}
	t, err := carbsys.ReadReferenceFile(fileName)
	if err != nil {
		return err
	}
	rep, err := carbsys.Validate(t, o, tol)
	if err != nil {
		return fmt.Errorf("carbsysutil: %s: %w", fileName, err)
	}
	if err := rep.Fprint(w); err != nil {
		return err
	}
	if !rep.OK() {
		return fmt.Errorf("carbsysutil: %d of %d reference cases failed", rep.Failed, len(rep.Outcomes))
	}
	return nil
}

// Batch solves the samples in CSV file inFile and writes the results and
// output variables vars to CSV file outFile. Samples that do not converge
// are logged to log.
func Batch(inFile, outFile string, vars map[string]string, o carbsys.Options, log logrus.FieldLogger) error {
	var outputter *carbsys.Outputter
	if len(vars) > 0 {
		var err error
		if outputter, err = carbsys.NewOutputter(vars, nil); err != nil {
			return err
		}
	}

	in, err := os.Open(inFile)
	if err != nil {
		return fmt.Errorf("carbsysutil: opening batch input: %v", err)
	}
	samples, err := carbsys.ReadSamplesCSV(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("carbsysutil: %s: %v", inFile, err)
	}

	results, err := carbsys.SolveAll(samples, o)
	if err != nil {
		return err
	}
	var failed int
	for i, r := range results {
		if !r.Converged {
			failed++
			s := samples[i]
			log.WithFields(logrus.Fields{
				"row": i + 1, "T": s.T, "S": s.S, "P": s.P, "DIC": s.DIC, "TA": s.TA,
				"iterations": r.Iterations,
			}).Warn("carbsysutil: solve did not converge")
		}
	}

	out, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("carbsysutil: creating batch output: %v", err)
	}
	if err := carbsys.WriteResultsCSV(out, samples, results, outputter); err != nil {
		out.Close()
		return err
	}
	log.WithFields(logrus.Fields{
		"samples": len(samples), "failed": failed, "output": outFile,
	}).Info("carbsysutil: batch finished")
	return out.Close()
}

// Sweep solves base over steps DIC values from dicMin to dicMax and writes
// the results as CSV to outFile, or to w if outFile is empty. If plotFile
// is not empty, a plot is written to it in the format given by its
// extension.
func Sweep(w io.Writer, base carbsys.Sample, dicMin, dicMax float64, steps int, outFile, plotFile string, o carbsys.Options) error {
	samples, results, err := carbsys.Sweep(base, dicMin, dicMax, steps, o)
	if err != nil {
		return err
	}
	if outFile == "" {
		if err := carbsys.WriteResultsCSV(w, samples, results, nil); err != nil {
			return err
		}
	} else {
		f, err := os.Create(outFile)
		if err != nil {
			return fmt.Errorf("carbsysutil: creating sweep output: %v", err)
		}
		if err := carbsys.WriteResultsCSV(f, samples, results, nil); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	if plotFile == "" {
		return nil
	}
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(plotFile), "."))
	f, err := os.Create(plotFile)
	if err != nil {
		return fmt.Errorf("carbsysutil: creating sweep plot: %v", err)
	}
	if err := carbsys.WriteSweepPlot(f, samples, results, format); err != nil {
		f.Close()
		return fmt.Errorf("carbsysutil: writing sweep plot: %v", err)
	}
	return f.Close()
}
