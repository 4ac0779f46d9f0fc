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

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/carbsys"
)

// Grid solves the gridded samples in NetCDF file inFile and writes the
// results to NetCDF file outFile. At most maxCacheEntries points are held
// for reuse after failed solves, or any number if it is zero. If
// metricsFile is not empty, solver outcome counts are written to it.
// A summary is written to w.
func Grid(w io.Writer, inFile, outFile, metricsFile string, maxCacheEntries int, o carbsys.Options, log logrus.FieldLogger) error {
	in, err := os.Open(inFile)
	if err != nil {
		return fmt.Errorf("carbsysutil: opening grid input: %v", err)
	}
	defer in.Close()
	out, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("carbsysutil: creating grid output: %v", err)
	}

	g := &carbsys.GridRunner{
		Options: o,
		Cache:   carbsys.NewFallbackCache(maxCacheEntries),
		Log:     log,
	}
	if metricsFile != "" {
		g.Metrics = carbsys.NewMetrics()
	}
	sum, err := g.Run(in, out)
	if err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"steps": sum.Steps, "points": sum.Points, "output": outFile,
	}).Info("carbsysutil: grid finished")
	fmt.Fprintf(w, "%d time steps × %d points: %d converged, %d reused, %d missing\n",
		sum.Steps, sum.Points, sum.Converged, sum.Reused, sum.Missing)

	if g.Metrics != nil {
		if err := g.Metrics.WriteTextfile(metricsFile); err != nil {
			return fmt.Errorf("carbsysutil: writing metrics: %v", err)
		}
	}
	return nil
}
