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
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts solver outcomes. A nil *Metrics discards observations.
type Metrics struct {
	registry   *prometheus.Registry
	solves     *prometheus.CounterVec
	widened    prometheus.Counter
	iterations prometheus.Histogram
}

// NewMetrics returns a Metrics with its own registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carbsys",
			Name:      "solves_total",
			Help:      "Carbonate system solves by outcome: converged, reused (failed, fallback used) or missing (failed, no fallback).",
		}, []string{"outcome"}),
		widened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "carbsys",
			Name:      "bracket_widened_total",
			Help:      "Solves that searched the wide pH bracket.",
		}),
		iterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "carbsys",
			Name:      "solver_iterations",
			Help:      "Root finder iterations per solve.",
			Buckets:   prometheus.LinearBuckets(5, 5, 10),
		}),
	}
	m.registry.MustRegister(m.solves, m.widened, m.iterations)
	return m
}

// Observe records the outcome of one solve.
func (m *Metrics) Observe(r Result, status FallbackStatus) {
	if m == nil {
		return
	}
	outcome := "converged"
	if status != Fresh {
		outcome = status.String()
	}
	m.solves.WithLabelValues(outcome).Inc()
	if r.Widened {
		m.widened.Inc()
	}
	m.iterations.Observe(float64(r.Iterations))
}

// WriteTextfile writes the metrics in the Prometheus text format to
// filename, for collection by a node exporter.
func (m *Metrics) WriteTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, m.registry)
}
