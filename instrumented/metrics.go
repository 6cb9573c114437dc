/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package instrumented

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"dirpx.dev/dbx/apis"
)

const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

// Metrics counts and times decorated operations. It is a
// prometheus.Collector; a nil *Metrics records nothing.
type Metrics struct {
	ops *prometheus.CounterVec
	dur *prometheus.HistogramVec
}

// Ensure Metrics implements prometheus.Collector.
var _ prometheus.Collector = (*Metrics)(nil)

// NewMetrics creates unregistered collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		ops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dbx",
				Subsystem: "instrumented",
				Name:      "operations_total",
				Help:      "driver operations by category, operation and outcome",
			},
			[]string{"category", "op", "outcome"},
		),
		dur: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dbx",
				Subsystem: "instrumented",
				Name:      "operation_seconds",
				Help:      "driver operation latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"category", "op"},
		),
	}
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.ops.Describe(ch)
	m.dur.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.ops.Collect(ch)
	m.dur.Collect(ch)
}

// Operations returns the counter of one (category, op, outcome) series.
// outcome is "ok" or "error".
func (m *Metrics) Operations(category, op, outcome string) prometheus.Counter {
	return m.ops.WithLabelValues(category, op, outcome)
}

func (m *Metrics) observe(c apis.Category, op string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := outcomeOK
	if err != nil {
		outcome = outcomeError
	}
	m.ops.WithLabelValues(c.String(), op, outcome).Inc()
	m.dur.WithLabelValues(c.String(), op).Observe(elapsed.Seconds())
}
