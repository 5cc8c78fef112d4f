// Copyright 2024 The MAL Engine Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import "github.com/prometheus/client_golang/prometheus"

// selfMetrics is the engine's own observability surface, mirroring the
// teacher's prometheusSamplesDiscarded/prometheusExemplarsDiscarded counters
// in pkg/export/transform.go: a handful of plain Prometheus collectors
// registered against a caller-supplied Registerer, never a package-level
// global.
type selfMetrics struct {
	expressionsEvaluated *prometheus.CounterVec
	samplesEmitted       prometheus.Counter
	rateStateEntries     prometheus.Gauge
}

func newSelfMetrics(reg prometheus.Registerer) *selfMetrics {
	m := &selfMetrics{
		expressionsEvaluated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mal_expressions_evaluated_total",
			Help: "Number of MAL expression evaluations, by outcome.",
		}, []string{"result"}),
		samplesEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mal_samples_emitted_total",
			Help: "Number of entity-bound samples emitted by the evaluation core.",
		}),
		rateStateEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mal_rate_state_entries",
			Help: "Number of live rate/increase/irate state-machine entries held by the engine.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.expressionsEvaluated, m.samplesEmitted, m.rateStateEntries)
	}
	return m
}

func (m *selfMetrics) observeResult(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.expressionsEvaluated.WithLabelValues("success").Inc()
	} else {
		m.expressionsEvaluated.WithLabelValues("error").Inc()
	}
}

func (m *selfMetrics) observeEmitted(n int) {
	if m == nil {
		return
	}
	m.samplesEmitted.Add(float64(n))
}

func (m *selfMetrics) setRateStateEntries(n int) {
	if m == nil {
		return
	}
	m.rateStateEntries.Set(float64(n))
}
