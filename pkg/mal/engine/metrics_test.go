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

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func counterVecValue(t *testing.T, cv *prometheus.CounterVec, label string) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, cv.WithLabelValues(label).Write(m))
	return m.GetCounter().GetValue()
}

func TestSelfMetrics_ObserveResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newSelfMetrics(reg)

	m.observeResult(true)
	m.observeResult(false)
	m.observeResult(true)

	require.Equal(t, 2.0, counterVecValue(t, m.expressionsEvaluated, "success"))
	require.Equal(t, 1.0, counterVecValue(t, m.expressionsEvaluated, "error"))
}

func TestSelfMetrics_ObserveEmitted(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newSelfMetrics(reg)

	m.observeEmitted(3)
	m.observeEmitted(2)

	out := &dto.Metric{}
	require.NoError(t, m.samplesEmitted.Write(out))
	require.Equal(t, 5.0, out.GetCounter().GetValue())
}

func TestSelfMetrics_NilSafe(t *testing.T) {
	var m *selfMetrics
	require.NotPanics(t, func() {
		m.observeResult(true)
		m.observeEmitted(1)
	})
}

func TestNewSelfMetrics_NilRegistererIsSafe(t *testing.T) {
	require.NotPanics(t, func() {
		newSelfMetrics(nil)
	})
}
