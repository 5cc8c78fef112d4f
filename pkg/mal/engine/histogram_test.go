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

	"github.com/stretchr/testify/require"

	"github.com/GoogleCloudPlatform/prometheus-engine/mal/pkg/mal/model"
)

func histogramFixture() *model.SampleFamily {
	buckets := map[string]float64{
		"0.005": 10, "0.01": 25, "0.025": 50, "0.05": 80, "0.1": 120,
		"0.25": 180, "0.5": 220, "1": 260, "2.5": 285, "5": 295, "10": 299, "+Inf": 300,
	}
	var samples []model.Sample
	for le, v := range buckets {
		samples = append(samples, model.NewSample("latency_bucket", model.LabelsFromMap(map[string]string{"le": le}), v, 0))
	}
	return model.NewFamily("latency_bucket", samples...)
}

func TestHistogramPercentile_BoundaryInLastFiniteBucket(t *testing.T) {
	f := histogramFixture()
	out := histogramPercentile(f, []float64{50, 75, 90, 95, 99})
	require.Len(t, out.Samples, 5)

	for _, s := range out.Samples {
		require.GreaterOrEqual(t, s.Value, 0.0)
		require.LessOrEqual(t, s.Value, 10.0) // second-highest bound per the conservative +Inf rule
	}
}

func TestHistogramPercentile_SingleBucketCollapsesToZero(t *testing.T) {
	f := model.NewFamily("m", model.NewSample("m", model.LabelsFromMap(map[string]string{"le": "+Inf"}), 5, 0))
	out := histogramPercentile(f, []float64{50})
	require.Len(t, out.Samples, 1)
	require.Equal(t, 0.0, out.Samples[0].Value)
}

func TestHistogramPercentile_EmptyTotalYieldsZero(t *testing.T) {
	f := model.NewFamily("m",
		model.NewSample("m", model.LabelsFromMap(map[string]string{"le": "1"}), 0, 0),
		model.NewSample("m", model.LabelsFromMap(map[string]string{"le": "+Inf"}), 0, 0),
	)
	out := histogramPercentile(f, []float64{50})
	require.Equal(t, 0.0, out.Samples[0].Value)
}

func TestGroupHistogramBuckets_SortsAscending(t *testing.T) {
	f := model.NewFamily("m",
		model.NewSample("m", model.LabelsFromMap(map[string]string{"le": "5"}), 10, 0),
		model.NewSample("m", model.LabelsFromMap(map[string]string{"le": "1"}), 3, 0),
		model.NewSample("m", model.LabelsFromMap(map[string]string{"le": "+Inf"}), 12, 0),
	)
	groups := groupHistogramBuckets(f)
	require.Len(t, groups, 1)
	require.Equal(t, 1.0, groups[0].buckets[0].bound)
	require.Equal(t, 5.0, groups[0].buckets[1].bound)
}
