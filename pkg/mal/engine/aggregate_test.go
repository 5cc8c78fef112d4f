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

func TestGroupReduce_Sum(t *testing.T) {
	f := model.NewFamily("kong_bandwidth_bytes",
		model.NewSample("kong_bandwidth_bytes", model.LabelsFromMap(map[string]string{"host_name": "a", "direction": "ingress"}), 100, 0),
		model.NewSample("kong_bandwidth_bytes", model.LabelsFromMap(map[string]string{"host_name": "b", "direction": "ingress"}), 50, 0),
		model.NewSample("kong_bandwidth_bytes", model.LabelsFromMap(map[string]string{"host_name": "a", "direction": "egress"}), 7, 0),
	)

	out := groupReduce(aggSum, f, []string{"direction"})
	require.Len(t, out.Samples, 2)

	byDirection := map[string]float64{}
	for _, s := range out.Samples {
		byDirection[s.Labels.Get("direction")] = s.Value
	}
	require.Equal(t, 150.0, byDirection["ingress"])
	require.Equal(t, 7.0, byDirection["egress"])
}

func TestGroupReduce_MissingKeyFallsIntoEmptyBucket(t *testing.T) {
	f := model.NewFamily("m",
		model.NewSample("m", model.LabelsFromMap(map[string]string{"a": "1"}), 1, 0),
		model.NewSample("m", model.LabelsFromMap(nil), 2, 0),
	)
	out := groupReduce(aggSum, f, []string{"a"})
	require.Len(t, out.Samples, 2)
}

func TestGroupReduce_MissingKeyOmittedFromOutputLabels(t *testing.T) {
	f := model.NewFamily("m",
		model.NewSample("m", model.LabelsFromMap(map[string]string{"a": "1", "b": "x"}), 1, 0),
		model.NewSample("m", model.LabelsFromMap(map[string]string{"a": "2"}), 2, 0),
	)
	out := groupReduce(aggSum, f, []string{"a", "b"})
	require.Len(t, out.Samples, 2)

	for _, s := range out.Samples {
		switch s.Labels.Get("a") {
		case "1":
			require.True(t, s.Labels.Has("b"))
		case "2":
			require.False(t, s.Labels.Has("b"), "group missing key b must not appear on the output label set")
		default:
			t.Fatalf("unexpected group %v", s.Labels)
		}
	}
}

func TestGroupReduce_AvgMaxMin(t *testing.T) {
	f := model.NewFamily("m",
		model.NewSample("m", model.LabelsFromMap(map[string]string{"g": "x"}), 10, 0),
		model.NewSample("m", model.LabelsFromMap(map[string]string{"g": "x"}), 30, 0),
	)
	require.Equal(t, 20.0, groupReduce(aggAvg, f, []string{"g"}).Samples[0].Value)
	require.Equal(t, 30.0, groupReduce(aggMax, f, []string{"g"}).Samples[0].Value)
	require.Equal(t, 10.0, groupReduce(aggMin, f, []string{"g"}).Samples[0].Value)
}
