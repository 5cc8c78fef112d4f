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

func filterFixture() *model.SampleFamily {
	return model.NewFamily("m",
		model.NewSample("m", model.LabelsFromMap(map[string]string{"phase": "Running"}), 1, 0),
		model.NewSample("m", model.LabelsFromMap(map[string]string{"phase": "Pending"}), 2, 0),
		model.NewSample("m", model.LabelsFromMap(map[string]string{"phase": "Failed"}), 3, 0),
	)
}

func TestTagEqual(t *testing.T) {
	out := tagEqual(filterFixture(), "phase", "Running")
	require.Len(t, out.Samples, 1)
	require.Equal(t, "Running", out.Samples[0].Labels.Get("phase"))
}

func TestTagNotEqual(t *testing.T) {
	out := tagNotEqual(filterFixture(), "phase", "Running")
	require.Len(t, out.Samples, 2)
}

func TestTagMatch(t *testing.T) {
	out, err := tagMatch(filterFixture(), "phase", "Running|Pending")
	require.NoError(t, err)
	require.Len(t, out.Samples, 2)
}

func TestTagMatch_InvalidPatternIsError(t *testing.T) {
	_, err := tagMatch(filterFixture(), "phase", "(unterminated")
	require.Error(t, err)
}

func TestTagNotMatch(t *testing.T) {
	out, err := tagNotMatch(filterFixture(), "phase", "Running")
	require.NoError(t, err)
	require.Len(t, out.Samples, 2)
}

func TestValueEqual(t *testing.T) {
	out := valueEqual(filterFixture(), 2)
	require.Len(t, out.Samples, 1)
	require.Equal(t, 2.0, out.Samples[0].Value)
}

func TestTagEqual_MissingKeyReadsAsEmptyString(t *testing.T) {
	f := model.NewFamily("m", model.NewSample("m", model.LabelsFromMap(nil), 1, 0))
	out := tagEqual(f, "absent", "")
	require.Len(t, out.Samples, 1)
}
