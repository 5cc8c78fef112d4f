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

package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSampleFamily_FilterAndMap(t *testing.T) {
	f := NewFamily("m",
		NewSample("m", LabelsFromMap(map[string]string{"k": "a"}), 1, 0),
		NewSample("m", LabelsFromMap(map[string]string{"k": "b"}), 2, 0),
	)

	filtered := f.Filter(func(s Sample) bool { return s.Labels.Get("k") == "a" })
	require.Len(t, filtered.Samples, 1)
	require.Equal(t, "a", filtered.Samples[0].Labels.Get("k"))
	// Original untouched.
	require.Len(t, f.Samples, 2)

	mapped := f.Map(func(s Sample) (Sample, bool) {
		if s.Value == 2 {
			return s, false
		}
		return s.WithValue(s.Value * 10), true
	})
	require.Len(t, mapped.Samples, 1)
	require.Equal(t, 10.0, mapped.Samples[0].Value)
}

func TestEmptyFamily_IsEmpty(t *testing.T) {
	f := EmptyFamily("m")
	require.True(t, f.IsEmpty())
	f.Samples = append(f.Samples, NewSample("m", LabelsFromMap(nil), 1, 0))
	require.False(t, f.IsEmpty())
}
