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

package testutil

import "github.com/GoogleCloudPlatform/prometheus-engine/mal/pkg/mal/model"

// Sample builds a model.Sample from an alternating key/value label list,
// e.g. Sample("kong_bandwidth_bytes", 2097152, 0, "direction", "ingress").
func Sample(name string, value float64, ts int64, labelKV ...string) model.Sample {
	m := make(map[string]string, len(labelKV)/2)
	for i := 0; i+1 < len(labelKV); i += 2 {
		m[labelKV[i]] = labelKV[i+1]
	}
	return model.NewSample(name, model.LabelsFromMap(m), value, ts)
}

// Family builds a *model.SampleFamily from the given samples.
func Family(name string, samples ...model.Sample) *model.SampleFamily {
	return model.NewFamily(name, samples...)
}
