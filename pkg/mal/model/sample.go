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

// Sample is one (name, labels, value, timestamp) record. It is immutable
// after construction; every operator that needs to change a sample produces
// a new one rather than mutating in place.
type Sample struct {
	Name      string
	Labels    Labels
	Value     float64
	Timestamp int64 // unix milliseconds
}

// NewSample builds a Sample, deep-copying the given labels.
func NewSample(name string, lset Labels, value float64, ts int64) Sample {
	return Sample{
		Name:      name,
		Labels:    lset.Copy(),
		Value:     value,
		Timestamp: ts,
	}
}

// WithLabels returns a copy of the sample with its labels replaced.
func (s Sample) WithLabels(lset Labels) Sample {
	s.Labels = lset.Copy()
	return s
}

// WithValue returns a copy of the sample with its value replaced.
func (s Sample) WithValue(v float64) Sample {
	s.Value = v
	return s
}
