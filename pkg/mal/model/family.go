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

// SampleFamily is an ordered bag of Samples sharing a name. Operators treat
// it as a bag keyed by label set; the slice order itself carries no
// semantics. An empty family (Samples == nil or len 0) is legal and distinct
// from "no input" -- it is the identity value every operator must be
// idempotent under.
type SampleFamily struct {
	Name    string
	Samples []Sample
}

// NewFamily builds a SampleFamily from the given samples.
func NewFamily(name string, samples ...Sample) *SampleFamily {
	return &SampleFamily{Name: name, Samples: samples}
}

// EmptyFamily returns the distinguished empty family for the given name.
func EmptyFamily(name string) *SampleFamily {
	return &SampleFamily{Name: name}
}

// IsEmpty reports whether the family carries no samples.
func (f *SampleFamily) IsEmpty() bool {
	return f == nil || len(f.Samples) == 0
}

// Filter returns a new family containing only the samples for which keep
// returns true. The original family is left untouched.
func (f *SampleFamily) Filter(keep func(Sample) bool) *SampleFamily {
	out := &SampleFamily{Name: f.Name}
	for _, s := range f.Samples {
		if keep(s) {
			out.Samples = append(out.Samples, s)
		}
	}
	return out
}

// Map returns a new family with fn applied to every sample. fn may return
// the sample unchanged, a rewritten copy, or ok=false to drop the sample
// entirely.
func (f *SampleFamily) Map(fn func(Sample) (Sample, bool)) *SampleFamily {
	out := &SampleFamily{Name: f.Name}
	for _, s := range f.Samples {
		if ns, ok := fn(s); ok {
			out.Samples = append(out.Samples, ns)
		}
	}
	return out
}

// Copy returns a deep copy of the family.
func (f *SampleFamily) Copy() *SampleFamily {
	if f == nil {
		return nil
	}
	out := &SampleFamily{Name: f.Name, Samples: make([]Sample, len(f.Samples))}
	copy(out.Samples, f.Samples)
	return out
}
