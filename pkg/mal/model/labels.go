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

// Package model holds the sample/SampleFamily data model and label algebra
// the MAL evaluation core operates on.
package model

import (
	"github.com/cespare/xxhash/v2"
	"github.com/prometheus/prometheus/model/labels"
)

// Labels is the label set type shared by every sample. We reuse Prometheus's
// sorted-slice representation and its Builder rather than inventing a map
// type: label sets here have exactly the same semantics (unique keys,
// order-independent equality) as upstream target/metric labels.
type Labels = labels.Labels

// LabelsFromMap deep-copies the given map into a sorted Labels value.
func LabelsFromMap(m map[string]string) Labels {
	return labels.FromMap(m)
}

// HistogramBoundLabel is the distinguished label carrying a cumulative
// histogram bucket's upper bound, including the "+Inf" sentinel.
const HistogramBoundLabel = "le"

// CanonicalHash returns a stable hash of the label set, used to key
// rate/increase/irate state tables: state is keyed by a canonical hash of
// the immutable label set, never by a pointer into a sample.
func CanonicalHash(lset Labels) uint64 {
	h := xxhash.New()
	// lset is already sorted by key; write deterministically.
	for _, l := range lset {
		_, _ = h.WriteString(l.Name)
		_, _ = h.Write(sepByte)
		_, _ = h.WriteString(l.Value)
		_, _ = h.Write(sepByte)
	}
	return h.Sum64()
}

var sepByte = []byte{'\xff'}

// WithoutKeys returns a copy of lset with the given keys removed.
func WithoutKeys(lset Labels, keys ...string) Labels {
	if len(keys) == 0 {
		return lset
	}
	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		drop[k] = struct{}{}
	}
	b := labels.NewBuilder(lset)
	for k := range drop {
		b.Del(k)
	}
	return b.Labels()
}

// Project returns a copy of lset containing only the given keys that are
// present, sorted by label name like every Labels value. Missing keys are
// silently omitted -- callers that need to detect a missing group key do so
// before calling Project (see engine/aggregate.go).
func Project(lset Labels, keys ...string) Labels {
	out := make([]labels.Label, 0, len(keys))
	for _, k := range keys {
		if lset.Has(k) {
			out = append(out, labels.Label{Name: k, Value: lset.Get(k)})
		}
	}
	return labels.New(out...)
}
