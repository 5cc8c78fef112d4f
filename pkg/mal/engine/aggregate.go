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
	"github.com/GoogleCloudPlatform/prometheus-engine/mal/pkg/mal/model"
)

type aggKind int

const (
	aggSum aggKind = iota
	aggAvg
	aggMax
	aggMin
)

// emptyGroupSentinel marks the distinguished bucket a sample falls into when
// one of the requested group keys is absent from its label set.
const emptyGroupSentinel = "\x00<missing>\x00"

type groupAccumulator struct {
	labels model.Labels
	sum    float64
	count  int
	max    float64
	min    float64
	ts     int64
}

// groupReduce implements sum/avg/max/min(groupKeys...). Samples are grouped
// by the tuple of groupKeys values (missing keys fall into the shared empty
// bucket below), and the output carries only the group-key labels.
func groupReduce(kind aggKind, f *model.SampleFamily, groupKeys []string) *model.SampleFamily {
	groups := map[string]*groupAccumulator{}
	order := make([]string, 0, 8)

	for _, s := range f.Samples {
		key, lset := groupKey(s.Labels, groupKeys)
		acc, ok := groups[key]
		if !ok {
			acc = &groupAccumulator{labels: lset, max: s.Value, min: s.Value}
			groups[key] = acc
			order = append(order, key)
		}
		acc.sum += s.Value
		acc.count++
		if s.Value > acc.max {
			acc.max = s.Value
		}
		if s.Value < acc.min {
			acc.min = s.Value
		}
		if s.Timestamp > acc.ts {
			acc.ts = s.Timestamp
		}
	}

	out := &model.SampleFamily{Name: f.Name}
	for _, key := range order {
		acc := groups[key]
		var v float64
		switch kind {
		case aggSum:
			v = acc.sum
		case aggAvg:
			v = acc.sum / float64(acc.count)
		case aggMax:
			v = acc.max
		case aggMin:
			v = acc.min
		}
		out.Samples = append(out.Samples, model.NewSample(out.Name, acc.labels, v, acc.ts))
	}
	return out
}

// groupKey builds the grouping key and the projected label set used for a
// sample under the requested group keys, falling back to the shared
// "missing" bucket for any absent key. The output label set omits a
// requested key entirely when the sample doesn't carry it, via
// model.Project, so a scope binder fed from this aggregate correctly reads
// that key as absent rather than present with an empty value.
func groupKey(lset model.Labels, groupKeys []string) (string, model.Labels) {
	key := ""
	for _, k := range groupKeys {
		keyPart := emptyGroupSentinel
		if lset.Has(k) {
			keyPart = lset.Get(k)
		}
		key += k + "=" + keyPart + "\x1f"
	}
	return key, model.Project(lset, groupKeys...)
}
