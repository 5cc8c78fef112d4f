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
	"math"
	"sort"
	"strconv"

	"github.com/GoogleCloudPlatform/prometheus-engine/mal/pkg/mal/model"
)

type bucket struct {
	bound      float64 // +Inf represented as math.Inf(1)
	cumulative float64
}

type histogramGroup struct {
	labels  model.Labels
	buckets []bucket
	ts      int64
}

// groupHistogramBuckets partitions a cumulative-histogram family into one
// group per non-le label set, sorted ascending by bucket bound, the same
// defensive re-sort pkg/export/transform.go's distribution.build applies
// before reading its buckets.
func groupHistogramBuckets(f *model.SampleFamily) []*histogramGroup {
	groups := map[uint64]*histogramGroup{}
	var order []uint64

	for _, s := range f.Samples {
		leStr := s.Labels.Get(model.HistogramBoundLabel)
		var bound float64
		if leStr == "+Inf" {
			bound = math.Inf(1)
		} else {
			v, err := strconv.ParseFloat(leStr, 64)
			if err != nil {
				continue
			}
			bound = v
		}
		rest := model.WithoutKeys(s.Labels, model.HistogramBoundLabel)
		key := model.CanonicalHash(rest)
		g, ok := groups[key]
		if !ok {
			g = &histogramGroup{labels: rest, ts: s.Timestamp}
			groups[key] = g
			order = append(order, key)
		}
		g.buckets = append(g.buckets, bucket{bound: bound, cumulative: s.Value})
		if s.Timestamp > g.ts {
			g.ts = s.Timestamp
		}
	}

	out := make([]*histogramGroup, 0, len(order))
	for _, key := range order {
		g := groups[key]
		sort.Slice(g.buckets, func(i, j int) bool { return g.buckets[i].bound < g.buckets[j].bound })
		out = append(out, g)
	}
	return out
}

// histogramPercentile implements .histogram_percentile([p...]). For each
// label set and each requested percentile, linear interpolation is applied
// within the bucket that first reaches the target rank; the +Inf bucket's
// upper bound is conservatively treated as equal to the second-highest
// bound so percentiles that fall in the open-topped bucket never
// extrapolate past known data.
func histogramPercentile(f *model.SampleFamily, percentiles []float64) *model.SampleFamily {
	out := &model.SampleFamily{Name: f.Name}

	for _, g := range groupHistogramBuckets(f) {
		if len(g.buckets) == 0 {
			continue
		}
		total := g.buckets[len(g.buckets)-1].cumulative

		for _, p := range percentiles {
			value := interpolatePercentile(g.buckets, total, p)
			lset := model.WithoutKeys(g.labels) // no keys given: g.labels itself
			b := labelsBuilderWithPercentile(lset, p)
			out.Samples = append(out.Samples, model.NewSample(out.Name, b, value, g.ts))
		}
	}
	return out
}

func interpolatePercentile(buckets []bucket, total, p float64) float64 {
	if total <= 0 {
		return 0
	}
	rank := p / 100 * total

	idx := 0
	for idx < len(buckets) && buckets[idx].cumulative < rank {
		idx++
	}
	if idx >= len(buckets) {
		idx = len(buckets) - 1
	}

	lower := 0.0
	countBefore := 0.0
	if idx > 0 {
		lower = buckets[idx-1].bound
		countBefore = buckets[idx-1].cumulative
	}
	upper := buckets[idx].bound
	if math.IsInf(upper, 1) {
		// Conservative bound: treat +Inf's upper edge as the second-highest
		// bound. With only one bucket (itself +Inf), that collapses to the
		// lower implied bound of 0.
		upper = lower
	}

	countIn := buckets[idx].cumulative - countBefore
	if countIn <= 0 {
		return lower
	}
	frac := (rank - countBefore) / countIn
	return lower + frac*(upper-lower)
}

func labelsBuilderWithPercentile(lset model.Labels, p float64) model.Labels {
	m := lset.Map()
	m["p"] = formatPercentile(p)
	return model.LabelsFromMap(m)
}

func formatPercentile(p float64) string {
	return strconv.FormatFloat(p, 'g', -1, 64)
}
