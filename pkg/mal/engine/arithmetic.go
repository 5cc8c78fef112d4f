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

	"github.com/GoogleCloudPlatform/prometheus-engine/mal/pkg/mal/model"
)

func applyOp(op string, a, b float64) (float64, bool) {
	switch op {
	case "+":
		return a + b, true
	case "-":
		return a - b, true
	case "*":
		return a * b, true
	case "/":
		if b == 0 {
			// Silent: no output sample for this key.
			return 0, false
		}
		return a / b, true
	default:
		return 0, false
	}
}

// broadcastBinary implements the arithmetic join between two families: for
// every label set present on both sides, one output sample is produced with
// that label set and the scalar result of op. A single-sample, no-label
// operand broadcasts across every key of the other side. Disjoint label
// sets under the join keys yield no output for that key. NaN/Inf results are
// dropped before being returned.
func broadcastBinary(op string, a, b *model.SampleFamily) *model.SampleFamily {
	out := &model.SampleFamily{Name: a.Name}

	switch {
	case isScalarBroadcast(a):
		scalar := a.Samples[0].Value
		for _, s := range b.Samples {
			appendOpResult(out, op, scalar, s.Value, s.Labels, s.Timestamp)
		}
	case isScalarBroadcast(b):
		scalar := b.Samples[0].Value
		for _, s := range a.Samples {
			appendOpResult(out, op, s.Value, scalar, s.Labels, s.Timestamp)
		}
	default:
		index := make(map[uint64]model.Sample, len(b.Samples))
		for _, s := range b.Samples {
			index[model.CanonicalHash(s.Labels)] = s
		}
		for _, sa := range a.Samples {
			sb, ok := index[model.CanonicalHash(sa.Labels)]
			if !ok {
				continue
			}
			ts := sa.Timestamp
			if sb.Timestamp > ts {
				ts = sb.Timestamp
			}
			appendOpResult(out, op, sa.Value, sb.Value, sa.Labels, ts)
		}
	}
	return out
}

// isScalarBroadcast reports whether f is a single sample with an empty label
// set -- the "unscoped constant family" that broadcasts across every key of
// the other operand.
func isScalarBroadcast(f *model.SampleFamily) bool {
	return len(f.Samples) == 1 && f.Samples[0].Labels.Len() == 0
}

func appendOpResult(out *model.SampleFamily, op string, a, b float64, lset model.Labels, ts int64) {
	v, ok := applyOp(op, a, b)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	out.Samples = append(out.Samples, model.NewSample(out.Name, lset, v, ts))
}

// scalarConstFamily wraps a numeric literal as the single-sample, no-label
// family used on either side of a mixed family/constant binary expression
// (e.g. the 100 in `a * 100`, or the a in `100 - a`).
func scalarConstFamily(name string, v float64, ts int64) *model.SampleFamily {
	return model.NewFamily(name, model.Sample{Name: name, Value: v, Timestamp: ts})
}
