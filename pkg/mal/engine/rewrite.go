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
	"github.com/prometheus/prometheus/model/labels"

	"github.com/GoogleCloudPlatform/prometheus-engine/mal/pkg/mal/ast"
	"github.com/GoogleCloudPlatform/prometheus-engine/mal/pkg/mal/model"
)

// applyClosure runs one of the five tag-rewrite templates against a single
// sample's label set, returning the rewritten set. IdentityRewrite is a
// genuine no-op, kept as its own case so the round-trip law reads as "apply
// a rewrite that changes nothing" rather than being special-cased away at
// parse time.
func applyClosure(lset model.Labels, c ast.ClosureNode) model.Labels {
	switch v := c.(type) {
	case ast.IdentityRewrite:
		return lset
	case ast.StringConcatRewrite:
		b := labels.NewBuilder(lset)
		b.Set(v.Key, v.Prefix+lset.Get(v.Key))
		return b.Labels()
	case ast.RemoveKeyRewrite:
		return model.WithoutKeys(lset, v.Key)
	case ast.CopyKeyRewrite:
		b := labels.NewBuilder(lset)
		b.Set(v.To, lset.Get(v.From))
		return b.Labels()
	case ast.ConditionalRewrite:
		if lset.Get(v.Key) != v.MatchValue {
			return lset
		}
		b := labels.NewBuilder(lset)
		b.Set(v.TargetKey, v.NewValue)
		return b.Labels()
	case ast.ForEachTableRewrite:
		b := labels.NewBuilder(lset)
		for _, k := range v.Keys {
			if val, ok := v.Table[k]; ok {
				b.Set(k, val)
			}
		}
		return b.Labels()
	default:
		return lset
	}
}
