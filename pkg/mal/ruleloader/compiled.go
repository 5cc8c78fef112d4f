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

package ruleloader

import (
	"github.com/GoogleCloudPlatform/prometheus-engine/mal/pkg/mal/ast"
	"github.com/GoogleCloudPlatform/prometheus-engine/mal/pkg/mal/engine"
)

// CompiledMetric is one metricsRules entry after expPrefix/expSuffix
// composition, parsing and combination-pattern resolution.
type CompiledMetric struct {
	// MetricName is metricPrefix + "_" + the rule's own name, before any
	// combination suffix.
	MetricName string
	// QualifiedID is MetricName with its deterministic "_N" combination
	// suffix; this is the manifest's lookup key.
	QualifiedID string
	// ComposedExpr is the final expression text after expPrefix/expSuffix
	// splicing, the text the QualifiedID's SHA-256 is computed over.
	ComposedExpr string
	Hash         [32]byte
	SourceFile   string

	Node    ast.Node
	Sources []string // sample names this expression reads, via discoverSources

	state *engine.ExprState
}

// State returns this compiled metric's rate/increase/irate state table,
// lazily allocated on first use so an unevaluated metric carries no state
// overhead. The lazy init is unsynchronized: it relies on Dispatcher never
// running more than one goroutine against a given CompiledMetric within the
// same Evaluate call, and never overlapping two Evaluate calls on the same
// Dispatcher concurrently.
func (c *CompiledMetric) State() *engine.ExprState {
	if c.state == nil {
		c.state = engine.NewExprState()
	}
	return c.state
}
