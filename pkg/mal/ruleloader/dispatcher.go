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
	"context"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/GoogleCloudPlatform/prometheus-engine/mal/pkg/mal/ast"
	"github.com/GoogleCloudPlatform/prometheus-engine/mal/pkg/mal/engine"
	"github.com/GoogleCloudPlatform/prometheus-engine/mal/pkg/mal/model"
	"github.com/GoogleCloudPlatform/prometheus-engine/mal/pkg/mal/retag"
)

// Dispatcher owns the compiled expression set produced by Load and runs
// them against scrape-cycle input, one worker per expression. The
// compiled-expression map is immutable after Load returns; only each
// expression's own ExprState mutates across calls to Evaluate.
type Dispatcher struct {
	logger    log.Logger
	evaluator *engine.Evaluator

	compiled []*CompiledMetric
	bySource map[string][]*CompiledMetric

	// fileFilters holds each rule file's parsed precondition filter
	// expression, keyed by the file's path. A file with no filter has no
	// entry here and always runs.
	fileFilters map[string]ast.Node
}

// Load parses and compiles every rule file's metrics, applying expPrefix/
// expSuffix composition and combination-pattern resolution across files.
// Load fails fast on any rule-load error (malformed expression, unknown
// operator) -- the engine never starts with a partially-compiled rule set.
func Load(logger log.Logger, reg prometheus.Registerer, oracle retag.Oracle, files []*RuleFile) (*Dispatcher, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	d := &Dispatcher{
		logger:      logger,
		evaluator:   engine.New(logger, reg, oracle),
		bySource:    map[string][]*CompiledMetric{},
		fileFilters: map[string]ast.Node{},
	}

	resolver := newCombinationResolver()
	for _, f := range files {
		if f.Filter != "" {
			filterNode, err := ast.Parse(f.Filter)
			if err != nil {
				return nil, errors.Wrapf(err, "rule file %q: filter", f.Path)
			}
			d.fileFilters[f.Path] = filterNode
		}
		for _, rule := range f.MetricsRules {
			metricName := f.MetricPrefix + "_" + rule.Name
			composed := ComposeExpression(rule.Exp, f.ExpPrefix, f.ExpSuffix)

			node, err := ast.Parse(composed)
			if err != nil {
				return nil, errors.Wrapf(err, "rule file %q: metric %q", f.Path, rule.Name)
			}

			qualifiedID, hash := resolver.resolve(metricName, composed)
			cm := &CompiledMetric{
				MetricName:   metricName,
				QualifiedID:  qualifiedID,
				ComposedExpr: composed,
				Hash:         hash,
				SourceFile:   f.Path,
				Node:         node,
				Sources:      discoverSources(node),
			}
			d.compiled = append(d.compiled, cm)
			for _, src := range cm.Sources {
				d.bySource[src] = append(d.bySource[src], cm)
			}
		}
	}
	return d, nil
}

// Compiled returns every compiled metric, in load order. Callers use this
// to build manifest files.
func (d *Dispatcher) Compiled() []*CompiledMetric {
	return d.compiled
}

// Evaluate drives one scrape cycle: every compiled expression whose required
// source sample is present in input runs concurrently on its own worker,
// each against its own ExprState so rate-family state updates stay strictly
// ordered per expression and never cross expressions.
// ctx cancellation is observed by the underlying per-expression Evaluate
// call, which reports Result.err("cancelled") without mutating state.
func (d *Dispatcher) Evaluate(ctx context.Context, now int64, input map[string]*model.SampleFamily) ([]engine.EmittedMetric, map[string]*model.Result) {
	triggered := d.passesFileFilter(ctx, d.triggeredMetrics(input), input)

	var (
		mu      sync.Mutex
		emitted []engine.EmittedMetric
		results = make(map[string]*model.Result, len(triggered))
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, cm := range triggered {
		cm := cm
		g.Go(func() error {
			out, result := d.evaluator.Evaluate(gctx, cm.QualifiedID, cm.Node, input, cm.State())
			mu.Lock()
			defer mu.Unlock()
			emitted = append(emitted, out...)
			results[cm.QualifiedID] = result
			if !result.Success {
				level.Debug(d.logger).Log("msg", "expression evaluation failed", "metric", cm.QualifiedID, "err", result.Error)
			}
			return nil
		})
	}
	// No worker returns an error (per-expression failures, context
	// cancellation included, are carried in results as a Result.err), so
	// g.Wait always returns nil.
	_ = g.Wait()

	d.evaluator.SetRateStateEntries(d.rateStateEntryCount())

	return emitted, results
}

// rateStateEntryCount sums live rate/increase/irate state-machine entries
// across every compiled expression that has been evaluated at least once.
// It never triggers State()'s lazy allocation for metrics that have not
// run yet.
func (d *Dispatcher) rateStateEntryCount() int {
	n := 0
	for _, cm := range d.compiled {
		if s := cm.state; s != nil {
			n += s.Len()
		}
	}
	return n
}

// passesFileFilter drops every compiled metric whose source rule file
// carries a precondition filter that evaluates empty for this cycle's
// input, evaluating each distinct file's filter at most once per call.
func (d *Dispatcher) passesFileFilter(ctx context.Context, metrics []*CompiledMetric, input map[string]*model.SampleFamily) []*CompiledMetric {
	if len(d.fileFilters) == 0 {
		return metrics
	}
	cache := map[string]bool{}
	out := make([]*CompiledMetric, 0, len(metrics))
	for _, cm := range metrics {
		filterNode, ok := d.fileFilters[cm.SourceFile]
		if !ok {
			out = append(out, cm)
			continue
		}
		pass, ok := cache[cm.SourceFile]
		if !ok {
			var err error
			pass, err = d.evaluator.EvaluatePrecondition(ctx, filterNode, input)
			if err != nil {
				level.Debug(d.logger).Log("msg", "rule file filter evaluation failed", "file", cm.SourceFile, "err", err)
				pass = false
			}
			cache[cm.SourceFile] = pass
		}
		if pass {
			out = append(out, cm)
		}
	}
	return out
}

// triggeredMetrics collects, without duplicates, every compiled metric whose
// source-sample index hits the given input map.
func (d *Dispatcher) triggeredMetrics(input map[string]*model.SampleFamily) []*CompiledMetric {
	seen := map[*CompiledMetric]struct{}{}
	var out []*CompiledMetric
	for name := range input {
		for _, cm := range d.bySource[name] {
			if _, ok := seen[cm]; ok {
				continue
			}
			seen[cm] = struct{}{}
			out = append(out, cm)
		}
	}
	return out
}
