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

// Package engine implements C3, the MAL evaluation engine: given a compiled
// expression tree and a map of named input SampleFamilies, it produces the
// entity-bound metrics the expression describes.
package engine

import (
	"context"
	"strconv"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/prometheus/model/labels"

	"github.com/GoogleCloudPlatform/prometheus-engine/mal/pkg/mal/ast"
	"github.com/GoogleCloudPlatform/prometheus-engine/mal/pkg/mal/model"
	"github.com/GoogleCloudPlatform/prometheus-engine/mal/pkg/mal/retag"
)

// DownsamplingHint carries .downsampling()'s argument through to the
// evaluation's output unchanged -- it never affects which samples are
// produced.
type DownsamplingHint string

const (
	HintNone   DownsamplingHint = ""
	HintMin    DownsamplingHint = "MIN"
	HintMax    DownsamplingHint = "MAX"
	HintSum    DownsamplingHint = "SUM"
	HintLatest DownsamplingHint = "LATEST"
)

// EmittedMetric is the engine's final output unit: one entity, the samples
// bound to it by this expression's evaluation, and the (possibly absent)
// downsampling hint collected along the way.
type EmittedMetric struct {
	Entity           model.MeterEntity
	Name             string
	Samples          []model.Sample
	DownsamplingHint DownsamplingHint
}

// Evaluator runs compiled expressions against a K8s metadata oracle and
// self-reports via the registerer passed to New, the same constructor
// shape as pkg/export's series cache (log.Logger and a
// prometheus.Registerer threaded in, never package globals).
type Evaluator struct {
	logger  log.Logger
	oracle  retag.Oracle
	metrics *selfMetrics
}

// New builds an Evaluator. A nil logger defaults to a no-op logger; a nil
// registerer skips self-metrics registration entirely (both mirror
// pkg/export's constructor conventions).
func New(logger log.Logger, reg prometheus.Registerer, oracle retag.Oracle) *Evaluator {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Evaluator{
		logger:  logger,
		oracle:  oracle,
		metrics: newSelfMetrics(reg),
	}
}

// Evaluate runs one compiled expression against the given input families,
// using and mutating state (the expression's own rate/increase/irate
// tables). A panic anywhere in the walk is recovered and reported as a
// failed Result rather than propagated -- one malformed or surprising
// expression must never take down evaluation of its siblings.
func (e *Evaluator) Evaluate(ctx context.Context, name string, root ast.Node, input map[string]*model.SampleFamily, state *ExprState) (emitted []EmittedMetric, result *model.Result) {
	defer func() {
		if r := recover(); r != nil {
			level.Error(e.logger).Log("msg", "recovered panic evaluating expression", "expr", name, "panic", r)
			emitted = nil
			result = model.Err("panic evaluating %q: %v", name, r)
			e.metrics.observeResult(false)
		}
	}()

	if err := ctx.Err(); err != nil {
		result = model.Err("cancelled")
		e.metrics.observeResult(false)
		return nil, result
	}

	call, ok := root.(*ast.CallNode)
	if !ok || !isScopeMethod(call.Method) {
		result = model.Err("mal: expression %q does not terminate in a scope binder", name)
		e.metrics.observeResult(false)
		return nil, result
	}

	w := &walker{ctx: ctx, input: input, oracle: e.oracle, state: state}
	pre, err := w.walk(call.Receiver)
	if err != nil {
		level.Warn(e.logger).Log("msg", "expression evaluation failed", "expr", name, "err", err)
		result = model.Err("mal: %v", err)
		e.metrics.observeResult(false)
		return nil, result
	}

	bound, err := w.bindScope(call, pre)
	if err != nil {
		result = model.Err("mal: %v", err)
		e.metrics.observeResult(false)
		return nil, result
	}

	emitted = groupByEntity(name, w.hint, bound)
	e.metrics.observeResult(true)
	e.metrics.observeEmitted(len(bound))
	result = model.Ok(pre)
	return emitted, result
}

// SetRateStateEntries updates the engine's live rate/increase/irate
// state-machine entry count. Callers that hold multiple ExprState tables
// (one per compiled expression) sum their counts and report the total once
// per cycle.
func (e *Evaluator) SetRateStateEntries(n int) {
	e.metrics.setRateStateEntries(n)
}

// EvaluatePrecondition runs a filter-only expression -- one with no scope
// binder at its tail -- against input and reports whether it yields any
// samples. Rule files use this to gate their entire metric set behind a
// single precondition filter expression evaluated once per cycle.
func (e *Evaluator) EvaluatePrecondition(ctx context.Context, root ast.Node, input map[string]*model.SampleFamily) (pass bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			level.Error(e.logger).Log("msg", "recovered panic evaluating filter", "panic", r)
			pass, err = false, errors.Errorf("panic evaluating filter: %v", r)
		}
	}()

	w := &walker{ctx: ctx, input: input, oracle: e.oracle}
	f, err := w.walk(root)
	if err != nil {
		return false, err
	}
	return len(f.Samples) > 0, nil
}

// walker carries the per-evaluation-call context (the input map, the
// expression's rate state, and the collected downsampling hint) through the
// recursive AST walk without polluting every helper function's signature.
type walker struct {
	ctx    context.Context
	input  map[string]*model.SampleFamily
	oracle retag.Oracle
	state  *ExprState
	hint   DownsamplingHint
}

func (w *walker) walk(node ast.Node) (*model.SampleFamily, error) {
	if err := w.ctx.Err(); err != nil {
		return nil, errors.New("cancelled")
	}
	switch n := node.(type) {
	case *ast.SourceNode:
		f, ok := w.input[n.Name]
		if !ok {
			return nil, errors.Errorf("source sample %q not present in input", n.Name)
		}
		return f, nil
	case *ast.NumberNode:
		return scalarConstFamily("__const__", n.Value, 0), nil
	case *ast.BinaryNode:
		left, err := w.walk(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := w.walk(n.Right)
		if err != nil {
			return nil, err
		}
		return broadcastBinary(n.Op, left, right), nil
	case *ast.CallNode:
		return w.walkCall(n)
	default:
		return nil, errors.Errorf("unsupported node type %T", node)
	}
}

func isScopeMethod(method string) bool {
	switch method {
	case "service", "instance", "endpoint", "serviceRelation", "processRelation":
		return true
	default:
		return false
	}
}

func (w *walker) walkCall(n *ast.CallNode) (*model.SampleFamily, error) {
	if isScopeMethod(n.Method) {
		return nil, errors.Errorf("scope operator %q may only appear at the tail of an expression", n.Method)
	}

	recv, err := w.walk(n.Receiver)
	if err != nil {
		return nil, err
	}

	switch n.Method {
	case "tagEqual":
		return tagEqual(recv, argStr(n.Args, 0), argStr(n.Args, 1)), nil
	case "tagNotEqual":
		return tagNotEqual(recv, argStr(n.Args, 0), argStr(n.Args, 1)), nil
	case "tagMatch":
		return tagMatch(recv, argStr(n.Args, 0), argStr(n.Args, 1))
	case "tagNotMatch":
		return tagNotMatch(recv, argStr(n.Args, 0), argStr(n.Args, 1))
	case "valueEqual":
		return valueEqual(recv, argNum(n.Args, 0)), nil
	case "tag":
		if len(n.Args) == 0 || n.Args[0].Closure == nil {
			return nil, errors.Errorf("mal: tag(...) requires a resolved closure argument")
		}
		closure := n.Args[0].Closure
		return recv.Map(func(s model.Sample) (model.Sample, bool) {
			return s.WithLabels(applyClosure(s.Labels, closure)), true
		}), nil
	case "retagByK8sMeta":
		newKey := argStr(n.Args, 0)
		rule := retag.Rule(argStr(n.Args, 1))
		var inputKeys []string
		for _, a := range n.Args[minInt(2, len(n.Args)):] {
			inputKeys = append(inputKeys, a.Str)
		}
		return recv.Map(func(s model.Sample) (model.Sample, bool) {
			val := retag.Apply(rule, s.Labels, inputKeys, w.oracle)
			b := labels.NewBuilder(s.Labels)
			b.Set(newKey, val)
			return s.WithLabels(b.Labels()), true
		}), nil
	case "sum":
		return groupReduce(aggSum, recv, argList(n.Args, 0)), nil
	case "avg":
		return groupReduce(aggAvg, recv, argList(n.Args, 0)), nil
	case "max":
		return groupReduce(aggMax, recv, argList(n.Args, 0)), nil
	case "min":
		return groupReduce(aggMin, recv, argList(n.Args, 0)), nil
	case "rate":
		seconds, err := parseISO8601Duration(argStr(n.Args, 0))
		if err != nil {
			return nil, err
		}
		out := &model.SampleFamily{Name: recv.Name}
		for _, s := range recv.Samples {
			if v, ok := w.state.rate(n, s.Labels, s.Value, s.Timestamp, seconds); ok {
				out.Samples = append(out.Samples, s.WithValue(v))
			}
		}
		return out, nil
	case "irate":
		out := &model.SampleFamily{Name: recv.Name}
		for _, s := range recv.Samples {
			if v, ok := w.state.irate(n, s.Labels, s.Value, s.Timestamp); ok {
				out.Samples = append(out.Samples, s.WithValue(v))
			}
		}
		return out, nil
	case "increase":
		seconds, err := parseISO8601Duration(argStr(n.Args, 0))
		if err != nil {
			return nil, err
		}
		out := &model.SampleFamily{Name: recv.Name}
		for _, s := range recv.Samples {
			if v, ok := w.state.increase(n, s.Labels, s.Value, s.Timestamp, seconds); ok {
				out.Samples = append(out.Samples, s.WithValue(v))
			}
		}
		return out, nil
	case "downsampling":
		w.hint = DownsamplingHint(argStr(n.Args, 0))
		return recv, nil
	case "histogram":
		// Asserts cumulative-histogram shape; carries no transformation of
		// its own.
		return recv, nil
	case "histogram_percentile":
		items := argList(n.Args, 0)
		percentiles := make([]float64, 0, len(items))
		for _, item := range items {
			v, err := strconv.ParseFloat(item, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "mal: invalid percentile literal %q", item)
			}
			percentiles = append(percentiles, v)
		}
		return histogramPercentile(recv, percentiles), nil
	default:
		return nil, errors.Errorf("mal: unknown operator %q", n.Method)
	}
}

func (w *walker) bindScope(n *ast.CallNode, f *model.SampleFamily) ([]EmittedSample, error) {
	switch n.Method {
	case "service":
		return scopeService(f, argList(n.Args, 0), argStr(n.Args, 1)), nil
	case "instance":
		return scopeInstance(f, argList(n.Args, 0), argList(n.Args, 1), argStr(n.Args, 2)), nil
	case "endpoint":
		return scopeEndpoint(f, argList(n.Args, 0), argList(n.Args, 1), argStr(n.Args, 2)), nil
	case "serviceRelation":
		return scopeServiceRelation(f, argStr(n.Args, 0), argList(n.Args, 1), argList(n.Args, 2), argStr(n.Args, 3)), nil
	case "processRelation":
		return scopeProcessRelation(f, argStr(n.Args, 0), argList(n.Args, 1), argList(n.Args, 2), argStr(n.Args, 3), argStr(n.Args, 4), argStr(n.Args, 5)), nil
	default:
		return nil, errors.Errorf("mal: unknown scope operator %q", n.Method)
	}
}

// groupByEntity collapses the flat (entity, sample) pairs a scope binder
// produces into one EmittedMetric per distinct entity, preserving first-seen
// order.
func groupByEntity(name string, hint DownsamplingHint, bound []EmittedSample) []EmittedMetric {
	if len(bound) == 0 {
		return nil
	}
	index := map[model.MeterEntity]int{}
	var out []EmittedMetric
	for _, b := range bound {
		i, ok := index[b.Entity]
		if !ok {
			index[b.Entity] = len(out)
			out = append(out, EmittedMetric{Entity: b.Entity, Name: name, DownsamplingHint: hint})
			i = len(out) - 1
		}
		out[i].Samples = append(out[i].Samples, b.Sample)
	}
	return out
}

func argStr(args []ast.Arg, i int) string {
	if i < 0 || i >= len(args) {
		return ""
	}
	return args[i].Str
}

func argNum(args []ast.Arg, i int) float64 {
	if i < 0 || i >= len(args) {
		return 0
	}
	return args[i].Num
}

func argList(args []ast.Arg, i int) []string {
	if i < 0 || i >= len(args) {
		return nil
	}
	return args[i].List
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
