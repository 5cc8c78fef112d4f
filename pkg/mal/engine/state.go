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
	"sync"

	"github.com/GoogleCloudPlatform/prometheus-engine/mal/pkg/mal/ast"
	"github.com/GoogleCloudPlatform/prometheus-engine/mal/pkg/mal/model"
)

// rateEntry is the state of one rate/increase/irate state machine instance,
// for one observed label set: either Empty (unprimed) or Primed(value, ts).
type rateEntry struct {
	primed bool
	value  float64 // the real, unadjusted last-observed value
	ts     int64   // unix milliseconds
}

// ExprState owns all rate-family state for one compiled expression
// instance, for its full lifetime. Every .rate()/.increase()/.irate() call
// site in the expression gets its own independent table, keyed by the AST
// node's identity so that an expression using more than one windowed
// operator never mixes their state.
type ExprState struct {
	mu     sync.Mutex
	tables map[*ast.CallNode]map[uint64]*rateEntry
}

// NewExprState allocates empty rate-family state for a freshly compiled
// expression instance.
func NewExprState() *ExprState {
	return &ExprState{tables: map[*ast.CallNode]map[uint64]*rateEntry{}}
}

// Len returns the total number of live rate-family state-machine entries
// held across every call site's table, for self-metrics reporting.
func (s *ExprState) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tables {
		n += len(t)
	}
	return n
}

func (s *ExprState) tableFor(node *ast.CallNode) map[uint64]*rateEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[node]
	if !ok {
		t = map[uint64]*rateEntry{}
		s.tables[node] = t
	}
	return t
}

// entryFor returns the entry for lset under node's table, creating it if
// absent, plus whether it was already primed before this call.
func (s *ExprState) entryFor(node *ast.CallNode, lset model.Labels) (*rateEntry, bool) {
	table := s.tableFor(node)
	key := model.CanonicalHash(lset)

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := table[key]
	if !ok {
		e = &rateEntry{}
		table[key] = e
	}
	wasPrimed := e.primed
	return e, wasPrimed
}

// counterResetAdjust returns the value to treat the previous observation as
// for the purpose of this computation: the real previous value, unless the
// series decreased (a monotonic counter reset), in which case it is treated
// as zero for this computation only -- the entry's stored value always
// tracks the real last-observed value.
func counterResetAdjust(prevValue, curValue float64) float64 {
	if curValue < prevValue {
		return 0
	}
	return prevValue
}

// rate implements .rate(window): (cur - prevAdj) / deltaSeconds * windowSeconds.
// Undefined (no output) on the first observation, or when no time elapsed
// since the previous one.
func (s *ExprState) rate(node *ast.CallNode, lset model.Labels, value float64, ts int64, windowSeconds float64) (float64, bool) {
	e, wasPrimed := s.entryFor(node, lset)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !wasPrimed {
		e.primed, e.value, e.ts = true, value, ts
		return 0, false
	}
	deltaMs := ts - e.ts
	if deltaMs <= 0 {
		return 0, false
	}
	prevAdj := counterResetAdjust(e.value, value)
	deltaSeconds := float64(deltaMs) / 1000.0
	result := (value - prevAdj) / deltaSeconds * windowSeconds

	e.value, e.ts = value, ts
	return result, true
}

// irate implements .irate(): the instantaneous two-point rate, per second,
// with no window multiplier (equivalent to rate() with an implicit 1s
// window).
func (s *ExprState) irate(node *ast.CallNode, lset model.Labels, value float64, ts int64) (float64, bool) {
	return s.rate(node, lset, value, ts, 1)
}

// increase implements .increase(window): emits (cur - prevAdj) once at
// least window has elapsed since the previous observation; otherwise holds
// -- the stored previous observation is left untouched so a later sample is
// compared against the same baseline.
func (s *ExprState) increase(node *ast.CallNode, lset model.Labels, value float64, ts int64, windowSeconds float64) (float64, bool) {
	e, wasPrimed := s.entryFor(node, lset)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !wasPrimed {
		e.primed, e.value, e.ts = true, value, ts
		return 0, false
	}
	deltaMs := ts - e.ts
	windowMs := int64(windowSeconds * 1000)
	if deltaMs < windowMs {
		return 0, false
	}
	prevAdj := counterResetAdjust(e.value, value)
	result := value - prevAdj

	e.value, e.ts = value, ts
	return result, true
}
