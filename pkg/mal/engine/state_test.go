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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GoogleCloudPlatform/prometheus-engine/mal/pkg/mal/ast"
	"github.com/GoogleCloudPlatform/prometheus-engine/mal/pkg/mal/model"
)

// TestExprState_Rate_WorkedExample reproduces spec.md's own worked example 3:
// T0=2097152, T0+120s=4194304, window 60s -> 1048576.0. This is the
// numeric oracle that pins the millisecond-to-second conversion in rate().
func TestExprState_Rate_WorkedExample(t *testing.T) {
	s := NewExprState()
	node := &ast.CallNode{Method: "rate"}
	lset := model.LabelsFromMap(map[string]string{"direction": "ingress"})

	_, ok := s.rate(node, lset, 2097152, 0, 60)
	require.False(t, ok, "first observation must not produce output")

	v, ok := s.rate(node, lset, 4194304, 120_000, 60)
	require.True(t, ok)
	require.InDelta(t, 1048576.0, v, 1e-6)
}

func TestExprState_Rate_CounterReset(t *testing.T) {
	s := NewExprState()
	node := &ast.CallNode{Method: "rate"}
	lset := model.LabelsFromMap(nil)

	s.rate(node, lset, 100, 0, 60)
	// Counter reset: new value (10) < previous (100) -> previous treated as 0.
	v, ok := s.rate(node, lset, 10, 60_000, 60)
	require.True(t, ok)
	require.InDelta(t, 10.0, v, 1e-9)
}

func TestExprState_Rate_NoElapsedTime(t *testing.T) {
	s := NewExprState()
	node := &ast.CallNode{Method: "rate"}
	lset := model.LabelsFromMap(nil)

	s.rate(node, lset, 1, 1000, 60)
	_, ok := s.rate(node, lset, 2, 1000, 60)
	require.False(t, ok)
}

func TestExprState_Increase_HoldsUntilWindowElapsed(t *testing.T) {
	s := NewExprState()
	node := &ast.CallNode{Method: "increase"}
	lset := model.LabelsFromMap(nil)

	s.increase(node, lset, 10, 0, 60)
	_, ok := s.increase(node, lset, 20, 30_000, 60) // only 30s elapsed, window is 60s
	require.False(t, ok)

	v, ok := s.increase(node, lset, 40, 60_000, 60)
	require.True(t, ok)
	require.InDelta(t, 30.0, v, 1e-9) // baseline was still 10 (held)
}

func TestExprState_IndependentPerCallSite(t *testing.T) {
	s := NewExprState()
	nodeA := &ast.CallNode{Method: "rate"}
	nodeB := &ast.CallNode{Method: "rate"}
	lset := model.LabelsFromMap(nil)

	s.rate(nodeA, lset, 100, 0, 60)
	// nodeB has never seen a sample, so it must be unprimed even though
	// nodeA was primed with the same label set.
	_, ok := s.rate(nodeB, lset, 999, 0, 60)
	require.False(t, ok)
}

func TestExprState_Irate(t *testing.T) {
	s := NewExprState()
	node := &ast.CallNode{Method: "irate"}
	lset := model.LabelsFromMap(nil)

	s.irate(node, lset, 10, 0)
	v, ok := s.irate(node, lset, 20, 2000)
	require.True(t, ok)
	require.InDelta(t, 5.0, v, 1e-9) // (20-10)/2s * 1
}
