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

package manifest

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestManifest_AddAndLookup(t *testing.T) {
	m := New()
	hash := HashExpr("kong_bandwidth.sum(['host'])")
	m.Add(Entry{QualifiedID: "meter_kong_bandwidth_1", ExprSHA256: hash, SourceFile: "kong.yaml"})

	e, ok := m.Lookup("meter_kong_bandwidth", hash)
	require.True(t, ok)
	require.Equal(t, "meter_kong_bandwidth_1", e.QualifiedID)
}

func TestManifest_LookupMissNoHashMatch(t *testing.T) {
	m := New()
	m.Add(Entry{QualifiedID: "meter_kong_bandwidth_1", ExprSHA256: HashExpr("a"), SourceFile: "kong.yaml"})
	_, ok := m.Lookup("meter_kong_bandwidth", HashExpr("b"))
	require.False(t, ok)
}

func TestManifest_LookupMissNoPrefixMatch(t *testing.T) {
	m := New()
	hash := HashExpr("a")
	m.Add(Entry{QualifiedID: "meter_other_1", ExprSHA256: hash, SourceFile: "other.yaml"})
	_, ok := m.Lookup("meter_kong_bandwidth", hash)
	require.False(t, ok)
}

func TestManifest_LookupMissOnTrueStringPrefix(t *testing.T) {
	m := New()
	hash := HashExpr("a")
	m.Add(Entry{QualifiedID: "meter_cpu_usage_1", ExprSHA256: hash, SourceFile: "cpu.yaml"})
	_, ok := m.Lookup("meter_cpu", hash)
	require.False(t, ok, "meter_cpu must not match meter_cpu_usage_1: it is a string prefix but not a different metric's own name")
}

func TestManifest_EntriesAreSorted(t *testing.T) {
	m := New()
	m.Add(Entry{QualifiedID: "meter_b_1", ExprSHA256: "x"})
	m.Add(Entry{QualifiedID: "meter_a_1", ExprSHA256: "y"})

	entries := m.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, "meter_a_1", entries[0].QualifiedID)
	require.Equal(t, "meter_b_1", entries[1].QualifiedID)
}

func TestManifest_WriteMeterEntryLines(t *testing.T) {
	m := New()
	m.Add(Entry{QualifiedID: "meter_kong_bandwidth_1", ExprSHA256: "deadbeef"})

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	require.NoError(t, m.WriteMeterEntryLines(w))
	require.Equal(t, "meter_kong_bandwidth=meter_kong_bandwidth_1\n", buf.String())
}

func TestManifest_WriteExpressionHashLines(t *testing.T) {
	m := New()
	m.Add(Entry{QualifiedID: "meter_kong_bandwidth_1", ExprSHA256: "deadbeef"})

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	require.NoError(t, m.WriteExpressionHashLines(w))
	require.Equal(t, "meter_kong_bandwidth_1=deadbeef\n", buf.String())
}

func TestManifest_EntriesMatchExactly(t *testing.T) {
	m := New()
	m.Add(Entry{QualifiedID: "meter_b_1", ExprSHA256: "x", SourceFile: "b.yaml"})
	m.Add(Entry{QualifiedID: "meter_a_1", ExprSHA256: "y", SourceFile: "a.yaml"})

	want := []Entry{
		{QualifiedID: "meter_a_1", ExprSHA256: "y", SourceFile: "a.yaml"},
		{QualifiedID: "meter_b_1", ExprSHA256: "x", SourceFile: "b.yaml"},
	}
	if diff := cmp.Diff(want, m.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}
}

func TestHashExpr_IsDeterministic(t *testing.T) {
	require.Equal(t, HashExpr("abc"), HashExpr("abc"))
	require.NotEqual(t, HashExpr("abc"), HashExpr("abd"))
}
