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

// Package manifest implements C6: the resource-path-keyed manifests that
// pair a rule file's compiled metrics with their SHA-256 expression hashes,
// and the staleness check that compares them against a live rule-file tree.
package manifest

import (
	"bufio"
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Entry is one compiled metric's manifest record: its qualified id (carrying
// any "_N" combination suffix), the SHA-256 hex of its composed expression
// text, and the rule-file path it came from.
type Entry struct {
	QualifiedID string
	ExprSHA256  string
	SourceFile  string
}

// Manifest is the in-memory form of the two manifest files: the
// metricName -> compiled-class mapping, and the
// metricName -> sha256(exprText) disambiguation table. Both are keyed by
// QualifiedID here since that is the form that already disambiguates
// combinations.
type Manifest struct {
	entries map[string]Entry
}

// New builds an empty Manifest.
func New() *Manifest {
	return &Manifest{entries: map[string]Entry{}}
}

// Add records one compiled metric's manifest entry.
func (m *Manifest) Add(e Entry) {
	m.entries = initIfNil(m.entries)
	m.entries[e.QualifiedID] = e
}

func initIfNil(m map[string]Entry) map[string]Entry {
	if m == nil {
		return map[string]Entry{}
	}
	return m
}

// Lookup resolves (metricName, sha256(exprText)) to the compiled metric's
// qualified id it was compiled under. ok is false if no entry's metric
// name and hash both match.
func (m *Manifest) Lookup(metricName, exprSHA256 string) (Entry, bool) {
	for _, e := range m.entries {
		if baseMetricName(e.QualifiedID) == metricName && e.ExprSHA256 == exprSHA256 {
			return e, true
		}
	}
	return Entry{}, false
}

// Entries returns every manifest entry, sorted by QualifiedID for
// deterministic serialization.
func (m *Manifest) Entries() []Entry {
	out := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QualifiedID < out[j].QualifiedID })
	return out
}

// WriteMeterEntryLines renders the `metricName=qualifiedId` manifest lines.
func (m *Manifest) WriteMeterEntryLines(w *bufio.Writer) error {
	for _, e := range m.Entries() {
		if _, err := fmt.Fprintf(w, "%s=%s\n", baseMetricName(e.QualifiedID), e.QualifiedID); err != nil {
			return errors.Wrap(err, "writing manifest entry")
		}
	}
	return w.Flush()
}

// WriteExpressionHashLines renders the `metricName=sha256(exprText)`
// manifest lines.
func (m *Manifest) WriteExpressionHashLines(w *bufio.Writer) error {
	for _, e := range m.Entries() {
		if _, err := fmt.Fprintf(w, "%s=%s\n", e.QualifiedID, e.ExprSHA256); err != nil {
			return errors.Wrap(err, "writing expression hash entry")
		}
	}
	return w.Flush()
}

// baseMetricName strips a trailing "_N" combination suffix a QualifiedID
// carries, recovering the emitted metric name it combines into.
func baseMetricName(qualifiedID string) string {
	idx := strings.LastIndexByte(qualifiedID, '_')
	if idx < 0 {
		return qualifiedID
	}
	return qualifiedID[:idx]
}

// HashExpr computes the manifest-form SHA-256 hex digest of composed
// expression text, matching the hash embedded in a CompiledMetric.
func HashExpr(composedExpr string) string {
	sum := sha256.Sum256([]byte(composedExpr))
	return fmt.Sprintf("%x", sum)
}
