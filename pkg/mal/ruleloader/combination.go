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
	"crypto/sha256"
	"fmt"
)

// combinationResolver implements the "combination pattern": multiple rule
// files may define the same emitted metric name because one
// metric may be fed by several data sources. Every definition of a name,
// the first included, gets a deterministic "_N" suffix, and the SHA-256 of
// its full composed expression text is recorded as the tie-breaker key used
// to resolve (metricName, sha256(expr)) at lookup time.
type combinationResolver struct {
	seen map[string]int // emitted metric name -> next combination index
}

func newCombinationResolver() *combinationResolver {
	return &combinationResolver{seen: map[string]int{}}
}

// resolve assigns metricName its qualified, collision-free id and the
// SHA-256 hash of its composed expression text. Every definition -- including
// the first -- gets a "_N" suffix (N starting at 1), matching the manifest
// round-trip law's "manifest[metricName_N] for some N" phrasing: the
// manifest never stores a bare, unsuffixed metric name.
func (r *combinationResolver) resolve(metricName, composedExpr string) (qualifiedID string, hash [32]byte) {
	n := r.seen[metricName] + 1
	r.seen[metricName] = n

	qualifiedID = fmt.Sprintf("%s_%d", metricName, n)
	hash = sha256.Sum256([]byte(composedExpr))
	return qualifiedID, hash
}

// hashHex is a convenience formatting of a combination hash as the lowercase
// hex string the manifest files store.
func hashHex(h [32]byte) string {
	return fmt.Sprintf("%x", h)
}
