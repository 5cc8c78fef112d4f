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

import "sort"

// StalenessProperties is the in-memory form of staleness.properties (spec
// §6): yamlRelPath -> sha256(rule-file bytes) of each tracked rule file at
// the time a compiled artifact was last generated.
type StalenessProperties map[string]string

// Drift describes one rule file whose live content no longer matches the
// hash recorded in a staleness.properties snapshot.
type Drift struct {
	Path     string
	Recorded string // sha256 in the staleness.properties snapshot; "" if absent there
	Live     string // sha256 of the file's current bytes; "" if the file is gone
}

// CheckStaleness compares a staleness.properties snapshot against the
// current hashes of the live rule files, reporting drift the way a check
// tool would: a missing file, a changed file, or an untracked new file. It
// is a pure function over hashes -- no filesystem access and no CLI, so a
// host program can wrap it however it reads files and reports results.
//
// liveFiles maps each tracked rule file's path to its current byte content;
// CheckStaleness hashes each one with HashFileContent.
func CheckStaleness(snapshot StalenessProperties, liveFiles map[string][]byte) []Drift {
	var drifts []Drift

	for path, recorded := range snapshot {
		content, ok := liveFiles[path]
		if !ok {
			drifts = append(drifts, Drift{Path: path, Recorded: recorded, Live: ""})
			continue
		}
		live := HashFileContent(content)
		if live != recorded {
			drifts = append(drifts, Drift{Path: path, Recorded: recorded, Live: live})
		}
	}
	for path, content := range liveFiles {
		if _, ok := snapshot[path]; ok {
			continue
		}
		drifts = append(drifts, Drift{Path: path, Recorded: "", Live: HashFileContent(content)})
	}

	sort.Slice(drifts, func(i, j int) bool { return drifts[i].Path < drifts[j].Path })
	return drifts
}

// HashFileContent computes the manifest-form SHA-256 hex digest of a rule
// file's raw bytes, the same digest staleness.properties stores.
func HashFileContent(content []byte) string {
	return HashExpr(string(content))
}
