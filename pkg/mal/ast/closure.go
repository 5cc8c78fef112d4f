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

package ast

import (
	"fmt"
	"regexp"
	"strings"
)

// Every closure the rule corpus uses belongs to one of five textual
// templates. matchClosure tries each in turn and returns the first match;
// an expression author who writes anything else gets a load-time parse
// error rather than silent misbehavior.
var (
	reIdentity = regexp.MustCompile(`^\s*(\w+)\s*->\s*\w+\.(\w+)\s*=\s*\w+\.(\w+)\s*$`)
	reConcat   = regexp.MustCompile(`^\s*(\w+)\s*->\s*\w+\.(\w+)\s*=\s*'([^']*)'\s*\+\s*\w+\.(\w+)\s*$`)
	reRemove   = regexp.MustCompile(`^\s*(\w+)\s*->\s*\w+\.remove\(\s*'(\w+)'\s*\)\s*$`)
	reCond     = regexp.MustCompile(`^\s*(\w+)\s*->\s*if\s*\(\s*\w+\.(\w+)\s*==\s*'([^']*)'\s*\)\s*\w+\.(\w+)\s*=\s*'([^']*)'\s*$`)
	rePair     = regexp.MustCompile(`'([^']+)'\s*:\s*'([^']*)'`)
)

// matchClosure parses the raw text captured between a tag(...) call's
// balanced braces into a tagged-variant ClosureNode.
func matchClosure(raw string) (ClosureNode, error) {
	if m := reConcat.FindStringSubmatch(raw); m != nil {
		key, prefix, srcKey := m[2], m[3], m[4]
		if key != srcKey {
			return nil, fmt.Errorf("mal: string-concat rewrite must read and write the same key, got %q and %q", key, srcKey)
		}
		return StringConcatRewrite{Key: key, Prefix: prefix}, nil
	}
	if m := reIdentity.FindStringSubmatch(raw); m != nil {
		to, from := m[2], m[3]
		if to == from {
			return IdentityRewrite{Key: to}, nil
		}
		return CopyKeyRewrite{To: to, From: from}, nil
	}
	if m := reRemove.FindStringSubmatch(raw); m != nil {
		return RemoveKeyRewrite{Key: m[2]}, nil
	}
	if m := reCond.FindStringSubmatch(raw); m != nil {
		return ConditionalRewrite{Key: m[2], MatchValue: m[3], TargetKey: m[4], NewValue: m[5]}, nil
	}
	return nil, fmt.Errorf("mal: closure %q does not match any known rewrite pattern", strings.TrimSpace(raw))
}

// matchForEachTable extracts the key-indexed literal table from a forEach
// closure body, e.g. `side -> side.put(['client':'CLIENT','server':'SERVER'])`.
// Every 'key':'value' pair found anywhere in the closure text is collected;
// the caller (the forEach call handler) restricts application to the keys
// named in forEach's first argument.
func matchForEachTable(raw string) map[string]string {
	table := map[string]string{}
	for _, m := range rePair.FindAllStringSubmatch(raw, -1) {
		table[m[1]] = m[2]
	}
	return table
}
