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

import "strings"

// ComposeExpression splices a rule file's expPrefix/expSuffix around one
// metric's exp:
//
//  1. Start with exp.
//  2. If expPrefix is non-empty, splice it between the first dotted segment
//     (the source name) and the rest: "(<name>.<expPrefix>).<rest>".
//  3. If expSuffix is non-empty, append it: "(<composed>).<expSuffix>".
func ComposeExpression(exp, expPrefix, expSuffix string) string {
	composed := exp
	if expPrefix != "" {
		composed = spliceExpPrefix(composed, expPrefix)
	}
	if expSuffix != "" {
		composed = "(" + composed + ")." + expSuffix
	}
	return composed
}

func spliceExpPrefix(exp, expPrefix string) string {
	idx := strings.IndexByte(exp, '.')
	if idx < 0 {
		return exp + "." + expPrefix
	}
	name, rest := exp[:idx], exp[idx:]
	return "(" + name + "." + expPrefix + ")" + rest
}
