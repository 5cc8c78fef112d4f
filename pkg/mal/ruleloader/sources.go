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

import "github.com/GoogleCloudPlatform/prometheus-engine/mal/pkg/mal/ast"

// discoverSources walks a compiled expression's AST to find every source
// sample name it reads, the way walkExpr descends a PromQL AST to find
// VectorSelectors (pkg/rules/rules.go). The dispatcher uses the result to
// index expressions by the sample names that can trigger them.
func discoverSources(node ast.Node) []string {
	var names []string
	seen := map[string]struct{}{}
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		switch v := n.(type) {
		case *ast.SourceNode:
			if _, ok := seen[v.Name]; !ok {
				seen[v.Name] = struct{}{}
				names = append(names, v.Name)
			}
		case *ast.NumberNode:
		case *ast.BinaryNode:
			walk(v.Left)
			walk(v.Right)
		case *ast.CallNode:
			walk(v.Receiver)
		}
	}
	walk(node)
	return names
}
