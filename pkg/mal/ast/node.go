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

// Node is any node of a normalized MAL expression tree. The set of concrete
// types is closed: SourceNode, NumberNode, BinaryNode and CallNode. There is
// no user-defined-function node and no loop construct.
type Node interface {
	isNode()
}

// SourceNode names a SampleFamily from the evaluator's input map.
type SourceNode struct {
	Name string
}

func (*SourceNode) isNode() {}

// NumberNode is a numeric literal operand used in arithmetic, e.g. the 100 in
// `process_cpu_usage * 100`.
type NumberNode struct {
	Value float64
}

func (*NumberNode) isNode() {}

// BinaryNode is a broadcasted arithmetic operation between two operands, at
// least one of which is family-valued.
type BinaryNode struct {
	Op    string // "+", "-", "*", "/"
	Left  Node
	Right Node
}

func (*BinaryNode) isNode() {}

// ArgKind discriminates the literal forms a CallNode argument may take.
type ArgKind int

const (
	ArgString ArgKind = iota
	ArgNumber
	ArgList
	ArgClosure
	ArgIdent
)

// Arg is one argument to a chained method call.
type Arg struct {
	Kind    ArgKind
	Str     string
	Num     float64
	List    []string
	Closure ClosureNode
}

// CallNode is a chained method invocation on a receiver, e.g. the
// `.tagEqual('k','v')` in `sampleName.tagEqual('k','v')`, or a scope binder
// at the tail of the pipeline.
type CallNode struct {
	Receiver Node
	Method   string
	Args     []Arg
}

func (*CallNode) isNode() {}

// ClosureNode is the closed, tagged-variant family of tag-rewrite closures.
// It is parsed out of raw closure text by the matcher in closure.go -- the
// engine never interprets arbitrary closure code.
type ClosureNode interface {
	isClosure()
}

// StringConcatRewrite implements `tags -> tags.K = 'literal' + tags.K`.
type StringConcatRewrite struct {
	Key    string
	Prefix string
}

func (StringConcatRewrite) isClosure() {}

// RemoveKeyRewrite implements `tags -> tags.remove('K')`.
type RemoveKeyRewrite struct {
	Key string
}

func (RemoveKeyRewrite) isClosure() {}

// CopyKeyRewrite implements `tags -> tags.TO = tags.FROM`.
type CopyKeyRewrite struct {
	From string
	To   string
}

func (CopyKeyRewrite) isClosure() {}

// ConditionalRewrite implements
// `tags -> if (tags.K == 'v1') tags.TARGET = 'v2'`.
type ConditionalRewrite struct {
	Key        string
	MatchValue string
	TargetKey  string
	NewValue   string
}

func (ConditionalRewrite) isClosure() {}

// ForEachTableRewrite implements the `forEach([...keys], {...})` pattern: for
// every key present in both Keys and Table, set label[key] = Table[key].
type ForEachTableRewrite struct {
	Keys  []string
	Table map[string]string
}

func (ForEachTableRewrite) isClosure() {}

// IdentityRewrite implements `tags -> tags.K = tags.K`, the explicit no-op
// closure used in the round-trip law.
type IdentityRewrite struct {
	Key string
}

func (IdentityRewrite) isClosure() {}
