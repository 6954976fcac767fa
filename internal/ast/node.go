// Copyright 2025 Binaek Sarkar
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ast holds the MathLang program-tree node types (spec §3): a
// tagged union of top-level statements, each carrying its source line for
// diagnostics. Expression payloads are carried as verbatim text (spec §9
// "text as stable identity") rather than parsed into a tree here; only the
// oracle and the knowledge registry (internal/expr) interpret that text.
package ast

// Node is implemented by every program-tree statement.
type Node interface {
	String() string
	Line() int
}

// Statement is the exhaustive set of top-level DSL statements. The switch
// in the parser and the evaluator must handle every case below; adding a
// variant without updating both is a bug the compiler (or a runtime
// default-case panic) should catch.
type Statement interface {
	Node
	statementNode()
}

type baseNode struct {
	line int
}

func (b baseNode) Line() int { return b.line }
