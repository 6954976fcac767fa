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

package ast

// PrepareKind is one of {list, expr, directive, auto, empty}.
type PrepareKind string

const (
	PrepareList      PrepareKind = "list"
	PrepareExpr      PrepareKind = "expr"
	PrepareDirective PrepareKind = "directive"
	PrepareAuto      PrepareKind = "auto"
	PrepareEmpty     PrepareKind = "empty"
)

// PrepareBinding is one `name = expr` statement of a `list`-kind Prepare.
type PrepareBinding struct {
	Name       string
	Expression string
}

// Prepare sits between Problem and the first Step; at most one per
// program. Kind selects which payload field is populated:
//   - list:      Bindings
//   - expr:      Expression
//   - directive: Directive
//   - auto, empty: no payload
type Prepare struct {
	baseNode
	Kind       PrepareKind
	Bindings   []PrepareBinding
	Expression string
	Directive  string
}

func NewPrepare(line int, kind PrepareKind) *Prepare {
	return &Prepare{baseNode: baseNode{line: line}, Kind: kind}
}

func (p *Prepare) String() string { return "prepare: " + string(p.Kind) }

func (p *Prepare) statementNode() {}

var _ Statement = &Prepare{}
