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

// Problem is the first non-metadata node; exactly one per program.
type Problem struct {
	baseNode
	Expression string
}

func NewProblem(line int, expression string) *Problem {
	return &Problem{baseNode: baseNode{line: line}, Expression: expression}
}

func (p *Problem) String() string { return "problem: " + p.Expression }

func (p *Problem) statementNode() {}

var _ Statement = &Problem{}
