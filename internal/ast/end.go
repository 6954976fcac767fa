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

// End terminates the statement stream; exactly one per program. IsDone is
// set when the source says `end: done`, in which case Expression is empty
// and no equivalence check against the expression text is performed.
type End struct {
	baseNode
	Expression string
	IsDone     bool
}

func NewEnd(line int, expression string, isDone bool) *End {
	return &End{baseNode: baseNode{line: line}, Expression: expression, IsDone: isDone}
}

func (e *End) String() string {
	if e.IsDone {
		return "end: done"
	}
	return "end: " + e.Expression
}

func (e *End) statementNode() {}

var _ Statement = &End{}
