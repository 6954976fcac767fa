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

// Explain carries free text; valid anywhere after Problem.
type Explain struct {
	baseNode
	Text string
	// TargetNodeID, when set, is threaded through to the logger's record
	// meta so the causal engine can draw an explain_link edge (spec §4.7).
	TargetNodeID string
}

func NewExplain(line int, text string) *Explain {
	return &Explain{baseNode: baseNode{line: line}, Text: text}
}

func (e *Explain) String() string { return "explain: " + e.Text }

func (e *Explain) statementNode() {}

var _ Statement = &Explain{}
