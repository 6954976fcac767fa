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

// ModeKind is one of {strict, fuzzy, causal, cf}.
type ModeKind string

const (
	ModeStrict ModeKind = "strict"
	ModeFuzzy  ModeKind = "fuzzy"
	ModeCausal ModeKind = "causal"
	ModeCF     ModeKind = "cf"
)

// Mode selects the evaluation mode; valid at any position before the
// first Step.
type Mode struct {
	baseNode
	Kind ModeKind
}

func NewMode(line int, kind ModeKind) *Mode {
	return &Mode{baseNode: baseNode{line: line}, Kind: kind}
}

func (m *Mode) String() string { return "mode: " + string(m.Kind) }

func (m *Mode) statementNode() {}

var _ Statement = &Mode{}
