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

// Counterfactual appears after End: assume bindings, then assert expect
// evaluates to some value under those bindings.
type Counterfactual struct {
	baseNode
	Assume map[string]string
	Expect string
}

func NewCounterfactual(line int, assume map[string]string, expect string) *Counterfactual {
	return &Counterfactual{baseNode: baseNode{line: line}, Assume: assume, Expect: expect}
}

func (c *Counterfactual) String() string { return "counterfactual: expect " + c.Expect }

func (c *Counterfactual) statementNode() {}

var _ Statement = &Counterfactual{}
