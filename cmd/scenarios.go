// SPDX-License-Identifier: Apache-2.0
//
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

package cmd

// builtinScenarios are the named demo programs a caller can run with
// --scenario instead of --file/--code. Scenario loading is explicitly an
// ambient CLI concern (spec.md §1), so these live here rather than in
// any core package.
var builtinScenarios = map[string]string{
	"arithmetic-success":    "problem: (3 + 5) * 4\nstep: 8 * 4\nend: 32\n",
	"algebraic-equivalence": "problem: (x + 1) * (x + 2)\nstep: x^2 + 3*x + 2\nend: x^2 + 3*x + 2\n",
	"invalid-step":          "mode: fuzzy\nproblem: 1 + 1\nstep: 3\nend: done\n",
	"missing-end":           "problem: 2 + 2\nstep: 4\n",
	"causal-explanation":    "mode: causal\nproblem: 1 + 1\nstep: 3\nend: done\n",
}
