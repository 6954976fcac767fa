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

package evaluator

import (
	"math/big"
	"slices"

	"github.com/mathlang/mathlang/internal/ast"
	"github.com/mathlang/mathlang/internal/logger"
	"github.com/mathlang/mathlang/internal/xerr"
)

// runCounterfactual implements the in-program counterfactual node (spec
// §3/§4.5, distinct from the causal engine's standalone
// counterfactual_result query): evaluate assume bindings over a copy of
// the accumulated bindings, then evaluate expect under the combined
// environment. A failure here is fatal for this node only — it is
// recorded as such and execution of the (already-ended) program
// continues, rather than aborting Run.
func (e *Evaluator) runCounterfactual(cf *ast.Counterfactual) error {
	env := make(map[string]*big.Rat, len(e.bindings)+len(cf.Assume))
	for name, val := range e.bindings {
		env[name] = val
	}

	// Assume names are evaluated in sorted order so that which binding
	// fails first (and therefore which record is emitted) is stable
	// across runs.
	names := make([]string, 0, len(cf.Assume))
	for name := range cf.Assume {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		text := cf.Assume[name]
		val, ok, err := e.oracle.Evaluate(text, env)
		if err != nil {
			e.logger.Append(logger.PhaseCounterfactual, logger.StatusFatal, text, name, "", map[string]any{"error": err.Error()})
			return nil
		}
		if !ok {
			nerr := xerr.ErrNotEvaluatable(text)
			e.logger.Append(logger.PhaseCounterfactual, logger.StatusFatal, text, name, "", map[string]any{"error": nerr.Error()})
			return nil
		}
		env[name] = val
	}

	val, ok, err := e.oracle.Evaluate(cf.Expect, env)
	if err != nil {
		e.logger.Append(logger.PhaseCounterfactual, logger.StatusFatal, cf.Expect, "", "", map[string]any{"error": err.Error()})
		return nil
	}
	if !ok {
		nerr := xerr.ErrNotEvaluatable(cf.Expect)
		e.logger.Append(logger.PhaseCounterfactual, logger.StatusFatal, cf.Expect, "", "", map[string]any{"error": nerr.Error()})
		return nil
	}

	e.logger.Append(logger.PhaseCounterfactual, logger.StatusOK, cf.Expect, val.RatString(), "", map[string]any{"assume": copyStringMap(cf.Assume)})
	return nil
}
