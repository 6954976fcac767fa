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
	"fmt"

	"github.com/mathlang/mathlang/internal/ast"
	"github.com/mathlang/mathlang/internal/logger"
)

// runPrepare implements spec §4.5's prepare semantics: each `list`
// binding is evaluated against the bindings accumulated so far; a value
// is stored, a not_evaluatable result is skipped (info, not fatal). An
// actual evaluation error (bad syntax, oracle failure) is fatal — it
// means the program itself is broken, not merely under-specified.
func (e *Evaluator) runPrepare(p *ast.Prepare) error {
	switch p.Kind {
	case ast.PrepareList:
		for _, binding := range p.Bindings {
			val, ok, err := e.oracle.Evaluate(binding.Expression, e.bindings)
			if err != nil {
				e.logger.Append(logger.PhasePrepare, logger.StatusFatal, binding.Expression, binding.Name, "", map[string]any{"error": err.Error()})
				return err
			}
			if !ok {
				e.logger.Append(logger.PhasePrepare, logger.StatusInfo, binding.Expression, binding.Name, "", map[string]any{"reason": "not_evaluatable"})
				continue
			}
			e.bindings[binding.Name] = val
			e.logger.Append(logger.PhasePrepare, logger.StatusOK, binding.Expression, binding.Name, "", map[string]any{"value": val.RatString()})
		}
		return nil

	case ast.PrepareExpr:
		val, ok, err := e.oracle.Evaluate(p.Expression, e.bindings)
		if err != nil {
			e.logger.Append(logger.PhasePrepare, logger.StatusFatal, p.Expression, "", "", map[string]any{"error": err.Error()})
			return err
		}
		if !ok {
			e.logger.Append(logger.PhasePrepare, logger.StatusInfo, p.Expression, "", "", map[string]any{"reason": "not_evaluatable"})
			return nil
		}
		e.logger.Append(logger.PhasePrepare, logger.StatusOK, p.Expression, val.RatString(), "", nil)
		return nil

	case ast.PrepareDirective:
		e.logger.Append(logger.PhasePrepare, logger.StatusOK, "", p.Directive, "", map[string]any{"kind": "directive"})
		return nil

	case ast.PrepareAuto:
		e.logger.Append(logger.PhasePrepare, logger.StatusOK, "", "", "", map[string]any{"kind": "auto"})
		return nil

	case ast.PrepareEmpty:
		e.logger.Append(logger.PhasePrepare, logger.StatusOK, "", "", "", map[string]any{"kind": "empty"})
		return nil

	default:
		panic(fmt.Sprintf("evaluator: unhandled prepare kind %q", p.Kind))
	}
}
