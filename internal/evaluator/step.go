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
	"github.com/mathlang/mathlang/internal/ast"
	"github.com/mathlang/mathlang/internal/fuzzy"
	"github.com/mathlang/mathlang/internal/logger"
	"github.com/mathlang/mathlang/internal/xerr"
)

func (e *Evaluator) runStepNode(s *ast.Step) error {
	if e.state == StateInit {
		err := xerr.ErrStepBeforeProblem()
		e.logger.Append(logger.PhaseStep, logger.StatusFatal, s.Expression, "", "", map[string]any{"error": err.Error()})
		return err
	}

	candidate := s.Expression
	valid, err := e.checkEquivalent(candidate)
	if err != nil {
		e.logger.Append(logger.PhaseStep, logger.StatusFatal, candidate, "", "", map[string]any{"error": err.Error()})
		return err
	}

	ruleID := ""
	if e.registry != nil {
		if rule, ok := e.registry.Match(e.current, candidate); ok {
			ruleID = rule.ID
		}
	}

	meta := map[string]any{}
	if s.ID != "" {
		meta["id"] = s.ID
	}
	if s.Note != "" {
		meta["note"] = s.Note
	}

	if valid {
		e.lastRuleID = ruleID
		e.current = candidate
		e.state = StateStepRun
		e.logger.Append(logger.PhaseStep, logger.StatusOK, candidate, candidate, ruleID, meta)
		return nil
	}

	meta["reason"] = "invalid_step"
	e.logger.Append(logger.PhaseStep, logger.StatusMistake, candidate, candidate, "", meta)
	e.state = StateStepRun
	if e.mode == ast.ModeFuzzy || e.mode == ast.ModeCausal || e.mode == ast.ModeCF {
		e.emitFuzzy(candidate, ruleID, s.Note)
	}
	return nil
}

func (e *Evaluator) emitFuzzy(candidate, candidateRuleID, explainText string) {
	agreement := fuzzy.RuleUnknown
	switch {
	case e.lastRuleID == "" || candidateRuleID == "":
		agreement = fuzzy.RuleUnknown
	case e.lastRuleID == candidateRuleID:
		agreement = fuzzy.RuleMatching
	default:
		agreement = fuzzy.RuleDiffering
	}

	prevCanon, _ := e.oracle.Simplify(e.current)
	candCanon, _ := e.oracle.Simplify(candidate)
	result := e.judge.Score(e.current, prevCanon, candidate, candCanon, agreement, explainText)

	meta := map[string]any{
		"expr_sim": result.ExprSim,
		"rule_sim": result.RuleSim,
		"text_sim": result.TextSim,
		"combined": result.Combined,
		"label":    string(result.Label),
	}
	e.logger.Append(logger.PhaseFuzzy, logger.StatusInfo, candidate, candCanon, candidateRuleID, meta)
}

func (e *Evaluator) runEnd(end *ast.End) error {
	if e.state == StateInit {
		err := xerr.ErrEndBeforeProblem()
		e.logger.Append(logger.PhaseEnd, logger.StatusFatal, end.Expression, "", "", map[string]any{"error": err.Error()})
		return err
	}

	expression := end.Expression
	if end.IsDone {
		expression = e.current
	}

	var valid bool
	if end.IsDone {
		valid = true
	} else {
		var err error
		valid, err = e.checkEquivalent(end.Expression)
		if err != nil {
			e.logger.Append(logger.PhaseEnd, logger.StatusFatal, end.Expression, "", "", map[string]any{"error": err.Error()})
			return err
		}
	}

	status := logger.StatusMistake
	if valid {
		status = logger.StatusOK
	}
	e.logger.Append(logger.PhaseEnd, status, expression, expression, "", nil)
	e.state = StateEnd
	return nil
}
