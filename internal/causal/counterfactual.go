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

package causal

import (
	"context"

	"github.com/mathlang/mathlang/internal/ast"
	"github.com/mathlang/mathlang/internal/evaluator"
	"github.com/mathlang/mathlang/internal/logger"
	"github.com/mathlang/mathlang/internal/oracle"
	"github.com/mathlang/mathlang/internal/registry"
)

// InterventionAction is one of the four mutations counterfactual_result
// supports (spec §4.7 step 2).
type InterventionAction string

const (
	ActionReplace      InterventionAction = "replace"
	ActionDelete       InterventionAction = "delete"
	ActionInsertBefore InterventionAction = "insert_before"
	ActionInsertAfter  InterventionAction = "insert_after"
)

// Intervention is one normalized edit to apply to a copy of the base
// trace before re-running it.
type Intervention struct {
	Phase      logger.Phase // PhaseStep or PhaseEnd
	Index      int          // 1-based position among records of Phase
	Action     InterventionAction
	Expression string
	Rendered   string
	Status     logger.Status
	RuleID     string
	Meta       map[string]any
}

// StepDiff/EndDiff describe one applied intervention's effect, for the
// report's diff_steps/diff_end lists.
type StepDiff struct {
	Index                        int
	Action                       InterventionAction
	OldExpression, NewExpression string
}

type EndDiff struct {
	Index                        int
	Action                       InterventionAction
	OldExpression, NewExpression string
}

// StepOutcome summarizes one rerun step record for the report's compact
// step-outcome list.
type StepOutcome struct {
	Index                int
	Expression, Rendered string
	Status               logger.Status
	RuleID               string
}

// CounterfactualReport is counterfactual_result's return value (spec
// §4.7 step 5).
type CounterfactualReport struct {
	Changed            bool
	DiffSteps          []StepDiff
	DiffEnd            []EndDiff
	RerunRecords       []logger.Record
	RerunSuccess       bool
	RerunError         error
	FirstError         *logger.Record
	FinalEndExpression string
	LastPhase          logger.Phase
	StepOutcomes       []StepOutcome
}

// CounterfactualResult implements spec §4.7's five-step procedure:
// deep-copy the base trace, apply interventions to the copy, reconstruct
// a minimal program from the mutated trace, re-run it through a fresh
// evaluator + logger, and report what changed.
func CounterfactualResult(interventions []Intervention, baseRecords []logger.Record, oc *oracle.Oracle, reg *registry.Registry) CounterfactualReport {
	if len(baseRecords) == 0 {
		return CounterfactualReport{RerunError: errNoBaseRecords{}}
	}

	records := deepCopyRecords(baseRecords)
	changed := false
	var diffSteps []StepDiff
	var diffEnd []EndDiff

	for _, iv := range interventions {
		switch iv.Phase {
		case logger.PhaseEnd:
			if d, ok := applyEndIntervention(&records, iv); ok {
				changed = true
				diffEnd = append(diffEnd, d)
			}
		default:
			if d, ok := applyStepIntervention(&records, iv); ok {
				changed = true
				diffSteps = append(diffSteps, d)
			}
		}
	}

	program := programFromRecords(records)
	report := CounterfactualReport{Changed: changed, DiffSteps: diffSteps, DiffEnd: diffEnd}
	if program == nil {
		report.RerunError = errCannotReconstruct{}
		return report
	}

	rerunLogger := logger.New()
	ev := evaluator.New(program, oc, reg, rerunLogger)
	outcome := ev.Run(context.Background())

	report.RerunRecords = outcome.Records
	report.RerunSuccess = outcome.Err == nil
	report.RerunError = outcome.Err
	report.FinalEndExpression = lastEndExpression(outcome.Records)
	report.FirstError = firstNonOKStepOrEnd(outcome.Records)
	if len(outcome.Records) > 0 {
		report.LastPhase = outcome.Records[len(outcome.Records)-1].Phase
	}
	report.StepOutcomes = collectStepOutcomes(outcome.Records)
	return report
}

type errNoBaseRecords struct{}

func (errNoBaseRecords) Error() string { return "causal: no base records available" }

type errCannotReconstruct struct{}

func (errCannotReconstruct) Error() string { return "causal: cannot reconstruct program from records" }

func deepCopyRecords(records []logger.Record) []logger.Record {
	out := make([]logger.Record, len(records))
	for i, r := range records {
		cp := r
		if r.Meta != nil {
			cp.Meta = make(map[string]any, len(r.Meta))
			for k, v := range r.Meta {
				cp.Meta[k] = v
			}
		}
		out[i] = cp
	}
	return out
}

func applyStepIntervention(records *[]logger.Record, iv Intervention) (StepDiff, bool) {
	if iv.Index <= 0 {
		return StepDiff{}, false
	}
	counter := 0
	for idx, rec := range *records {
		if rec.Phase != logger.PhaseStep {
			continue
		}
		counter++
		if counter != iv.Index {
			continue
		}

		switch iv.Action {
		case ActionDelete:
			old := rec.Expression
			*records = append((*records)[:idx], (*records)[idx+1:]...)
			return StepDiff{Index: iv.Index, Action: ActionDelete, OldExpression: old}, true

		case ActionInsertBefore, ActionInsertAfter:
			if iv.Expression == "" {
				return StepDiff{}, false
			}
			newRec := buildInterventionStepRecord(iv)
			pos := idx
			if iv.Action == ActionInsertAfter {
				pos = idx + 1
			}
			out := make([]logger.Record, 0, len(*records)+1)
			out = append(out, (*records)[:pos]...)
			out = append(out, newRec)
			out = append(out, (*records)[pos:]...)
			*records = out
			return StepDiff{Index: iv.Index, Action: iv.Action, NewExpression: iv.Expression}, true

		default: // replace
			if iv.Expression == "" || iv.Expression == rec.Expression {
				return StepDiff{}, false
			}
			old := rec.Expression
			updated := rec
			updated.Expression = iv.Expression
			if iv.Rendered != "" {
				updated.Rendered = iv.Rendered
			}
			if iv.Status != "" {
				updated.Status = iv.Status
			}
			if iv.RuleID != "" {
				updated.RuleID = iv.RuleID
			}
			if iv.Meta != nil {
				updated.Meta = iv.Meta
			}
			(*records)[idx] = updated
			return StepDiff{Index: iv.Index, Action: ActionReplace, OldExpression: old, NewExpression: iv.Expression}, true
		}
	}
	return StepDiff{}, false
}

func buildInterventionStepRecord(iv Intervention) logger.Record {
	rendered := iv.Rendered
	if rendered == "" {
		rendered = "intervention step: " + iv.Expression
	}
	meta := map[string]any{}
	for k, v := range iv.Meta {
		meta[k] = v
	}
	meta["intervention"] = true
	status := iv.Status
	if status == "" {
		status = logger.StatusIntervention
	}
	return logger.Record{Phase: logger.PhaseStep, Expression: iv.Expression, Rendered: rendered, Status: status, RuleID: iv.RuleID, Meta: meta}
}

func applyEndIntervention(records *[]logger.Record, iv Intervention) (EndDiff, bool) {
	if iv.Expression == "" {
		return EndDiff{}, false
	}
	var endPositions []int
	for idx, rec := range *records {
		if rec.Phase == logger.PhaseEnd {
			endPositions = append(endPositions, idx)
		}
	}
	if len(endPositions) == 0 {
		return EndDiff{}, false
	}

	var position, selected int
	if iv.Index <= 0 {
		position = endPositions[len(endPositions)-1]
		selected = len(endPositions)
	} else {
		if iv.Index > len(endPositions) {
			return EndDiff{}, false
		}
		position = endPositions[iv.Index-1]
		selected = iv.Index
	}

	rec := (*records)[position]
	if rec.Expression == iv.Expression {
		return EndDiff{}, false
	}
	old := rec.Expression
	updated := rec
	updated.Expression = iv.Expression
	updated.Rendered = iv.Expression
	if iv.Status != "" {
		updated.Status = iv.Status
	}
	if iv.Meta != nil {
		updated.Meta = iv.Meta
	}
	(*records)[position] = updated
	return EndDiff{Index: selected, Action: ActionReplace, OldExpression: old, NewExpression: iv.Expression}, true
}

// programFromRecords rebuilds a minimal ast.Program from a (possibly
// mutated) trace: a Problem, the surviving Step/Explain records in
// order, and a synthesized done-End if the trace has none (spec §4.7
// step 4).
func programFromRecords(records []logger.Record) *ast.Program {
	program := &ast.Program{Reference: "counterfactual-rerun"}
	hasProblem := false
	hasEnd := false

	for _, rec := range records {
		switch rec.Phase {
		case logger.PhaseProblem:
			if rec.Expression == "" {
				continue
			}
			program.Statements = append(program.Statements, ast.NewProblem(0, rec.Expression))
			hasProblem = true
		case logger.PhaseStep:
			if !hasProblem || rec.Expression == "" {
				continue
			}
			program.Statements = append(program.Statements, ast.NewStep(0, "", rec.Expression, "", ""))
		case logger.PhaseEnd:
			if !hasProblem {
				continue
			}
			isDone := rec.Expression == ""
			program.Statements = append(program.Statements, ast.NewEnd(0, rec.Expression, isDone))
			hasEnd = true
		case logger.PhaseExplain:
			if !hasProblem {
				continue
			}
			text := rec.Rendered
			if text == "" {
				text = rec.Expression
			}
			if text != "" {
				program.Statements = append(program.Statements, ast.NewExplain(0, text))
			}
		}
	}

	if !hasProblem {
		return nil
	}
	if !hasEnd {
		program.Statements = append(program.Statements, ast.NewEnd(0, "", true))
	}
	return program
}

func lastEndExpression(records []logger.Record) string {
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Phase == logger.PhaseEnd {
			return records[i].Expression
		}
	}
	return ""
}

func firstNonOKStepOrEnd(records []logger.Record) *logger.Record {
	for i := range records {
		rec := records[i]
		if (rec.Phase == logger.PhaseStep || rec.Phase == logger.PhaseEnd) && rec.Status != logger.StatusOK {
			return &rec
		}
	}
	return nil
}

func collectStepOutcomes(records []logger.Record) []StepOutcome {
	var out []StepOutcome
	counter := 0
	for _, rec := range records {
		if rec.Phase != logger.PhaseStep {
			continue
		}
		counter++
		out = append(out, StepOutcome{
			Index:      counter,
			Expression: rec.Expression,
			Rendered:   rec.Rendered,
			Status:     rec.Status,
			RuleID:     rec.RuleID,
		})
	}
	return out
}
