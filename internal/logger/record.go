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

// Package logger holds the single canonical trace-record schema (spec
// §3) that every other component — the evaluator, the causal engine, the
// CLI — reads and writes. There is exactly one record shape in this
// system; nothing downstream invents its own logging format.
package logger

import (
	"github.com/fatih/structs"
	"github.com/google/uuid"
)

// Phase names which kind of program node produced a record.
type Phase string

const (
	PhaseProblem        Phase = "problem"
	PhaseStep           Phase = "step"
	PhaseEnd            Phase = "end"
	PhaseExplain        Phase = "explain"
	PhaseMeta           Phase = "meta"
	PhaseConfig         Phase = "config"
	PhaseMode           Phase = "mode"
	PhasePrepare        Phase = "prepare"
	PhaseCounterfactual Phase = "counterfactual"
	PhaseFuzzy          Phase = "fuzzy"
	PhaseError          Phase = "error"
)

// Status is the outcome recorded against a phase.
type Status string

const (
	StatusOK           Status = "ok"
	StatusInfo         Status = "info"
	StatusMistake      Status = "mistake"
	StatusFatal        Status = "fatal"
	StatusIntervention Status = "intervention"
)

// Record is one append-only trace entry (spec §3, "LOG SCHEMA,
// canonical"). Records are totally ordered by StepIndex, which is dense
// and strictly increasing from zero within one run.
type Record struct {
	StepIndex  int            `structs:"step_index"`
	Timestamp  string         `structs:"timestamp"`
	Phase      Phase          `structs:"phase"`
	Expression string         `structs:"expression,omitempty"`
	Rendered   string         `structs:"rendered,omitempty"`
	Status     Status         `structs:"status"`
	RuleID     string         `structs:"rule_id,omitempty"`
	Meta       map[string]any `structs:"meta"`
	RunID      uuid.UUID      `structs:"run_id"`
}

// AsMap renders Record into the JSON-shaped persisted form required by
// spec §6 ("Trace record (persisted form)... must round-trip through
// standard structured-text serializers").
func (r Record) AsMap() map[string]any {
	return structs.Map(r)
}
