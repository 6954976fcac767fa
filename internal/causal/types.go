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

// Package causal builds a typed DAG from a run's trace and answers
// "why did this fail" / "what would change if..." queries over it
// (spec §4.7). It consumes logger.Record slices; it never drives an
// Evaluator directly except when re-running a counterfactual.
package causal

import "github.com/mathlang/mathlang/internal/logger"

// NodeType is one of the six causal node kinds (spec §3).
type NodeType string

const (
	NodeProblem         NodeType = "problem"
	NodeStep            NodeType = "step"
	NodeEnd             NodeType = "end"
	NodeExplain         NodeType = "explain"
	NodeError           NodeType = "error"
	NodeRuleApplication NodeType = "rule_application"
)

// EdgeType is one of the four causal edge kinds (spec §3).
type EdgeType string

const (
	EdgeStepTransition EdgeType = "step_transition"
	EdgeRuleUsage      EdgeType = "rule_usage"
	EdgeErrorCause     EdgeType = "error_cause"
	EdgeExplainLink    EdgeType = "explain_link"
)

// Node is one causal graph vertex. Record is the trace record this node
// was built from; for a synthesized error node (one with no literal
// "error"-phase record in the trace) Record is the zero value and
// Synthesized is true.
type Node struct {
	ID           string
	Type         NodeType
	Record       logger.Record
	Status       logger.Status
	Synthesized  bool
	SourceStepID string // set on synthesized error nodes: the step that failed
}

// Edge is one causal graph arc.
type Edge struct {
	Source, Target string
	Type            EdgeType
	Meta            map[string]any
}
