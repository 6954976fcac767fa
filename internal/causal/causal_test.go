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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mathlang/mathlang/internal/evaluator"
	"github.com/mathlang/mathlang/internal/logger"
	"github.com/mathlang/mathlang/internal/oracle"
	"github.com/mathlang/mathlang/internal/parser"
)

func runScenario(t *testing.T, src string) []logger.Record {
	t.Helper()
	prog, err := parser.ParseString(src, "causal-fixture")
	require.NoError(t, err)
	oc := oracle.New(oracle.NewNativeCAS(), 0)
	log := logger.New()
	ev := evaluator.New(prog, oc, nil, log)
	return ev.Run(context.Background()).Records
}

// TestScenarioF_CausalExplanation is spec §8 scenario F: a mistaken step
// synthesizes an error node whose why_error ancestors include the step
// that produced it.
func TestScenarioF_CausalExplanation(t *testing.T) {
	records := runScenario(t, "problem: 2 + 2\nstep: 5\nend: done\n")
	g := Build(records)

	var errID string
	for _, n := range g.Nodes() {
		if n.Type == NodeError {
			errID = n.ID
		}
	}
	require.NotEmpty(t, errID, "a mistaken step must synthesize an error node")

	causes := g.WhyError(errID)
	require.NotEmpty(t, causes)
	require.Equal(t, NodeStep, causes[0].Type)
	require.Equal(t, "5", causes[0].Record.Expression)
}

func TestWhyError_UnknownIDReturnsNil(t *testing.T) {
	records := runScenario(t, "problem: 1 + 1\nend: done\n")
	g := Build(records)
	require.Nil(t, g.WhyError("does-not-exist"))
}

func TestBuild_FlowEdgesConnectProblemStepEnd(t *testing.T) {
	records := runScenario(t, "problem: 1 + 1\nstep: 2\nend: done\n")
	g := Build(records)

	nodes := g.Nodes()
	require.Len(t, nodes, 3)
	require.Equal(t, NodeProblem, nodes[0].Type)
	require.Equal(t, NodeStep, nodes[1].Type)
	require.Equal(t, NodeEnd, nodes[2].Type)

	edges := g.OutEdges(nodes[0].ID)
	require.Len(t, edges, 1)
	require.Equal(t, EdgeStepTransition, edges[0].Type)
	require.Equal(t, nodes[1].ID, edges[0].Target)
}

func TestBuild_RuleApplicationNodeLinkedByRuleUsageEdge(t *testing.T) {
	records := []logger.Record{
		{Phase: logger.PhaseProblem, Expression: "x + 1"},
		{Phase: logger.PhaseStep, Expression: "1 + x", Status: logger.StatusOK, RuleID: "COMMUTE-ADD-001"},
		{Phase: logger.PhaseEnd, Expression: "1 + x", Status: logger.StatusOK},
	}
	g := Build(records)

	ruleNode, ok := g.Node("rule-COMMUTE-ADD-001")
	require.True(t, ok)
	require.Equal(t, NodeRuleApplication, ruleNode.Type)

	edges := g.OutEdges("rule-COMMUTE-ADD-001")
	require.Len(t, edges, 1)
	require.Equal(t, EdgeRuleUsage, edges[0].Type)
}

func TestBuild_ExplainLinksToTargetNode(t *testing.T) {
	records := []logger.Record{
		{Phase: logger.PhaseProblem, Expression: "1 + 1"},
		{Phase: logger.PhaseStep, Expression: "2", Status: logger.StatusOK},
		{Phase: logger.PhaseExplain, Rendered: "fold the literals", Meta: map[string]any{"target_node_id": "step-1"}},
		{Phase: logger.PhaseEnd, Expression: "2", Status: logger.StatusOK},
	}
	g := Build(records)

	var explainID string
	for _, n := range g.Nodes() {
		if n.Type == NodeExplain && n.Record.Rendered == "fold the literals" {
			explainID = n.ID
		}
	}
	require.NotEmpty(t, explainID)

	edges := g.OutEdges(explainID)
	require.Len(t, edges, 1)
	require.Equal(t, EdgeExplainLink, edges[0].Type)
	require.Equal(t, "step-1", edges[0].Target)
}

func TestBuild_GraphIsAcyclic(t *testing.T) {
	records := runScenario(t, "problem: 2 + 2\nstep: 5\nend: done\n")
	g := Build(records)
	require.NoError(t, g.assertAcyclic())
}

func TestSuggestFixCandidates_PrioritizesNonOKSteps(t *testing.T) {
	records := []logger.Record{
		{Phase: logger.PhaseProblem, Expression: "2 + 2"},
		{Phase: logger.PhaseStep, Expression: "4", Status: logger.StatusOK},
		{Phase: logger.PhaseStep, Expression: "5", Status: logger.StatusMistake},
		{Phase: logger.PhaseError, Status: logger.StatusMistake},
	}
	g := Build(records)

	var errID string
	for _, n := range g.Nodes() {
		if n.Type == NodeError {
			errID = n.ID
		}
	}
	require.NotEmpty(t, errID)

	candidates := g.SuggestFixCandidates(errID, 5)
	require.NotEmpty(t, candidates)
	require.Equal(t, logger.StatusMistake, candidates[0].Status)
}

func TestSuggestFixCandidates_NoAncestorsReturnsNil(t *testing.T) {
	records := runScenario(t, "problem: 1 + 1\nend: done\n")
	g := Build(records)
	require.Nil(t, g.SuggestFixCandidates("problem-1", 5))
}

// TestScenarioE_CounterfactualRepairsAStep is spec §8 scenario E: replacing
// a mistaken step's expression with a correct one changes the rerun's
// step outcome and final end expression.
func TestScenarioE_CounterfactualRepairsAStep(t *testing.T) {
	base := runScenario(t, "problem: 2 + 2\nstep: 5\nend: done\n")
	oc := oracle.New(oracle.NewNativeCAS(), 0)

	report := CounterfactualResult([]Intervention{
		{Phase: logger.PhaseStep, Index: 1, Action: ActionReplace, Expression: "4"},
	}, base, oc, nil)

	require.True(t, report.Changed)
	require.Len(t, report.DiffSteps, 1)
	require.Equal(t, "5", report.DiffSteps[0].OldExpression)
	require.Equal(t, "4", report.DiffSteps[0].NewExpression)

	require.True(t, report.RerunSuccess)
	require.NoError(t, report.RerunError)
	require.Len(t, report.StepOutcomes, 1)
	require.Equal(t, logger.StatusOK, report.StepOutcomes[0].Status,
		"the replaced step now matches the problem, where the original mistaken step did not")

	// The base run's `end: done` froze its resolved value ("2 + 2", since
	// the mistaken step never advanced `current`) into the trace record;
	// reconstructing from records turns that into an explicit end target
	// rather than a fresh "done", so the rerun's final end still reads
	// "2 + 2" even though the repaired step now reaches "4" on its own.
	require.Equal(t, "2 + 2", report.FinalEndExpression)
}

func TestCounterfactualResult_DeleteStep(t *testing.T) {
	base := runScenario(t, "problem: 2 + 2\nstep: 1 + 3\nstep: 4\nend: done\n")
	oc := oracle.New(oracle.NewNativeCAS(), 0)

	report := CounterfactualResult([]Intervention{
		{Phase: logger.PhaseStep, Index: 1, Action: ActionDelete},
	}, base, oc, nil)

	require.True(t, report.Changed)
	require.Len(t, report.DiffSteps, 1)
	require.Equal(t, ActionDelete, report.DiffSteps[0].Action)
	require.Len(t, report.StepOutcomes, 1)
}

func TestCounterfactualResult_EndIntervention(t *testing.T) {
	base := runScenario(t, "problem: 2 + 2\nstep: 4\nend: done\n")
	oc := oracle.New(oracle.NewNativeCAS(), 0)

	report := CounterfactualResult([]Intervention{
		{Phase: logger.PhaseEnd, Action: ActionReplace, Expression: "5"},
	}, base, oc, nil)

	require.True(t, report.Changed)
	require.Len(t, report.DiffEnd, 1)
	require.Equal(t, "5", report.DiffEnd[0].NewExpression)
	require.Equal(t, "5", report.FinalEndExpression)

	require.Len(t, report.StepOutcomes, 1)
	require.Equal(t, logger.StatusOK, report.StepOutcomes[0].Status)
}

func TestCounterfactualResult_NoBaseRecords(t *testing.T) {
	oc := oracle.New(oracle.NewNativeCAS(), 0)
	report := CounterfactualResult(nil, nil, oc, nil)
	require.Error(t, report.RerunError)
}

func TestCounterfactualResult_NoOpInterventionLeavesChangedFalse(t *testing.T) {
	base := runScenario(t, "problem: 2 + 2\nstep: 4\nend: done\n")
	oc := oracle.New(oracle.NewNativeCAS(), 0)

	report := CounterfactualResult([]Intervention{
		{Phase: logger.PhaseStep, Index: 1, Action: ActionReplace, Expression: "4"},
	}, base, oc, nil)

	require.False(t, report.Changed)
}
