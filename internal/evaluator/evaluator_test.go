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
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mathlang/mathlang/internal/ast"
	"github.com/mathlang/mathlang/internal/logger"
	"github.com/mathlang/mathlang/internal/oracle"
	"github.com/mathlang/mathlang/internal/parser"
	"github.com/mathlang/mathlang/internal/registry"
)

type EvaluatorTestSuite struct {
	suite.Suite
	oracle *oracle.Oracle
}

func TestEvaluatorTestSuite(t *testing.T) {
	suite.Run(t, new(EvaluatorTestSuite))
}

func (s *EvaluatorTestSuite) SetupSuite() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(s.T().Output(), nil)))
}

func (s *EvaluatorTestSuite) BeforeTest(suiteName, testName string) {
	s.oracle = oracle.New(oracle.NewNativeCAS(), 0)
}

func (s *EvaluatorTestSuite) run(src, filename string, reg *registry.Registry) Outcome {
	prog, err := parser.ParseString(src, filename)
	s.Require().NoError(err)
	log := logger.New()
	ev := New(prog, s.oracle, reg, log)
	return ev.Run(context.Background())
}

// TestScenarioA_ArithmeticSuccess is spec §8 scenario A.
func (s *EvaluatorTestSuite) TestScenarioA_ArithmeticSuccess() {
	out := s.run("problem: (3 + 5) * 4\nstep: 8 * 4\nend: 32\n", "scenario-a", nil)
	s.Require().NoError(out.Err)
	s.Equal(StateEnd, out.State)
	s.Require().Len(out.Records, 3)

	phases := []logger.Phase{logger.PhaseProblem, logger.PhaseStep, logger.PhaseEnd}
	for i, rec := range out.Records {
		s.Equal(phases[i], rec.Phase)
		s.Equal(logger.StatusOK, rec.Status)
	}
	s.Equal("32", out.Records[2].Expression)
}

// TestScenarioB_AlgebraicEquivalence is spec §8 scenario B.
func (s *EvaluatorTestSuite) TestScenarioB_AlgebraicEquivalence() {
	reg, err := registry.New([]registry.RuleRecord{
		{ID: "BINOMIAL-EXPAND-001", PatternBefore: "(x + 1) * (x + 2)", PatternAfter: "x^2 + 3*x + 2"},
	}, s.oracle, "")
	s.Require().NoError(err)

	out := s.run("problem: (x + 1) * (x + 2)\nstep: x^2 + 3*x + 2\nend: x^2 + 3*x + 2\n", "scenario-b", reg)
	s.Require().NoError(out.Err)
	s.Require().Len(out.Records, 3)
	for _, rec := range out.Records {
		s.Equal(logger.StatusOK, rec.Status)
	}
	s.Equal("BINOMIAL-EXPAND-001", out.Records[1].RuleID)
}

// TestScenarioC_InvalidStepMistakeThenProceeds is spec §8 scenario C.
func (s *EvaluatorTestSuite) TestScenarioC_InvalidStepMistakeThenProceeds() {
	out := s.run("mode: fuzzy\nproblem: 1 + 1\nstep: 3\nend: done\n", "scenario-c", nil)
	s.Require().NoError(out.Err)
	s.Equal(StateEnd, out.State)

	phases := make([]logger.Phase, len(out.Records))
	for i, rec := range out.Records {
		phases[i] = rec.Phase
	}
	s.Equal([]logger.Phase{
		logger.PhaseMode, logger.PhaseProblem, logger.PhaseStep, logger.PhaseFuzzy, logger.PhaseEnd,
	}, phases)

	step := out.Records[2]
	s.Equal(logger.StatusMistake, step.Status)
	s.Equal("invalid_step", step.Meta["reason"])

	end := out.Records[4]
	s.Equal(logger.StatusOK, end.Status)
}

// TestScenarioD_MissingEndIsFatal is spec §8 scenario D.
func (s *EvaluatorTestSuite) TestScenarioD_MissingEndIsFatal() {
	out := s.run("problem: 2 + 2\nstep: 4\n", "scenario-d", nil)
	s.Require().Error(out.Err)
	s.Equal(StateFatal, out.State)
	s.Require().NotEmpty(out.Records)

	last := out.Records[len(out.Records)-1]
	s.Equal(logger.PhaseEnd, last.Phase)
	s.Equal(logger.StatusFatal, last.Status)
}

func (s *EvaluatorTestSuite) TestStepBeforeProblemIsFatal() {
	out := s.run("step: 2\nend: done\n", "step-before-problem", nil)
	s.Require().Error(out.Err)
	s.Equal(StateFatal, out.State)
}

func (s *EvaluatorTestSuite) TestDenseRecordOrdering() {
	out := s.run("problem: 1 + 1\nstep: 2\nend: done\n", "dense", nil)
	s.Require().NoError(out.Err)
	s.Require().NoError(logger.CheckDense(out.Records))
}

// TestDeterminism is spec §8 property 4: two runs of the same program
// produce identical records up to the advisory timestamp.
func (s *EvaluatorTestSuite) TestDeterminism() {
	src := "problem: (x + 1) * (x + 2)\nstep: x^2 + 3*x + 2\nend: x^2 + 3*x + 2\n"
	first := s.run(src, "determinism-1", nil)
	second := s.run(src, "determinism-2", nil)
	s.Require().Len(first.Records, len(second.Records))
	for i := range first.Records {
		a, b := first.Records[i], second.Records[i]
		s.Equal(a.Phase, b.Phase)
		s.Equal(a.Status, b.Status)
		s.Equal(a.Expression, b.Expression)
		s.Equal(a.RuleID, b.RuleID)
	}
}

func (s *EvaluatorTestSuite) TestPrepareBindingsSubstituteIntoEquivalence() {
	src := "problem: x + 1\nprepare: x = 4\nstep: 5\nend: done\n"
	out := s.run(src, "prepare-bindings", nil)
	s.Require().NoError(out.Err)
	step := out.Records[2]
	s.Equal(logger.StatusOK, step.Status)
}

func (s *EvaluatorTestSuite) TestPrepareNotEvaluatableIsInfoNotFatal() {
	src := "problem: x + y\nprepare: x = y + 1\nstep: x\nend: done\n"
	out := s.run(src, "prepare-not-evaluatable", nil)
	s.Require().NoError(out.Err)
	prep := out.Records[1]
	s.Equal(logger.PhasePrepare, prep.Phase)
	s.Equal(logger.StatusInfo, prep.Status)
	s.Equal("not_evaluatable", prep.Meta["reason"])
}

func (s *EvaluatorTestSuite) TestCounterfactualNodeFailureIsNotFatalForRun() {
	src := "problem: 1 + 1\nend: done\ncounterfactual:\n  assume: x = 4\n  expect: x + y\n"
	out := s.run(src, "cf-node-failure", nil)
	s.Require().NoError(out.Err, "a counterfactual node's own failure must not fail the run")
	s.Equal(StateEnd, out.State)
	last := out.Records[len(out.Records)-1]
	s.Equal(logger.PhaseCounterfactual, last.Phase)
	s.Equal(logger.StatusFatal, last.Status)
}

func (s *EvaluatorTestSuite) TestCounterfactualNodeSuccess() {
	src := "problem: 1 + 1\nend: done\ncounterfactual:\n  assume: x = 4\n  expect: x + 1\n"
	out := s.run(src, "cf-node-success", nil)
	s.Require().NoError(out.Err)
	last := out.Records[len(out.Records)-1]
	s.Equal(logger.StatusOK, last.Status)
	s.Equal("5", last.Rendered)
}

func (s *EvaluatorTestSuite) TestConfigSelectsPolynomialChecker() {
	src := "config:\n  checker: polynomial\nproblem: x + x\nstep: 2*x\nend: done\n"
	out := s.run(src, "config-polynomial", nil)
	s.Require().NoError(out.Err)
	step := out.Records[2]
	s.Equal(logger.StatusOK, step.Status)
}

func (s *EvaluatorTestSuite) TestPolynomialChecker_DirectUsage() {
	prog, err := parser.ParseString("problem: (x + 1)^2\nstep: x^2 + 2*x + 1\nend: done\n", "poly-direct")
	s.Require().NoError(err)
	log := logger.New()
	ev := New(prog, s.oracle, nil, log, WithStepChecker(PolynomialChecker{}))
	out := ev.Run(context.Background())
	s.Require().NoError(out.Err)
	s.Equal(logger.StatusOK, out.Records[1].Status)
}

func (s *EvaluatorTestSuite) TestPolynomialChecker_RejectsNonPolynomial() {
	checker := PolynomialChecker{}
	_, err := checker.Check("sin(x)", "sin(x)")
	s.Require().Error(err)
}

// TestEquivalenceSoundness is spec §8 property 2: every ok step record
// forms a chain of oracle-equivalent expressions from the problem.
func (s *EvaluatorTestSuite) TestEquivalenceSoundness() {
	out := s.run("problem: 2 + 2\nstep: 1 + 3\nstep: 4\nend: done\n", "soundness", nil)
	s.Require().NoError(out.Err)

	current := ""
	for _, rec := range out.Records {
		if rec.Phase != logger.PhaseProblem && rec.Phase != logger.PhaseStep {
			continue
		}
		if current == "" {
			current = rec.Expression
			continue
		}
		s.Require().Equal(logger.StatusOK, rec.Status)
		equiv, err := s.oracle.IsEquiv(current, rec.Expression)
		s.Require().NoError(err)
		s.Require().True(equiv)
		current = rec.Expression
	}
}

// TestDuplicateProblemIsFatal documents the defense-in-depth branch in
// runProblem: the parser already rejects a second problem: statement, so
// this can only be reached by a hand-built Program (e.g. one reconstructed
// from a malformed trace), not by anything parser.Parse produces.
func (s *EvaluatorTestSuite) TestDuplicateProblemIsFatal() {
	prog := &ast.Program{Statements: []ast.Statement{
		ast.NewProblem(1, "1 + 1"),
		ast.NewProblem(2, "2 + 2"),
	}}
	log := logger.New()
	ev := New(prog, s.oracle, nil, log)
	out := ev.Run(context.Background())

	s.Require().Error(out.Err)
	s.Equal(StateFatal, out.State)

	last := out.Records[len(out.Records)-1]
	s.Equal(logger.PhaseProblem, last.Phase)
	s.Equal(logger.StatusFatal, last.Status)
}

func (s *EvaluatorTestSuite) TestUnhandledStatementPanics() {
	prog := &ast.Program{Statements: []ast.Statement{unknownStatement{ast.NewExplain(0, "unknown")}}}
	log := logger.New()
	ev := New(prog, s.oracle, nil, log)
	s.Require().Panics(func() { ev.Run(context.Background()) })
}

// unknownStatement is a distinct ast.Statement type the evaluator's switch
// never matches; it borrows *ast.Explain only to satisfy the unexported
// statementNode() method from outside package ast.
type unknownStatement struct {
	*ast.Explain
}

var _ ast.Statement = unknownStatement{}
