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

package parser

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mathlang/mathlang/internal/ast"
	"github.com/mathlang/mathlang/internal/xerr"
)

type ParserTestSuite struct {
	suite.Suite
}

func TestParserTestSuite(t *testing.T) {
	suite.Run(t, new(ParserTestSuite))
}

// TestScenarioA is spec §8 scenario A: three statements, no surrounding
// structure.
func (s *ParserTestSuite) TestScenarioA() {
	src := "problem: (3 + 5) * 4\nstep: 8 * 4\nend: 32\n"
	prog, err := ParseString(src, "scenario-a")
	s.Require().NoError(err)
	s.Require().Len(prog.Statements, 3)

	problem, ok := prog.Statements[0].(*ast.Problem)
	s.Require().True(ok)
	s.Equal("(3 + 5) * 4", problem.Expression)

	step, ok := prog.Statements[1].(*ast.Step)
	s.Require().True(ok)
	s.Equal("8 * 4", step.Expression)

	end, ok := prog.Statements[2].(*ast.End)
	s.Require().True(ok)
	s.Equal("32", end.Expression)
	s.False(end.IsDone)
}

func (s *ParserTestSuite) TestEndDone() {
	prog, err := ParseString("problem: 1 + 1\nend: done\n", "end-done")
	s.Require().NoError(err)
	end, ok := prog.Statements[1].(*ast.End)
	s.Require().True(ok)
	s.True(end.IsDone)
	s.Empty(end.Expression)
}

func (s *ParserTestSuite) TestBlockStep() {
	src := "problem: x + 1\nstep:\n  before: x + 1\n  after: x + 1\n  note: restated\nend: done\n"
	prog, err := ParseString(src, "block-step")
	s.Require().NoError(err)
	step, ok := prog.Statements[1].(*ast.Step)
	s.Require().True(ok)
	s.Equal("x + 1", step.Before)
	s.Equal("x + 1", step.Expression)
	s.Equal("restated", step.Note)
}

func (s *ParserTestSuite) TestBlockStepMissingAfterIsSyntaxError() {
	src := "problem: x + 1\nstep:\n  before: x + 1\nend: done\n"
	_, err := ParseString(src, "bad-block-step")
	s.Require().Error(err)
	var synErr xerr.SyntaxError
	s.Require().ErrorAs(err, &synErr)
}

func (s *ParserTestSuite) TestExplainRequiresQuotedString() {
	prog, err := ParseString(`problem: 1
explain: "why not"
end: done
`, "explain-ok")
	s.Require().NoError(err)
	ex, ok := prog.Statements[1].(*ast.Explain)
	s.Require().True(ok)
	s.Equal("why not", ex.Text)

	_, err = ParseString("problem: 1\nexplain: why not\nend: done\n", "explain-bad")
	s.Require().Error(err)
}

func (s *ParserTestSuite) TestDuplicateProblemIsFatal() {
	_, err := ParseString("problem: 1\nproblem: 2\nend: done\n", "dup-problem")
	s.Require().Error(err)
	var dupErr xerr.DuplicateProblemError
	s.Require().ErrorAs(err, &dupErr)
}

func (s *ParserTestSuite) TestMetaAndConfigBlocks() {
	src := "meta:\n  author: ada\nconfig:\n  checker: polynomial\nproblem: 1\nend: done\n"
	prog, err := ParseString(src, "meta-config")
	s.Require().NoError(err)
	meta, ok := prog.Statements[0].(*ast.Meta)
	s.Require().True(ok)
	s.Equal("ada", meta.Entries["author"])

	cfg, ok := prog.Statements[1].(*ast.Config)
	s.Require().True(ok)
	s.Equal("polynomial", cfg.Entries["checker"])
}

func (s *ParserTestSuite) TestModeKeyword() {
	prog, err := ParseString("mode: fuzzy\nproblem: 1\nend: done\n", "mode-fuzzy")
	s.Require().NoError(err)
	mode, ok := prog.Statements[0].(*ast.Mode)
	s.Require().True(ok)
	s.Equal(ast.ModeFuzzy, mode.Kind)
}

func (s *ParserTestSuite) TestModeUnknownIsSyntaxError() {
	_, err := ParseString("mode: bogus\nproblem: 1\nend: done\n", "mode-bogus")
	s.Require().Error(err)
}

func (s *ParserTestSuite) TestPrepareInlineList() {
	prog, err := ParseString("problem: x + 1\nprepare: x = 4\nstep: 5\nend: done\n", "prepare-inline")
	s.Require().NoError(err)
	prep, ok := prog.Statements[1].(*ast.Prepare)
	s.Require().True(ok)
	s.Equal(ast.PrepareList, prep.Kind)
	s.Require().Len(prep.Bindings, 1)
	s.Equal("x", prep.Bindings[0].Name)
	s.Equal("4", prep.Bindings[0].Expression)
}

func (s *ParserTestSuite) TestPrepareInlineAuto() {
	prog, err := ParseString("problem: x + 1\nprepare: auto\nend: done\n", "prepare-auto")
	s.Require().NoError(err)
	prep, ok := prog.Statements[1].(*ast.Prepare)
	s.Require().True(ok)
	s.Equal(ast.PrepareAuto, prep.Kind)
}

func (s *ParserTestSuite) TestPrepareBlockBindings() {
	src := "problem: x + y\nprepare:\n  x = 2\n  y = 3\nend: done\n"
	prog, err := ParseString(src, "prepare-block")
	s.Require().NoError(err)
	prep, ok := prog.Statements[1].(*ast.Prepare)
	s.Require().True(ok)
	s.Require().Len(prep.Bindings, 2)
}

func (s *ParserTestSuite) TestCounterfactualBlock() {
	src := "problem: x + 1\nend: done\ncounterfactual:\n  assume: x = 4\n  expect: 5\n"
	prog, err := ParseString(src, "counterfactual")
	s.Require().NoError(err)
	cf, ok := prog.Statements[2].(*ast.Counterfactual)
	s.Require().True(ok)
	s.Equal("4", cf.Assume["x"])
	s.Equal("5", cf.Expect)
}

func (s *ParserTestSuite) TestCounterfactualRequiresExpect() {
	src := "problem: x + 1\nend: done\ncounterfactual:\n  assume: x = 4\n"
	_, err := ParseString(src, "counterfactual-bad")
	s.Require().Error(err)
}

func (s *ParserTestSuite) TestCommentsAndBlankLinesIgnored() {
	src := "# a comment\nproblem: 1\n\n# another\nend: done\n"
	prog, err := ParseString(src, "comments")
	s.Require().NoError(err)
	s.Len(prog.Statements, 2)
}

func (s *ParserTestSuite) TestMissingColonIsSyntaxError() {
	_, err := ParseString("problem 1\nend: done\n", "missing-colon")
	s.Require().Error(err)
	var synErr xerr.SyntaxError
	s.Require().ErrorAs(err, &synErr)
}
