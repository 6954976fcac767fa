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

// Package parser turns a token stream from internal/lexer into an
// internal/ast.Program (spec §4.1). It never interprets expression text —
// every expression survives as the verbatim string the author wrote.
package parser

import (
	"io"
	"strings"

	"github.com/mathlang/mathlang/internal/ast"
	"github.com/mathlang/mathlang/internal/lexer"
	"github.com/mathlang/mathlang/internal/tokens"
	"github.com/mathlang/mathlang/internal/xerr"
)

// Parser is single-use: construct one per source, call Parse once.
type Parser struct {
	lex      *lexer.Lexer
	filename string
	cur      tokens.Instance

	sawProblem bool
}

// Parse reads source (named by filename for diagnostics) to completion
// and returns the resulting program, or the first SyntaxError encountered.
func Parse(source io.Reader, filename string) (*ast.Program, error) {
	p := &Parser{lex: lexer.New(source, filename), filename: filename}
	p.advance()
	return p.parseProgram()
}

// ParseString is a convenience wrapper for in-memory source, used by the
// CLI's --code path and by tests.
func ParseString(source, filename string) (*ast.Program, error) {
	return Parse(strings.NewReader(source), filename)
}

func (p *Parser) advance() {
	p.cur = p.lex.NextToken()
}

func (p *Parser) line() int { return p.cur.Position.Line }

// expect consumes the current token if it matches kind, else returns a
// SyntaxError naming what was expected.
func (p *Parser) expect(kind tokens.Kind, what string) error {
	if p.cur.Kind == tokens.Error {
		return xerr.ErrSyntax(p.line(), "%s", p.cur.Literal)
	}
	if p.cur.Kind != kind {
		return xerr.ErrSyntax(p.line(), "expected %s, found %q", what, p.cur.Literal)
	}
	p.advance()
	return nil
}

// expectTextDelim checks that the current token is kind (':' or '=')
// WITHOUT advancing past it. Both delimiters are immediately followed by
// free-form text that the lexer hands back raw via RestOfLine; calling
// NextToken here would wrongly try to tokenize that text as if it were
// more DSL structure.
func (p *Parser) expectTextDelim(kind tokens.Kind, what string) error {
	if p.cur.Kind == tokens.Error {
		return xerr.ErrSyntax(p.line(), "%s", p.cur.Literal)
	}
	if p.cur.Kind != kind {
		return xerr.ErrSyntax(p.line(), "expected %s, found %q", what, p.cur.Literal)
	}
	return nil
}

// skipBlankLines consumes any run of Newline tokens between statements.
func (p *Parser) skipBlankLines() {
	for p.cur.Kind == tokens.Newline {
		p.advance()
	}
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{Reference: p.filename}
	p.skipBlankLines()
	for p.cur.Kind != tokens.EOF {
		if p.cur.Kind == tokens.Error {
			return nil, xerr.ErrSyntax(p.line(), "%s", p.cur.Literal)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.skipBlankLines()
	}
	return prog, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur.Kind {
	case tokens.KeywordProblem:
		if p.sawProblem {
			return nil, xerr.ErrDuplicateProblem()
		}
		p.sawProblem = true
		return p.parseProblem()
	case tokens.KeywordStep:
		return p.parseStep()
	case tokens.KeywordEnd:
		return p.parseEnd()
	case tokens.KeywordExplain:
		return p.parseExplain()
	case tokens.KeywordMeta:
		return p.parseMetaOrConfig(true)
	case tokens.KeywordConfig:
		return p.parseMetaOrConfig(false)
	case tokens.KeywordMode:
		return p.parseMode()
	case tokens.KeywordPrepare:
		return p.parsePrepare()
	case tokens.KeywordCounterfactual:
		return p.parseCounterfactual()
	default:
		return nil, xerr.ErrSyntax(p.line(), "unexpected token %q at start of statement", p.cur.Literal)
	}
}

// requireColonAfterKeyword consumes a keyword token (already current) and
// verifies the next token is ':', leaving the lexer positioned exactly
// after the colon so a following RestOfLine() call captures the rest of
// the line verbatim.
func (p *Parser) requireColonAfterKeyword(label string) error {
	p.advance() // consume keyword
	return p.expectTextDelim(tokens.Colon, label+" ':'")
}

func (p *Parser) parseProblem() (*ast.Problem, error) {
	line := p.line()
	if err := p.requireColonAfterKeyword("'problem:'"); err != nil {
		return nil, err
	}
	text := p.lex.RestOfLine()
	if text == "" {
		return nil, xerr.ErrSyntax(line, "problem: requires an expression")
	}
	p.advance()
	return ast.NewProblem(line, text), nil
}

func (p *Parser) parseMode() (*ast.Mode, error) {
	line := p.line()
	if err := p.requireColonAfterKeyword("'mode:'"); err != nil {
		return nil, err
	}
	text := strings.TrimSpace(p.lex.RestOfLine())
	p.advance()
	kind := ast.ModeKind(text)
	switch kind {
	case ast.ModeStrict, ast.ModeFuzzy, ast.ModeCausal, ast.ModeCF:
		return ast.NewMode(line, kind), nil
	default:
		return nil, xerr.ErrSyntax(line, "unknown mode %q", text)
	}
}
