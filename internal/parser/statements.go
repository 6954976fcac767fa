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
	"strings"

	"github.com/mathlang/mathlang/internal/ast"
	"github.com/mathlang/mathlang/internal/tokens"
	"github.com/mathlang/mathlang/internal/xerr"
)

func (p *Parser) parseStep() (*ast.Step, error) {
	line := p.line()
	p.advance() // consume 'step'

	var id string
	if p.cur.Kind == tokens.Ident {
		id = p.cur.Literal
		p.advance()
	}
	if err := p.expectTextDelim(tokens.Colon, "'step:'"); err != nil {
		return nil, err
	}

	text := p.lex.RestOfLine()
	if text != "" {
		p.advance()
		return ast.NewStep(line, id, text, "", ""), nil
	}

	p.advance() // -> Newline
	p.skipBlankLines()
	mapping, err := p.parseIndentedMapping()
	if err != nil {
		return nil, err
	}
	after, ok := mapping["after"]
	if !ok {
		return nil, xerr.ErrSyntax(line, "step block requires an 'after' key")
	}
	return ast.NewStep(line, id, after, mapping["before"], mapping["note"]), nil
}

func (p *Parser) parseEnd() (*ast.End, error) {
	line := p.line()
	if err := p.requireColonAfterKeyword("'end:'"); err != nil {
		return nil, err
	}
	text := strings.TrimSpace(p.lex.RestOfLine())
	p.advance()
	switch {
	case text == "done":
		return ast.NewEnd(line, "", true), nil
	case text == "":
		return nil, xerr.ErrSyntax(line, "end: requires 'done' or an expression")
	default:
		return ast.NewEnd(line, text, false), nil
	}
}

func (p *Parser) parseExplain() (*ast.Explain, error) {
	line := p.line()
	if err := p.requireColonAfterKeyword("'explain:'"); err != nil {
		return nil, err
	}
	raw := p.lex.RestOfLine()
	p.advance()
	text, ok := unquote(raw)
	if !ok {
		return nil, xerr.ErrSyntax(line, "explain: requires a quoted string, found %q", raw)
	}
	return ast.NewExplain(line, text), nil
}

func unquote(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", false
	}
	inner := raw[1 : len(raw)-1]
	inner = strings.ReplaceAll(inner, `\"`, `"`)
	inner = strings.ReplaceAll(inner, `\\`, `\`)
	return inner, true
}

func (p *Parser) parseMetaOrConfig(isMeta bool) (ast.Statement, error) {
	line := p.line()
	label := "config:"
	if isMeta {
		label = "meta:"
	}
	if err := p.requireColonAfterKeyword("'" + label + "'"); err != nil {
		return nil, err
	}
	if text := p.lex.RestOfLine(); text != "" {
		return nil, xerr.ErrSyntax(line, "%s must be an indented block, not an inline value", label)
	}
	p.advance() // -> Newline
	p.skipBlankLines()
	entries, err := p.parseIndentedMapping()
	if err != nil {
		return nil, err
	}
	if isMeta {
		return ast.NewMeta(line, entries), nil
	}
	return ast.NewConfig(line, entries), nil
}

func (p *Parser) parsePrepare() (*ast.Prepare, error) {
	line := p.line()
	if err := p.requireColonAfterKeyword("'prepare:'"); err != nil {
		return nil, err
	}
	inline := strings.TrimSpace(p.lex.RestOfLine())
	if inline != "" {
		p.advance()
		return p.parseInlinePrepare(line, inline)
	}

	p.advance() // -> Newline
	p.skipBlankLines()
	if p.cur.Kind != tokens.Indent {
		return ast.NewPrepare(line, ast.PrepareEmpty), nil
	}
	return p.parsePrepareBlock(line)
}

// parsePrepareBlock reads the indented body of a block `prepare:` node.
// Unlike meta/config, bindings use `name = expr`, not `name: expr`
// (spec §4.5); a lone `directive: text` line names a directive instead.
func (p *Parser) parsePrepareBlock(line int) (*ast.Prepare, error) {
	p.advance() // consume Indent
	prep := ast.NewPrepare(line, ast.PrepareList)
	for {
		p.skipBlankLines()
		if p.cur.Kind == tokens.Dedent {
			p.advance()
			break
		}
		if p.cur.Kind == tokens.EOF {
			return nil, xerr.ErrSyntax(p.line(), "unterminated prepare block")
		}
		if p.cur.Kind != tokens.Ident {
			return nil, xerr.ErrSyntax(p.line(), "expected a binding or 'directive:', found %q", p.cur.Literal)
		}
		name := p.cur.Literal
		p.advance()
		switch p.cur.Kind {
		case tokens.Assign:
			rhs := strings.TrimSpace(p.lex.RestOfLine())
			p.advance()
			prep.Bindings = append(prep.Bindings, ast.PrepareBinding{Name: name, Expression: rhs})
		case tokens.Colon:
			value := strings.TrimSpace(p.lex.RestOfLine())
			p.advance()
			if name != "directive" {
				return nil, xerr.ErrSyntax(p.line(), "unexpected key %q in prepare block", name)
			}
			prep.Kind = ast.PrepareDirective
			prep.Directive = value
		default:
			return nil, xerr.ErrSyntax(p.line(), "expected '=' or ':' after %q", name)
		}
	}
	if len(prep.Bindings) == 0 && prep.Kind == ast.PrepareList {
		prep.Kind = ast.PrepareEmpty
	}
	return prep, nil
}

func (p *Parser) parseInlinePrepare(line int, text string) (*ast.Prepare, error) {
	if text == "auto" {
		return ast.NewPrepare(line, ast.PrepareAuto), nil
	}
	if idx := strings.Index(text, "="); idx > 0 {
		name := strings.TrimSpace(text[:idx])
		rhs := strings.TrimSpace(text[idx+1:])
		prep := ast.NewPrepare(line, ast.PrepareList)
		prep.Bindings = []ast.PrepareBinding{{Name: name, Expression: rhs}}
		return prep, nil
	}
	prep := ast.NewPrepare(line, ast.PrepareExpr)
	prep.Expression = text
	return prep, nil
}

// parseCounterfactual reads a `counterfactual:` block: an `assume` section
// of `name = expr` bindings (inline, comma-separated, or one per indented
// line) followed by a required `expect: <expr>` line.
func (p *Parser) parseCounterfactual() (*ast.Counterfactual, error) {
	line := p.line()
	if err := p.requireColonAfterKeyword("'counterfactual:'"); err != nil {
		return nil, err
	}
	if text := p.lex.RestOfLine(); text != "" {
		return nil, xerr.ErrSyntax(line, "counterfactual: must be an indented block")
	}
	p.advance() // -> Newline
	p.skipBlankLines()
	if err := p.expect(tokens.Indent, "counterfactual body"); err != nil {
		return nil, err
	}

	assume := map[string]string{}
	var expect string
	haveExpect := false
	for {
		p.skipBlankLines()
		if p.cur.Kind == tokens.Dedent {
			p.advance()
			break
		}
		if p.cur.Kind == tokens.EOF {
			return nil, xerr.ErrSyntax(p.line(), "unterminated counterfactual block")
		}
		if p.cur.Kind != tokens.Ident {
			return nil, xerr.ErrSyntax(p.line(), "expected 'assume' or 'expect', found %q", p.cur.Literal)
		}
		key := p.cur.Literal
		p.advance()
		if err := p.expectTextDelim(tokens.Colon, "':' after "+key); err != nil {
			return nil, err
		}
		switch key {
		case "expect":
			expect = strings.TrimSpace(p.lex.RestOfLine())
			p.advance()
			haveExpect = true
		case "assume":
			if err := p.parseAssumeBindings(assume); err != nil {
				return nil, err
			}
		default:
			return nil, xerr.ErrSyntax(p.line(), "unexpected key %q in counterfactual block", key)
		}
	}
	if !haveExpect {
		return nil, xerr.ErrSyntax(line, "counterfactual: requires an 'expect' key")
	}
	return ast.NewCounterfactual(line, assume, expect), nil
}

// parseAssumeBindings handles both `assume: x = 3, y = 4` inline and a
// nested indented block with one `name = expr` binding per line.
func (p *Parser) parseAssumeBindings(into map[string]string) error {
	inline := strings.TrimSpace(p.lex.RestOfLine())
	if inline != "" {
		p.advance()
		for _, clause := range strings.Split(inline, ",") {
			name, rhs, ok := splitAssign(clause)
			if !ok {
				return xerr.ErrSyntax(p.line(), "invalid assume binding %q", clause)
			}
			into[name] = rhs
		}
		return nil
	}
	p.advance() // -> Newline
	p.skipBlankLines()
	if p.cur.Kind != tokens.Indent {
		return nil
	}
	p.advance()
	for {
		p.skipBlankLines()
		if p.cur.Kind == tokens.Dedent {
			p.advance()
			return nil
		}
		if p.cur.Kind == tokens.EOF {
			return xerr.ErrSyntax(p.line(), "unterminated assume block")
		}
		if p.cur.Kind != tokens.Ident {
			return xerr.ErrSyntax(p.line(), "expected a binding, found %q", p.cur.Literal)
		}
		name := p.cur.Literal
		p.advance()
		if err := p.expectTextDelim(tokens.Assign, "'=' after "+name); err != nil {
			return err
		}
		rhs := strings.TrimSpace(p.lex.RestOfLine())
		p.advance()
		into[name] = rhs
	}
}

func splitAssign(clause string) (name, rhs string, ok bool) {
	idx := strings.Index(clause, "=")
	if idx <= 0 {
		return "", "", false
	}
	return strings.TrimSpace(clause[:idx]), strings.TrimSpace(clause[idx+1:]), true
}
