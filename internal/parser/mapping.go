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
	"github.com/mathlang/mathlang/internal/tokens"
	"github.com/mathlang/mathlang/internal/xerr"
)

// parseIndentedMapping reads a flat `key: value` block. p.cur must be
// Indent on entry; it consumes through the matching Dedent. Nesting by
// further indentation is flattened with dotted keys ("parent.child").
func (p *Parser) parseIndentedMapping() (map[string]string, error) {
	out := map[string]string{}
	if err := p.expect(tokens.Indent, "indented block"); err != nil {
		return nil, err
	}
	for {
		p.skipBlankLines()
		if p.cur.Kind == tokens.Dedent {
			p.advance()
			return out, nil
		}
		if p.cur.Kind == tokens.EOF {
			return nil, xerr.ErrSyntax(p.line(), "unterminated indented block")
		}
		if p.cur.Kind != tokens.Ident {
			return nil, xerr.ErrSyntax(p.line(), "expected key, found %q", p.cur.Literal)
		}
		key := p.cur.Literal
		p.advance()
		if err := p.expectTextDelim(tokens.Colon, "':' after key "+key); err != nil {
			return nil, err
		}
		value := p.lex.RestOfLine()
		p.advance()
		p.skipBlankLines()
		if p.cur.Kind == tokens.Indent {
			nested, err := p.parseIndentedMapping()
			if err != nil {
				return nil, err
			}
			for nk, nv := range nested {
				out[key+"."+nk] = nv
			}
			continue
		}
		out[key] = value
	}
}
