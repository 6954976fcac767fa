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

// Package lexer turns MathLang source text into a token stream. It is a
// line-oriented, indentation-sensitive scanner: most of a program line's
// content (an equation, a note, an explanation) is never tokenized at
// all — it is handed back to the parser verbatim via RestOfLine, because
// expression text is the stable unit of identity in MathLang (spec §9).
// Only the structural skeleton of a line (leading keyword, optional
// identifier, colon, indentation) is tokenized.
package lexer

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/mathlang/mathlang/internal/tokens"
)

// Lexer is a single-pass, rune-at-a-time scanner over one source.
type Lexer struct {
	reader   *bufio.Reader
	filename string

	line   int
	column int

	current rune
	atEOF   bool

	indentStack []int
	atLineStart bool
	pending     []tokens.Instance
}

func New(reader io.Reader, filename string) *Lexer {
	l := &Lexer{
		reader:      bufio.NewReader(reader),
		filename:    filename,
		line:        1,
		column:      1,
		indentStack: []int{0},
		atLineStart: true,
	}
	l.readRune()
	return l
}

func (l *Lexer) currentPosition() tokens.Position {
	return tokens.Position{Filename: l.filename, Line: l.line, Column: l.column}
}

func (l *Lexer) readRune() {
	if l.atEOF {
		l.current = 0
		return
	}
	r, _, err := l.reader.ReadRune()
	if err != nil {
		l.atEOF = true
		l.current = 0
		return
	}
	l.current = r
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

// NextToken returns the next structural token. Callers that need the raw
// text of the current line (after a keyword and colon) must call
// RestOfLine instead of continuing to call NextToken.
func (l *Lexer) NextToken() tokens.Instance {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok
	}

	if l.atLineStart {
		if tok, handled := l.handleLineStart(); handled {
			return tok
		}
	}

	return l.scanToken()
}

// handleLineStart measures indentation, skips blank/comment-only lines,
// and emits queued Indent/Dedent tokens. It returns handled=false once the
// line has real content and indentation bookkeeping is settled, so the
// caller falls through to normal token scanning.
func (l *Lexer) handleLineStart() (tokens.Instance, bool) {
	for {
		width := 0
		for l.current == ' ' {
			width++
			l.readRune()
		}
		if l.current == '\t' {
			// Tabs are rejected rather than silently expanded, to keep
			// indentation width unambiguous.
			pos := l.currentPosition()
			l.readRune()
			return tokens.New(tokens.Error, "tab characters are not permitted in indentation", pos), true
		}

		if l.current == '\n' || l.current == 0 {
			if l.current == '\n' {
				l.readRune()
				continue
			}
			break // EOF on a blank line
		}

		if l.current == '#' {
			l.skipComment()
			if l.current == '\n' {
				l.readRune()
				continue
			}
			break
		}

		l.atLineStart = false
		return l.adjustIndent(width)
	}

	// EOF: flush all remaining indent levels as dedents, then EOF.
	l.atLineStart = false
	for len(l.indentStack) > 1 {
		l.indentStack = l.indentStack[:len(l.indentStack)-1]
		l.pending = append(l.pending, tokens.New(tokens.Dedent, "", l.currentPosition()))
	}
	l.pending = append(l.pending, tokens.New(tokens.EOF, "", l.currentPosition()))
	tok := l.pending[0]
	l.pending = l.pending[1:]
	return tok, true
}

func (l *Lexer) adjustIndent(width int) (tokens.Instance, bool) {
	top := l.indentStack[len(l.indentStack)-1]
	pos := l.currentPosition()
	switch {
	case width > top:
		l.indentStack = append(l.indentStack, width)
		return tokens.New(tokens.Indent, "", pos), true
	case width < top:
		for len(l.indentStack) > 1 && l.indentStack[len(l.indentStack)-1] > width {
			l.indentStack = l.indentStack[:len(l.indentStack)-1]
			l.pending = append(l.pending, tokens.New(tokens.Dedent, "", pos))
		}
		if l.indentStack[len(l.indentStack)-1] != width {
			l.pending = append(l.pending, tokens.New(tokens.Error, "unindent does not match any outer indentation level", pos))
		}
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok, true
	default:
		return tokens.Instance{}, false
	}
}

func (l *Lexer) skipComment() {
	for l.current != '\n' && l.current != 0 {
		l.readRune()
	}
}

func (l *Lexer) scanToken() tokens.Instance {
	for l.current == ' ' {
		l.readRune()
	}
	pos := l.currentPosition()

	if l.current == '#' {
		l.skipComment()
		return l.scanToken()
	}

	switch {
	case l.current == 0:
		return tokens.New(tokens.EOF, "", pos)
	case l.current == '\n':
		l.readRune()
		l.atLineStart = true
		return tokens.New(tokens.Newline, "", pos)
	case l.current == ':':
		l.readRune()
		return tokens.New(tokens.Colon, ":", pos)
	case l.current == ',':
		l.readRune()
		return tokens.New(tokens.Comma, ",", pos)
	case l.current == '=':
		l.readRune()
		return tokens.New(tokens.Assign, "=", pos)
	case unicode.IsLetter(l.current) || l.current == '_':
		ident := l.readIdentifier()
		if kind, ok := tokens.IsKeyword(ident); ok {
			return tokens.New(kind, ident, pos)
		}
		return tokens.New(tokens.Ident, ident, pos)
	default:
		ch := string(l.current)
		l.readRune()
		return tokens.New(tokens.Error, "unexpected character: "+ch, pos)
	}
}

func (l *Lexer) readIdentifier() string {
	var sb strings.Builder
	for unicode.IsLetter(l.current) || unicode.IsDigit(l.current) || l.current == '_' {
		sb.WriteRune(l.current)
		l.readRune()
	}
	return sb.String()
}

// RestOfLine consumes and returns everything from the current position up
// to (but not including) the next newline or EOF, trimmed of surrounding
// whitespace. The caller is responsible for having already consumed the
// leading keyword/colon tokens that precede the free text.
func (l *Lexer) RestOfLine() string {
	var sb strings.Builder
	for l.current != '\n' && l.current != 0 {
		sb.WriteRune(l.current)
		l.readRune()
	}
	return strings.TrimSpace(sb.String())
}

// AtNewlineOrEOF reports whether the scanner has reached a line boundary,
// used by the parser to validate it consumed an entire logical line.
func (l *Lexer) AtNewlineOrEOF() bool {
	return l.current == '\n' || l.current == 0
}
