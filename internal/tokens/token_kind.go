// SPDX-License-Identifier: Apache-2.0
//
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

package tokens

// Kind identifies the lexical category of a Token.
type Kind string

const (
	EOF     Kind = "EOF"
	Error   Kind = "Error"
	Unknown Kind = "Unknown"

	// Literals
	Ident  Kind = "Ident"
	String Kind = "String"
	Int    Kind = "Int"
	Float  Kind = "Float"

	// Structural
	Colon     Kind = "Colon"
	Newline   Kind = "Newline"
	Indent    Kind = "Indent"
	Dedent    Kind = "Dedent"
	Comment   Kind = "Comment"
	Dash      Kind = "Dash"
	Plus      Kind = "Plus"
	Star      Kind = "Star"
	Slash     Kind = "Slash"
	Caret     Kind = "Caret"
	LParen    Kind = "LParen"
	RParen    Kind = "RParen"
	Comma     Kind = "Comma"
	Assign    Kind = "Assign"

	// Keywords (statement heads)
	KeywordProblem       Kind = "problem"
	KeywordStep          Kind = "step"
	KeywordEnd           Kind = "end"
	KeywordExplain       Kind = "explain"
	KeywordMeta          Kind = "meta"
	KeywordConfig        Kind = "config"
	KeywordMode          Kind = "mode"
	KeywordPrepare       Kind = "prepare"
	KeywordCounterfactual Kind = "counterfactual"
	KeywordBefore        Kind = "before"
	KeywordAfter         Kind = "after"
	KeywordNote          Kind = "note"
	KeywordDone          Kind = "done"
	KeywordAssume        Kind = "assume"
	KeywordExpect        Kind = "expect"
)

var keywords = map[string]Kind{
	"problem":        KeywordProblem,
	"step":           KeywordStep,
	"end":            KeywordEnd,
	"explain":        KeywordExplain,
	"meta":           KeywordMeta,
	"config":         KeywordConfig,
	"mode":           KeywordMode,
	"prepare":        KeywordPrepare,
	"counterfactual": KeywordCounterfactual,
	"before":         KeywordBefore,
	"after":          KeywordAfter,
	"note":           KeywordNote,
	"done":           KeywordDone,
	"assume":         KeywordAssume,
	"expect":         KeywordExpect,
}

// IsKeyword reports whether value is a reserved statement-head word, and
// if so returns its Kind. The block keys before, after, note, assume and
// expect and the end marker done are not statement heads: IsKeyword
// reports false for them, so the lexer emits them as Ident.
func IsKeyword(value string) (Kind, bool) {
	kind, ok := keywords[value]
	switch kind {
	case KeywordBefore, KeywordAfter, KeywordNote, KeywordDone, KeywordAssume, KeywordExpect:
		return "", false
	}
	return kind, ok
}
