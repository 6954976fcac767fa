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

// Package expr is the recursive tagged-union expression tree (spec §3) and
// its small recursive-descent parser (spec §2 point 2, "a small expression
// lexer used by the knowledge-registry to parse rule patterns"). It is an
// implementation detail of the oracle and the knowledge registry: every
// other MathLang component treats expressions as opaque text (spec §9).
package expr

import "fmt"

// Expr is the sum type: Int, Rat, Sym, Add, Mul, Pow, Neg, Div, Call.
// Every switch over Expr must handle all nine variants exhaustively; the
// default case in each switch panics rather than silently misbehaving
// (spec §9, "sum types... exhaustive matching").
type Expr interface {
	fmt.Stringer
	isExpr()
}

type Int struct{ Value int64 }

func (Int) isExpr() {}

// Rat is a literal rational p/q, q != 0. Ownership (spec §3): each tree is
// owned by its enclosing program node; sharing is by value (structural
// copy), never by pointer aliasing across trees.
type Rat struct{ P, Q int64 }

func (Rat) isExpr() {}

type Sym struct{ Name string }

func (Sym) isExpr() {}

type Add struct{ Terms []Expr }

func (Add) isExpr() {}

type Mul struct{ Factors []Expr }

func (Mul) isExpr() {}

type Pow struct{ Base, Exp Expr }

func (Pow) isExpr() {}

type Neg struct{ Inner Expr }

func (Neg) isExpr() {}

type Div struct{ Num, Den Expr }

func (Div) isExpr() {}

type Call struct {
	Name string
	Args []Expr
}

func (Call) isExpr() {}

// Clone makes a structural (deep) copy, per the ownership note above.
func Clone(e Expr) Expr {
	switch t := e.(type) {
	case Int:
		return Int{Value: t.Value}
	case Rat:
		return Rat{P: t.P, Q: t.Q}
	case Sym:
		return Sym{Name: t.Name}
	case Add:
		terms := make([]Expr, len(t.Terms))
		for i, sub := range t.Terms {
			terms[i] = Clone(sub)
		}
		return Add{Terms: terms}
	case Mul:
		factors := make([]Expr, len(t.Factors))
		for i, sub := range t.Factors {
			factors[i] = Clone(sub)
		}
		return Mul{Factors: factors}
	case Pow:
		return Pow{Base: Clone(t.Base), Exp: Clone(t.Exp)}
	case Neg:
		return Neg{Inner: Clone(t.Inner)}
	case Div:
		return Div{Num: Clone(t.Num), Den: Clone(t.Den)}
	case Call:
		args := make([]Expr, len(t.Args))
		for i, sub := range t.Args {
			args[i] = Clone(sub)
		}
		return Call{Name: t.Name, Args: args}
	default:
		panic(fmt.Sprintf("expr: unhandled variant %T in Clone", e))
	}
}

// FreeSymbols collects the distinct variable names referenced by e.
func FreeSymbols(e Expr) map[string]struct{} {
	out := map[string]struct{}{}
	collectSymbols(e, out)
	return out
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch t := e.(type) {
	case Int, Rat:
		// no symbols
	case Sym:
		out[t.Name] = struct{}{}
	case Add:
		for _, sub := range t.Terms {
			collectSymbols(sub, out)
		}
	case Mul:
		for _, sub := range t.Factors {
			collectSymbols(sub, out)
		}
	case Pow:
		collectSymbols(t.Base, out)
		collectSymbols(t.Exp, out)
	case Neg:
		collectSymbols(t.Inner, out)
	case Div:
		collectSymbols(t.Num, out)
		collectSymbols(t.Den, out)
	case Call:
		for _, sub := range t.Args {
			collectSymbols(sub, out)
		}
	default:
		panic(fmt.Sprintf("expr: unhandled variant %T in FreeSymbols", e))
	}
}
