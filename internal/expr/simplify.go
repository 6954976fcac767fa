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

package expr

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// monomial is coeff * product(var^exp for var, exp in powers). powers never
// holds a zero exponent (those are pruned eagerly).
type monomial struct {
	coeff  *big.Rat
	powers map[string]int
}

func (m monomial) degree() int {
	d := 0
	for _, e := range m.powers {
		d += e
	}
	return d
}

// signature is the canonical "varname^exp*varname^exp" key, sorted by
// variable name, used both for combining like terms and for ordering.
func (m monomial) signature() string {
	names := make([]string, 0, len(m.powers))
	for name := range m.powers {
		names = append(names, name)
	}
	sort.Strings(names)
	var sb strings.Builder
	for _, name := range names {
		fmt.Fprintf(&sb, "%s^%d;", name, m.powers[name])
	}
	return sb.String()
}

// poly is a canonical sum of monomials: sorted descending by degree, then
// by signature, with like terms combined and zero-coefficient terms
// dropped. An empty poly denotes the literal 0.
type poly struct {
	terms []monomial
}

func polyConst(v *big.Rat) poly {
	if v.Sign() == 0 {
		return poly{}
	}
	return poly{terms: []monomial{{coeff: v, powers: map[string]int{}}}}
}

func polySym(name string) poly {
	return poly{terms: []monomial{{coeff: big.NewRat(1, 1), powers: map[string]int{name: 1}}}}
}

func (a poly) add(b poly) poly {
	byKey := map[string]monomial{}
	order := []string{}
	for _, m := range append(append([]monomial{}, a.terms...), b.terms...) {
		key := m.signature()
		if existing, ok := byKey[key]; ok {
			existing.coeff = new(big.Rat).Add(existing.coeff, m.coeff)
			byKey[key] = existing
		} else {
			byKey[key] = m
			order = append(order, key)
		}
	}
	out := poly{}
	for _, key := range order {
		m := byKey[key]
		if m.coeff.Sign() != 0 {
			out.terms = append(out.terms, m)
		}
	}
	out.sort()
	return out
}

func (a poly) neg() poly {
	out := poly{terms: make([]monomial, len(a.terms))}
	for i, m := range a.terms {
		out.terms[i] = monomial{coeff: new(big.Rat).Neg(m.coeff), powers: m.powers}
	}
	return out
}

func (a poly) mul(b poly) poly {
	out := poly{}
	for _, ma := range a.terms {
		for _, mb := range b.terms {
			powers := map[string]int{}
			for name, e := range ma.powers {
				powers[name] += e
			}
			for name, e := range mb.powers {
				powers[name] += e
			}
			for name, e := range powers {
				if e == 0 {
					delete(powers, name)
				}
			}
			coeff := new(big.Rat).Mul(ma.coeff, mb.coeff)
			out = out.add(poly{terms: []monomial{{coeff: coeff, powers: powers}}})
		}
	}
	return out
}

// powInt raises a to a non-negative integer power via repeated squaring.
func (a poly) powInt(n int) poly {
	result := polyConst(big.NewRat(1, 1))
	base := a
	for n > 0 {
		if n&1 == 1 {
			result = result.mul(base)
		}
		base = base.mul(base)
		n >>= 1
	}
	return result
}

func (a poly) sort() {
	sort.Slice(a.terms, func(i, j int) bool {
		di, dj := a.terms[i].degree(), a.terms[j].degree()
		if di != dj {
			return di > dj
		}
		return a.terms[i].signature() < a.terms[j].signature()
	})
}

func (a poly) isZero() bool { return len(a.terms) == 0 }

// String renders the canonical polynomial form, e.g. "2*x^2 + 3*x + -1".
func (a poly) String() string {
	if a.isZero() {
		return "0"
	}
	parts := make([]string, len(a.terms))
	for i, m := range a.terms {
		parts[i] = monomialString(m)
	}
	return strings.Join(parts, " + ")
}

func monomialString(m monomial) string {
	names := make([]string, 0, len(m.powers))
	for name := range m.powers {
		names = append(names, name)
	}
	sort.Strings(names)
	var factors []string
	if m.coeff.Cmp(big.NewRat(1, 1)) != 0 || len(names) == 0 {
		factors = append(factors, ratString(m.coeff))
	}
	for _, name := range names {
		e := m.powers[name]
		if e == 1 {
			factors = append(factors, name)
		} else {
			factors = append(factors, fmt.Sprintf("%s^%d", name, e))
		}
	}
	return strings.Join(factors, "*")
}

func ratString(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	return r.RatString()
}

// expandToPoly tries to flatten e into a canonical polynomial. It returns
// ok=false when e involves a symbolic denominator, a call, or a
// non-constant / non-integer exponent — cases the native CAS cannot
// decide algebraically and must defer to numeric sampling (spec §4.2).
func expandToPoly(e Expr) (poly, bool) {
	switch t := e.(type) {
	case Int:
		return polyConst(new(big.Rat).SetInt64(t.Value)), true
	case Rat:
		if t.Q == 0 {
			return poly{}, false
		}
		return polyConst(big.NewRat(t.P, t.Q)), true
	case Sym:
		return polySym(t.Name), true
	case Add:
		acc := poly{}
		for _, sub := range t.Terms {
			p, ok := expandToPoly(sub)
			if !ok {
				return poly{}, false
			}
			acc = acc.add(p)
		}
		return acc, true
	case Mul:
		acc := polyConst(big.NewRat(1, 1))
		for _, sub := range t.Factors {
			p, ok := expandToPoly(sub)
			if !ok {
				return poly{}, false
			}
			acc = acc.mul(p)
		}
		return acc, true
	case Neg:
		p, ok := expandToPoly(t.Inner)
		if !ok {
			return poly{}, false
		}
		return p.neg(), true
	case Pow:
		base, ok := expandToPoly(t.Base)
		if !ok {
			return poly{}, false
		}
		expInt, isConst, ok := constantInt(t.Exp)
		if !ok || !isConst || expInt < 0 {
			return poly{}, false
		}
		return base.powInt(expInt), true
	case Div:
		num, ok := expandToPoly(t.Num)
		if !ok {
			return poly{}, false
		}
		// Only decidable when the denominator is a nonzero constant.
		den, isConst, ok := constantRat(t.Den)
		if !ok || !isConst || den.Sign() == 0 {
			return poly{}, false
		}
		inv := new(big.Rat).Inv(den)
		return num.mul(polyConst(inv)), true
	case Call:
		return poly{}, false
	default:
		panic(fmt.Sprintf("expr: unhandled variant %T in expandToPoly", e))
	}
}

func constantInt(e Expr) (value int, isConst bool, ok bool) {
	r, isConst, ok := constantRat(e)
	if !ok || !isConst {
		return 0, isConst, ok
	}
	if !r.IsInt() {
		return 0, true, false
	}
	return int(r.Num().Int64()), true, true
}

func constantRat(e Expr) (*big.Rat, bool, bool) {
	p, ok := expandToPoly(e)
	if !ok {
		return nil, false, false
	}
	if p.isZero() {
		return big.NewRat(0, 1), true, true
	}
	if len(p.terms) != 1 || len(p.terms[0].powers) != 0 {
		return nil, false, true
	}
	return p.terms[0].coeff, true, true
}

// Simplify returns the canonical string form of e. When e reduces to a
// polynomial it is the sorted, combined-like-terms monomial sum; otherwise
// it falls back to a lightly normalized printer (constant folding plus
// flattening, no distribution) so that the oracle still has a stable,
// comparable text form for non-polynomial expressions such as calls or
// symbolic-denominator divisions.
func Simplify(e Expr) string {
	if p, ok := expandToPoly(e); ok {
		return p.String()
	}
	return lightNormalize(e).String()
}

// lightNormalize folds constant subtrees and flattens nested Add/Mul
// without attempting full polynomial expansion.
func lightNormalize(e Expr) Expr {
	switch t := e.(type) {
	case Int, Rat, Sym:
		return e
	case Add:
		var terms []Expr
		acc := big.NewRat(0, 1)
		for _, sub := range t.Terms {
			n := lightNormalize(sub)
			if r, isConst, ok := constantRat(n); ok && isConst {
				acc = new(big.Rat).Add(acc, r)
				continue
			}
			if inner, ok := n.(Add); ok {
				terms = append(terms, inner.Terms...)
				continue
			}
			terms = append(terms, n)
		}
		if acc.Sign() != 0 || len(terms) == 0 {
			terms = append(terms, ratOrInt(acc))
		}
		if len(terms) == 1 {
			return terms[0]
		}
		return Add{Terms: terms}
	case Mul:
		var factors []Expr
		acc := big.NewRat(1, 1)
		for _, sub := range t.Factors {
			n := lightNormalize(sub)
			if r, isConst, ok := constantRat(n); ok && isConst {
				acc = new(big.Rat).Mul(acc, r)
				continue
			}
			if inner, ok := n.(Mul); ok {
				factors = append(factors, inner.Factors...)
				continue
			}
			factors = append(factors, n)
		}
		if acc.Cmp(big.NewRat(0, 1)) == 0 {
			return Int{Value: 0}
		}
		if acc.Cmp(big.NewRat(1, 1)) != 0 || len(factors) == 0 {
			factors = append([]Expr{ratOrInt(acc)}, factors...)
		}
		if len(factors) == 1 {
			return factors[0]
		}
		return Mul{Factors: factors}
	case Pow:
		return Pow{Base: lightNormalize(t.Base), Exp: lightNormalize(t.Exp)}
	case Neg:
		inner := lightNormalize(t.Inner)
		if r, isConst, ok := constantRat(inner); ok && isConst {
			return ratOrInt(new(big.Rat).Neg(r))
		}
		return Neg{Inner: inner}
	case Div:
		return Div{Num: lightNormalize(t.Num), Den: lightNormalize(t.Den)}
	case Call:
		args := make([]Expr, len(t.Args))
		for i, a := range t.Args {
			args[i] = lightNormalize(a)
		}
		return Call{Name: t.Name, Args: args}
	default:
		panic(fmt.Sprintf("expr: unhandled variant %T in lightNormalize", e))
	}
}

func ratOrInt(r *big.Rat) Expr {
	if r.IsInt() {
		return Int{Value: r.Num().Int64()}
	}
	return Rat{P: r.Num().Int64(), Q: r.Denom().Int64()}
}

// Polynomial returns e's canonical polynomial string form, and ok=false if
// e cannot be expanded into a polynomial at all (a call, a symbolic
// denominator, a non-integer exponent). Unlike Simplify, it never falls
// back to the lightly-normalized printer — callers that need a pure
// polynomial canonical form (the polynomial-mode step checker) must know
// when that form doesn't apply rather than silently get a weaker one.
func Polynomial(e Expr) (string, bool) {
	p, ok := expandToPoly(e)
	if !ok {
		return "", false
	}
	return p.String(), true
}

// IsIdenticallyZero reports whether e's canonical polynomial expansion is
// the zero polynomial. It returns ok=false when e cannot be expanded into
// a polynomial at all (the oracle must then fall back to numeric
// sampling, spec §4.2).
func IsIdenticallyZero(e Expr) (zero bool, ok bool) {
	p, ok := expandToPoly(e)
	if !ok {
		return false, false
	}
	return p.isZero(), true
}
