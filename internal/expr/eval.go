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
)

// ErrDivByZero signals a division by zero encountered during Evaluate; the
// oracle's sampling fallback skips (rather than fails) a sample on this
// error (spec §4.2, resolved open question).
var ErrDivByZero = fmt.Errorf("expr: division by zero")

// Evaluate substitutes env for every Sym in e and reduces to a rational
// value. It returns an error for an unbound symbol (the caller is
// expected to have bound every free variable before calling) or for
// division by zero.
func Evaluate(e Expr, env map[string]*big.Rat) (*big.Rat, error) {
	switch t := e.(type) {
	case Int:
		return new(big.Rat).SetInt64(t.Value), nil
	case Rat:
		if t.Q == 0 {
			return nil, ErrDivByZero
		}
		return big.NewRat(t.P, t.Q), nil
	case Sym:
		v, ok := env[t.Name]
		if !ok {
			return nil, fmt.Errorf("expr: unbound symbol %q", t.Name)
		}
		return new(big.Rat).Set(v), nil
	case Add:
		acc := big.NewRat(0, 1)
		for _, sub := range t.Terms {
			v, err := Evaluate(sub, env)
			if err != nil {
				return nil, err
			}
			acc = new(big.Rat).Add(acc, v)
		}
		return acc, nil
	case Mul:
		acc := big.NewRat(1, 1)
		for _, sub := range t.Factors {
			v, err := Evaluate(sub, env)
			if err != nil {
				return nil, err
			}
			acc = new(big.Rat).Mul(acc, v)
		}
		return acc, nil
	case Neg:
		v, err := Evaluate(t.Inner, env)
		if err != nil {
			return nil, err
		}
		return new(big.Rat).Neg(v), nil
	case Div:
		num, err := Evaluate(t.Num, env)
		if err != nil {
			return nil, err
		}
		den, err := Evaluate(t.Den, env)
		if err != nil {
			return nil, err
		}
		if den.Sign() == 0 {
			return nil, ErrDivByZero
		}
		return new(big.Rat).Quo(num, den), nil
	case Pow:
		base, err := Evaluate(t.Base, env)
		if err != nil {
			return nil, err
		}
		expVal, err := Evaluate(t.Exp, env)
		if err != nil {
			return nil, err
		}
		if !expVal.IsInt() {
			return nil, fmt.Errorf("expr: non-integer exponent %s not supported by native evaluator", expVal.RatString())
		}
		n := expVal.Num().Int64()
		if n < 0 {
			if base.Sign() == 0 {
				return nil, ErrDivByZero
			}
			inv := new(big.Rat).Inv(base)
			return ratPowInt(inv, -n), nil
		}
		return ratPowInt(base, n), nil
	case Call:
		return nil, fmt.Errorf("expr: function call %q has no native numeric evaluation", t.Name)
	default:
		panic(fmt.Sprintf("expr: unhandled variant %T in Evaluate", e))
	}
}

func ratPowInt(base *big.Rat, n int64) *big.Rat {
	result := big.NewRat(1, 1)
	b := new(big.Rat).Set(base)
	for n > 0 {
		if n&1 == 1 {
			result = new(big.Rat).Mul(result, b)
		}
		b = new(big.Rat).Mul(b, b)
		n >>= 1
	}
	return result
}
