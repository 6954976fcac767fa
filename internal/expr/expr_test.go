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
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_ValidSyntaxPrints(t *testing.T) {
	cases := []string{
		"3 + 5",
		"(3 + 5) * 4",
		"x^2 + 3*x + 2",
		"(x + 1) * (x + 2)",
		"-x / 2",
		"f(x, y)",
	}
	for _, src := range cases {
		e, err := Parse(src)
		require.NoError(t, err, src)
		require.NotEmpty(t, e.String())
	}
}

func TestParse_InvalidSyntax(t *testing.T) {
	for _, src := range []string{"", "3 +", "(3 + 4", "3 ** 2 +"} {
		_, err := Parse(src)
		require.Error(t, err, src)
	}
}

func TestSimplify_Canonical(t *testing.T) {
	a, err := Parse("(x + 1) * (x + 2)")
	require.NoError(t, err)
	b, err := Parse("x^2 + 3*x + 2")
	require.NoError(t, err)
	require.Equal(t, Simplify(a), Simplify(b))
}

func TestSimplify_Deterministic(t *testing.T) {
	e, err := Parse("x + x + 2*x")
	require.NoError(t, err)
	first := Simplify(e)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, Simplify(e))
	}
}

func TestPolynomial_RejectsNonPolynomial(t *testing.T) {
	e, err := Parse("sin(x)")
	require.NoError(t, err)
	_, ok := Polynomial(e)
	require.False(t, ok)

	e, err = Parse("1 / x")
	require.NoError(t, err)
	_, ok = Polynomial(e)
	require.False(t, ok)
}

func TestPolynomial_AcceptsClosedForm(t *testing.T) {
	a, err := Parse("(x + 1) * (x + 2)")
	require.NoError(t, err)
	b, err := Parse("x^2 + 3*x + 2")
	require.NoError(t, err)
	pa, ok := Polynomial(a)
	require.True(t, ok)
	pb, ok := Polynomial(b)
	require.True(t, ok)
	require.Equal(t, pa, pb)
}

func TestEvaluate_Arithmetic(t *testing.T) {
	e, err := Parse("(3 + 5) * 4")
	require.NoError(t, err)
	v, err := Evaluate(e, nil)
	require.NoError(t, err)
	require.Equal(t, big.NewRat(32, 1), v)
}

func TestEvaluate_DivisionByZero(t *testing.T) {
	e, err := Parse("1 / 0")
	require.NoError(t, err)
	_, err = Evaluate(e, nil)
	require.ErrorIs(t, err, ErrDivByZero)
}

func TestEvaluate_SubstitutesBindings(t *testing.T) {
	e, err := Parse("x + y")
	require.NoError(t, err)
	env := map[string]*big.Rat{
		"x": big.NewRat(2, 1),
		"y": big.NewRat(3, 1),
	}
	v, err := Evaluate(e, env)
	require.NoError(t, err)
	require.Equal(t, big.NewRat(5, 1), v)
}

func TestFreeSymbols(t *testing.T) {
	e, err := Parse("x + y * x")
	require.NoError(t, err)
	free := FreeSymbols(e)
	require.Len(t, free, 2)
	_, hasX := free["x"]
	_, hasY := free["y"]
	require.True(t, hasX)
	require.True(t, hasY)
}

func TestIsIdenticallyZero(t *testing.T) {
	a, err := Parse("x^2 - x^2")
	require.NoError(t, err)
	zero, ok := IsIdenticallyZero(a)
	require.True(t, ok)
	require.True(t, zero)
}
