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

package oracle

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/dop251/goja"
	"github.com/jackc/puddle/v2"

	"github.com/mathlang/mathlang/internal/expr"
)

// GojaCAS answers ToInternal and Simplify exactly like NativeCAS (neither
// engine attempts symbolic simplification beyond polynomial expansion),
// but routes Evaluate through a pooled goja.Runtime, transpiling the
// expression to a JavaScript source snippet and reading back a float64
// result. Spec §4.2 is explicit that an oracle's public surface and
// failure modes must be identical whether the underlying CAS differs;
// only decision quality may vary, and goja's float64 arithmetic is
// intentionally lower-fidelity than NativeCAS's exact big.Rat path.
type GojaCAS struct {
	native NativeCAS
	pool   *puddle.Pool[*goja.Runtime]
}

// NewGojaCAS builds a pool of at most maxSize goja runtimes, mirroring
// the one-VM-per-concurrent-caller pattern used to isolate untrusted
// script execution.
func NewGojaCAS(maxSize int32) (*GojaCAS, error) {
	constructor := func(ctx context.Context) (*goja.Runtime, error) {
		return goja.New(), nil
	}
	destructor := func(vm *goja.Runtime) {}
	pool, err := puddle.NewPool(&puddle.Config[*goja.Runtime]{
		Constructor: constructor,
		Destructor:  destructor,
		MaxSize:     maxSize,
	})
	if err != nil {
		return nil, fmt.Errorf("goja CAS: building runtime pool: %w", err)
	}
	return &GojaCAS{pool: pool}, nil
}

func (g *GojaCAS) ToInternal(text string) (expr.Expr, error) { return g.native.ToInternal(text) }

func (g *GojaCAS) Simplify(text string) (string, error) { return g.native.Simplify(text) }

func (g *GojaCAS) Explain(before, after string) string { return g.native.Explain(before, after) }

func (g *GojaCAS) Evaluate(text string, env map[string]*big.Rat) (*big.Rat, bool, error) {
	e, err := g.ToInternal(text)
	if err != nil {
		return nil, false, err
	}
	free := expr.FreeSymbols(e)
	for name := range free {
		if _, bound := env[name]; !bound {
			return nil, false, nil
		}
	}

	res, err := g.pool.Acquire(context.Background())
	if err != nil {
		return nil, true, fmt.Errorf("goja CAS: acquiring runtime: %w", err)
	}
	defer res.Release()
	vm := res.Value()

	for name, v := range env {
		f, _ := new(big.Float).SetRat(v).Float64()
		if err := vm.Set(name, f); err != nil {
			return nil, true, fmt.Errorf("goja CAS: binding %q: %w", name, err)
		}
	}

	script := toJS(e)
	value, err := vm.RunString(script)
	if err != nil {
		return nil, true, fmt.Errorf("goja CAS: evaluating %q: %w", text, err)
	}
	f := value.ToFloat()
	r, _ := big.NewFloat(f).Rat(nil)
	if r == nil {
		return nil, true, fmt.Errorf("goja CAS: non-finite result evaluating %q", text)
	}
	return r, true, nil
}

// toJS transpiles an expression tree to a JavaScript arithmetic
// expression. Division and exponentiation map directly onto JS
// operators; goja evaluates with IEEE-754 floats, which is the source of
// the documented precision difference against NativeCAS.
func toJS(e expr.Expr) string {
	switch t := e.(type) {
	case expr.Int:
		return fmt.Sprintf("(%d)", t.Value)
	case expr.Rat:
		return fmt.Sprintf("(%d/%d)", t.P, t.Q)
	case expr.Sym:
		return t.Name
	case expr.Add:
		parts := make([]string, len(t.Terms))
		for i, sub := range t.Terms {
			parts[i] = toJS(sub)
		}
		return "(" + strings.Join(parts, "+") + ")"
	case expr.Mul:
		parts := make([]string, len(t.Factors))
		for i, sub := range t.Factors {
			parts[i] = toJS(sub)
		}
		return "(" + strings.Join(parts, "*") + ")"
	case expr.Pow:
		return fmt.Sprintf("Math.pow(%s, %s)", toJS(t.Base), toJS(t.Exp))
	case expr.Neg:
		return "(-" + toJS(t.Inner) + ")"
	case expr.Div:
		return "(" + toJS(t.Num) + "/" + toJS(t.Den) + ")"
	case expr.Call:
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = toJS(a)
		}
		return fmt.Sprintf("Math.%s(%s)", t.Name, strings.Join(args, ","))
	default:
		panic(fmt.Sprintf("oracle: unhandled variant %T in toJS", e))
	}
}

var _ CAS = &GojaCAS{}
