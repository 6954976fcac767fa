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
	"fmt"
	"math/big"

	"github.com/mathlang/mathlang/internal/expr"
)

// NativeCAS is the CAS implementation used when no external algebra
// engine is configured. It supports exactly what spec §4.2's fallback
// path promises: closed-form rational arithmetic and exponentiation by
// an integer. Equivalence decisions route through the oracle's sampling
// fallback when NativeCAS's own polynomial expansion cannot decide.
type NativeCAS struct{}

func NewNativeCAS() *NativeCAS { return &NativeCAS{} }

func (NativeCAS) ToInternal(text string) (expr.Expr, error) {
	e, err := expr.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("native CAS: %w", err)
	}
	return e, nil
}

func (c NativeCAS) Simplify(text string) (string, error) {
	e, err := c.ToInternal(text)
	if err != nil {
		return "", err
	}
	return expr.Simplify(e), nil
}

func (c NativeCAS) Evaluate(text string, env map[string]*big.Rat) (*big.Rat, bool, error) {
	e, err := c.ToInternal(text)
	if err != nil {
		return nil, false, err
	}
	free := expr.FreeSymbols(e)
	for name := range free {
		if _, bound := env[name]; !bound {
			return nil, false, nil // not_evaluatable
		}
	}
	v, err := expr.Evaluate(e, env)
	if err != nil {
		return nil, true, err
	}
	return v, true, nil
}

func (c NativeCAS) Explain(before, after string) string {
	bs, errB := c.Simplify(before)
	if errB != nil {
		bs = before
	}
	as, errA := c.Simplify(after)
	if errA != nil {
		as = after
	}
	if bs == as {
		return fmt.Sprintf("%q and %q have the same canonical form %q", before, after, bs)
	}
	return fmt.Sprintf("%q simplifies to %q; %q simplifies to %q", before, bs, after, as)
}

var _ CAS = NativeCAS{}
