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
	"math/big"
	"sort"

	"github.com/mathlang/mathlang/internal/expr"
)

// sampleBases is the fixed, deterministic sample set used by IsEquiv's
// numeric fallback: the first ten primes (spec §4.2/§9 resolved open
// question). Each of the five assignments binds every free variable (in
// sorted name order) to sampleBases[(i+offset) % len(sampleBases)] for a
// rotating offset, so repeated variables in one expression still get
// varied values across assignments without needing per-variable RNG
// state (which would break determinism across re-runs).
var sampleBases = []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29}

const sampleAssignments = 5

const sampleTolerance = 1e-9

// Oracle is the evaluator-facing equivalence decision surface. It wraps a
// CAS, adding the mandatory numeric-sampling fallback and a Simplify
// cache; it never needs a context for cancellation because every
// operation is required to be synchronous and boundedly fast (spec §5).
type Oracle struct {
	cas   CAS
	cache *simplifyCache
}

// New wraps cas; a nil cas is replaced by NativeCAS. cacheSize controls
// the number of distinct expression texts whose Simplify result is
// memoized; pass 0 to disable caching.
func New(cas CAS, cacheSize int) *Oracle {
	if cas == nil {
		cas = NativeCAS{}
	}
	o := &Oracle{cas: cas}
	if cacheSize > 0 {
		o.cache = newSimplifyCache(cacheSize)
	}
	return o
}

func (o *Oracle) ToInternal(text string) (expr.Expr, error) { return o.cas.ToInternal(text) }

func (o *Oracle) Evaluate(text string, env map[string]*big.Rat) (*big.Rat, bool, error) {
	return o.cas.Evaluate(text, env)
}

func (o *Oracle) Explain(before, after string) string { return o.cas.Explain(before, after) }

// Simplify returns the CAS's canonical form, memoized by raw text.
func (o *Oracle) Simplify(text string) (string, error) {
	if o.cache == nil {
		return o.cas.Simplify(text)
	}
	if v, ok := o.cache.get(text); ok {
		return v, nil
	}
	v, err := o.cas.Simplify(text)
	if err != nil {
		return "", err
	}
	o.cache.put(text, v)
	return v, nil
}

// IsEquiv decides whether a and b are equal over their combined free
// variables. It first tries simplify(a − b) == 0; if the CAS cannot
// reduce that difference to a decidable polynomial form, it falls back
// to evaluating both sides at sampleAssignments deterministic bindings
// and comparing within sampleTolerance, skipping (not failing) any
// assignment that divides by zero. Returns false when an evaluated
// assignment differs, and also when every sample assignment was skipped.
func (o *Oracle) IsEquiv(a, b string) (bool, error) {
	ea, err := o.cas.ToInternal(a)
	if err != nil {
		return false, err
	}
	eb, err := o.cas.ToInternal(b)
	if err != nil {
		return false, err
	}

	diff := expr.Add{Terms: []expr.Expr{ea, expr.Neg{Inner: eb}}}
	if zero, ok := expr.IsIdenticallyZero(diff); ok {
		return zero, nil
	}

	return o.sampleEquiv(a, b, ea, eb)
}

// sampleEquiv evaluates both sides through o.cas.Evaluate rather than
// calling internal/expr's Evaluate directly, so a GojaCAS's float64
// backend (or any other pluggable CAS) actually participates in the
// decision instead of every equivalence check silently falling back to
// exact big.Rat arithmetic regardless of --cas.
func (o *Oracle) sampleEquiv(aText, bText string, a, b expr.Expr) (bool, error) {
	names := sortedUnion(expr.FreeSymbols(a), expr.FreeSymbols(b))
	if len(names) == 0 {
		av, _, err := o.cas.Evaluate(aText, nil)
		if err != nil {
			return false, err
		}
		bv, _, err := o.cas.Evaluate(bText, nil)
		if err != nil {
			return false, err
		}
		return av.Cmp(bv) == 0, nil
	}

	decided := false
	for offset := 0; offset < sampleAssignments; offset++ {
		env := make(map[string]*big.Rat, len(names))
		for i, name := range names {
			base := sampleBases[(i+offset)%len(sampleBases)]
			env[name] = new(big.Rat).SetInt64(base)
		}
		av, okA, errA := o.cas.Evaluate(aText, env)
		if errA == expr.ErrDivByZero {
			continue
		}
		if errA != nil {
			return false, errA
		}
		if !okA {
			continue
		}
		bv, okB, errB := o.cas.Evaluate(bText, env)
		if errB == expr.ErrDivByZero {
			continue
		}
		if errB != nil {
			return false, errB
		}
		if !okB {
			continue
		}
		decided = true
		if !withinTolerance(av, bv) {
			return false, nil
		}
	}
	return decided, nil
}

func withinTolerance(a, b *big.Rat) bool {
	return WithinTolerance(a, b)
}

// WithinTolerance reports whether a and b differ by no more than the
// oracle's fixed sampling tolerance. Exported so callers comparing two
// evaluate results directly (e.g. the evaluator's prepare-binding
// substitution check, spec §4.5) don't need to redeclare the constant.
func WithinTolerance(a, b *big.Rat) bool {
	diff := new(big.Rat).Sub(a, b)
	diff.Abs(diff)
	tol := big.NewRat(1, 1)
	tol.SetFloat64(sampleTolerance)
	return diff.Cmp(tol) <= 0
}

func sortedUnion(a, b map[string]struct{}) []string {
	set := map[string]struct{}{}
	for k := range a {
		set[k] = struct{}{}
	}
	for k := range b {
		set[k] = struct{}{}
	}
	names := make([]string, 0, len(set))
	for k := range set {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
