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

// Package oracle wraps a computer-algebra backend behind a narrow,
// swappable interface (spec §4.2). The evaluator never talks to a CAS
// directly; it only ever calls through an Oracle, which adds the
// deterministic numeric-sampling fallback and a simplify cache. Errors
// from the CAS are returned unchanged, not translated into xerr types.
package oracle

import (
	"math/big"

	"github.com/mathlang/mathlang/internal/expr"
)

// CAS is the pluggable computer-algebra backend. Implementations MUST be
// safe to call repeatedly but are NOT required to be safe for concurrent
// use from multiple goroutines — callers needing parallelism must use one
// Oracle (and therefore one CAS) per evaluator (spec §5).
type CAS interface {
	// ToInternal parses text into the expression tree. It returns an
	// error for malformed input; the Oracle passes that error through
	// as is.
	ToInternal(text string) (expr.Expr, error)

	// Simplify returns a canonical string form for text.
	Simplify(text string) (string, error)

	// Evaluate substitutes env into text and reduces to a value. ok is
	// false exactly when the expression still has unbound free symbols
	// after substitution (the "not_evaluatable" sentinel of spec §4.2);
	// err is non-nil for genuine evaluation failures (e.g. division by
	// zero), which is distinct from "not evaluatable".
	Evaluate(text string, env map[string]*big.Rat) (value *big.Rat, ok bool, err error)

	// Explain produces a short, logging-only human-readable diff. No
	// semantics depend on its output.
	Explain(before, after string) string
}
