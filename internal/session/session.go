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

// Package session is ambient batch-running tooling, outside the
// reasoning core spec.md §1 scopes. It demonstrates the one-oracle-per-
// evaluator rule spec §5 states abstractly: running N programs
// concurrently requires N independent oracle instances, since the core
// never assumes an oracle is safe to share across evaluators.
package session

import (
	"context"
	"sync"

	"github.com/mathlang/mathlang/internal/ast"
	"github.com/mathlang/mathlang/internal/evaluator"
	"github.com/mathlang/mathlang/internal/logger"
	"github.com/mathlang/mathlang/internal/oracle"
	"github.com/mathlang/mathlang/internal/registry"
)

// Result pairs one program's outcome with its originating index, since
// goroutine completion order doesn't match submission order.
type Result struct {
	Index   int
	Outcome evaluator.Outcome
}

// RunMany runs every program concurrently, each on its own goroutine
// with its own Evaluator, Logger, and Oracle (built fresh by factory).
// The registry is read-only and may be shared across all of them (spec
// §5: "the knowledge registry is loaded once and treated as immutable
// input"). Results are returned in the same order as programs.
func RunMany(ctx context.Context, programs []*ast.Program, reg *registry.Registry, factory func() *oracle.Oracle, opts ...evaluator.Option) []Result {
	results := make([]Result, len(programs))
	var wg sync.WaitGroup
	wg.Add(len(programs))

	for i, program := range programs {
		go func(i int, program *ast.Program) {
			defer wg.Done()
			oc := factory()
			log := logger.New()
			ev := evaluator.New(program, oc, reg, log, opts...)
			results[i] = Result{Index: i, Outcome: ev.Run(ctx)}
		}(i, program)
	}

	wg.Wait()
	return results
}
