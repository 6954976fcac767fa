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

// Package evaluator runs a parsed program against an oracle and registry,
// emitting the canonical trace (spec §4.5). It is single-threaded and
// synchronous: one Evaluator processes one Program to completion on the
// calling goroutine, matching spec §5's concurrency model.
package evaluator

import (
	"context"
	"fmt"
	"math/big"

	"github.com/mathlang/mathlang/internal/ast"
	"github.com/mathlang/mathlang/internal/fuzzy"
	"github.com/mathlang/mathlang/internal/logger"
	"github.com/mathlang/mathlang/internal/oracle"
	"github.com/mathlang/mathlang/internal/registry"
	"github.com/mathlang/mathlang/internal/xerr"
)

// State is one node of the spec §4.5 state machine, plus StateFatal for
// the terminal non-END state a fatal record leaves the run in.
type State int

const (
	StateInit State = iota
	StateProblemSet
	StateStepRun
	StateEnd
	StateFatal
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateProblemSet:
		return "PROBLEM_SET"
	case StateStepRun:
		return "STEP_RUN"
	case StateEnd:
		return "END"
	case StateFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Outcome is what Run returns: the final state, the complete trace, and
// the error that caused a fatal stop, if any.
type Outcome struct {
	State   State
	Records []logger.Record
	Err     error
}

// Evaluator executes one ast.Program. It is not safe for concurrent use;
// run several programs concurrently by constructing one Evaluator (and,
// per spec §5, one Oracle) each.
type Evaluator struct {
	program  *ast.Program
	oracle   *oracle.Oracle
	registry *registry.Registry
	logger   *logger.Logger

	checker StepChecker
	judge   *fuzzy.Judge
	mode    ast.ModeKind
	config  *runtimeConfig

	bindings   map[string]*big.Rat
	current    string
	lastRuleID string
	state      State
}

// Option configures an Evaluator at construction time.
type Option func(*Evaluator)

// WithStepChecker overrides the default oracle-backed checker, e.g. with
// PolynomialChecker (spec §4.6).
func WithStepChecker(c StepChecker) Option {
	return func(e *Evaluator) { e.checker = c }
}

// WithJudge overrides the default fuzzy judge (its encoder dimension, its
// thresholds).
func WithJudge(j *fuzzy.Judge) Option {
	return func(e *Evaluator) { e.judge = j }
}

// WithMode sets the evaluator's initial mode, for callers that don't rely
// on a Mode DSL node to set it.
func WithMode(m ast.ModeKind) Option {
	return func(e *Evaluator) { e.mode = m }
}

// New constructs an Evaluator ready to Run program. registry may be nil
// (no rule attribution, just equivalence checking).
func New(program *ast.Program, oc *oracle.Oracle, reg *registry.Registry, log *logger.Logger, opts ...Option) *Evaluator {
	e := &Evaluator{
		program:  program,
		oracle:   oc,
		registry: reg,
		logger:   log,
		checker:  oracleChecker{oracle: oc},
		judge:    fuzzy.New(fuzzy.NewEncoder(fuzzy.DefaultDimension)),
		mode:     ast.ModeStrict,
		config:   newRuntimeConfig(),
		bindings: map[string]*big.Rat{},
		state:    StateInit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes every statement in program order, returning once the
// program reaches END, hits a fatal error, or ctx is cancelled. Ctx
// cancellation is checked only between statements (spec §5: "no
// suspension points... cancellation is cooperative only"); any records
// already appended remain well-formed.
func (e *Evaluator) Run(ctx context.Context) Outcome {
	for _, stmt := range e.program.Statements {
		if ctx.Err() != nil {
			break
		}
		if err := e.step(stmt); err != nil {
			e.state = StateFatal
			return Outcome{State: e.state, Records: e.logger.Records(), Err: err}
		}
	}

	if e.state != StateEnd {
		err := xerr.ErrProgramDidNotEnd()
		e.logger.Append(logger.PhaseEnd, logger.StatusFatal, e.current, "", "", map[string]any{"reason": err.Error()})
		e.state = StateFatal
		return Outcome{State: e.state, Records: e.logger.Records(), Err: err}
	}
	return Outcome{State: e.state, Records: e.logger.Records()}
}

// step dispatches one program node. The switch is exhaustive over
// ast.Statement's sum type; an unhandled variant is a programming error,
// not a data error, so it panics rather than returning an error.
func (e *Evaluator) step(stmt ast.Statement) error {
	switch t := stmt.(type) {
	case *ast.Problem:
		return e.runProblem(t)
	case *ast.Step:
		return e.runStepNode(t)
	case *ast.End:
		return e.runEnd(t)
	case *ast.Explain:
		return e.runExplain(t)
	case *ast.Meta:
		e.logger.Append(logger.PhaseMeta, logger.StatusOK, "", "", "", copyStringMap(t.Entries))
		return nil
	case *ast.Config:
		return e.runConfig(t)
	case *ast.Mode:
		e.mode = t.Kind
		e.logger.Append(logger.PhaseMode, logger.StatusOK, "", string(t.Kind), "", nil)
		return nil
	case *ast.Prepare:
		return e.runPrepare(t)
	case *ast.Counterfactual:
		return e.runCounterfactual(t)
	default:
		panic(fmt.Sprintf("evaluator: unhandled statement %T", stmt))
	}
}

func (e *Evaluator) runProblem(p *ast.Problem) error {
	if e.state != StateInit {
		err := xerr.ErrDuplicateProblem()
		e.logger.Append(logger.PhaseProblem, logger.StatusFatal, p.Expression, "", "", map[string]any{"error": err.Error()})
		return err
	}
	e.current = p.Expression
	e.logger.Append(logger.PhaseProblem, logger.StatusOK, p.Expression, p.Expression, "", nil)
	e.state = StateProblemSet
	return nil
}

func (e *Evaluator) runExplain(ex *ast.Explain) error {
	if e.state == StateInit {
		err := xerr.ErrExplainBeforeProblem()
		e.logger.Append(logger.PhaseExplain, logger.StatusFatal, "", ex.Text, "", map[string]any{"error": err.Error()})
		return err
	}
	meta := map[string]any{}
	if ex.TargetNodeID != "" {
		meta["target_node_id"] = ex.TargetNodeID
	}
	e.logger.Append(logger.PhaseExplain, logger.StatusOK, "", ex.Text, "", meta)
	return nil
}

func (e *Evaluator) runConfig(c *ast.Config) error {
	e.config.merge(c.Entries)
	if name, ok := e.config.checkerName(); ok {
		switch name {
		case "polynomial":
			e.checker = PolynomialChecker{}
		case "oracle":
			e.checker = oracleChecker{oracle: e.oracle}
		}
	}
	if dim, ok := e.config.sampleDimension(); ok {
		e.judge = fuzzy.New(fuzzy.NewEncoder(dim))
	}
	e.logger.Append(logger.PhaseConfig, logger.StatusOK, "", "", "", copyStringMap(c.Entries))
	return nil
}

// checkEquivalent implements the prepare-binding fast path of spec §4.5:
// if every free symbol on both sides evaluates under the current
// bindings, compare the two numeric results directly; otherwise fall
// back to the configured StepChecker over the raw expression text.
func (e *Evaluator) checkEquivalent(candidate string) (bool, error) {
	if len(e.bindings) > 0 {
		cv, cok, err := e.oracle.Evaluate(e.current, e.bindings)
		if err != nil {
			return false, err
		}
		if cok {
			nv, nok, err := e.oracle.Evaluate(candidate, e.bindings)
			if err != nil {
				return false, err
			}
			if nok {
				return oracle.WithinTolerance(cv, nv), nil
			}
		}
	}
	return e.checker.Check(e.current, candidate)
}

func copyStringMap(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
