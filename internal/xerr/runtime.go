// SPDX-License-Identifier: Apache-2.0
//
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

// Package xerr holds the MathLang error taxonomy (spec §7): one sentinel
// type per kind, checkable with errors.As. The state-machine and
// invalid-expression constructors add a stack trace with
// github.com/pkg/errors and ErrOracleInternal wraps with it; the other
// constructors return the bare value.
package xerr

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/mathlang/mathlang/internal/tokens"
)

// SyntaxError is always fatal; emitted before any program node runs.
type SyntaxError struct {
	Line   int
	Reason string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d: %s", e.Line, e.Reason)
}

func ErrSyntax(line int, reason string, args ...any) error {
	return SyntaxError{Line: line, Reason: fmt.Sprintf(reason, args...)}
}

// State-machine violations, all fatal.

type MissingProblemError struct{}

func (e MissingProblemError) Error() string { return "no problem has been declared" }

func ErrMissingProblem() error { return errors.WithStack(MissingProblemError{}) }

type DuplicateProblemError struct{}

func (e DuplicateProblemError) Error() string { return "a problem has already been declared" }

func ErrDuplicateProblem() error { return errors.WithStack(DuplicateProblemError{}) }

type StepBeforeProblemError struct{}

func (e StepBeforeProblemError) Error() string { return "step encountered before problem" }

func ErrStepBeforeProblem() error { return errors.WithStack(StepBeforeProblemError{}) }

type ExplainBeforeProblemError struct{}

func (e ExplainBeforeProblemError) Error() string { return "explain encountered before problem" }

func ErrExplainBeforeProblem() error { return errors.WithStack(ExplainBeforeProblemError{}) }

type EndBeforeProblemError struct{}

func (e EndBeforeProblemError) Error() string { return "end encountered before problem" }

func ErrEndBeforeProblem() error { return errors.WithStack(EndBeforeProblemError{}) }

type ProgramDidNotEndError struct{}

func (e ProgramDidNotEndError) Error() string { return "program did not reach an end statement" }

func ErrProgramDidNotEnd() error { return errors.WithStack(ProgramDidNotEndError{}) }

// InvalidExpressionError: oracle ToInternal failure on a supplied string.
// Recoverable for rule matching (skip the rule); fatal on a step expression.
type InvalidExpressionError struct{ Text string }

func (e InvalidExpressionError) Error() string {
	return fmt.Sprintf("invalid expression: %q", e.Text)
}

func ErrInvalidExpression(text string) error {
	return errors.WithStack(InvalidExpressionError{Text: text})
}

// InvalidStepError: equivalence check returned false. Recoverable.
type InvalidStepError struct {
	Expected, Actual string
}

func (e InvalidStepError) Error() string {
	return fmt.Sprintf("step is not equivalent: expected %q, got %q", e.Expected, e.Actual)
}

func ErrInvalidStep(expected, actual string) error {
	return InvalidStepError{Expected: expected, Actual: actual}
}

// InconsistentEndError: End equivalence check failed. Recoverable.
type InconsistentEndError struct {
	Expected, Actual string
}

func (e InconsistentEndError) Error() string {
	return fmt.Sprintf("end is not equivalent to current expression: expected %q, got %q", e.Expected, e.Actual)
}

func ErrInconsistentEnd(expected, actual string) error {
	return InconsistentEndError{Expected: expected, Actual: actual}
}

// NotEvaluatableError: evaluate sentinel during prepare. Info-level.
type NotEvaluatableError struct{ Text string }

func (e NotEvaluatableError) Error() string {
	return fmt.Sprintf("expression not evaluatable: %q", e.Text)
}

func ErrNotEvaluatable(text string) error {
	return NotEvaluatableError{Text: text}
}

// OracleInternalError: any other failure from the oracle. Fatal, carries
// the oracle's message verbatim.
type OracleInternalError struct{ Message string }

func (e OracleInternalError) Error() string {
	return fmt.Sprintf("oracle internal error: %s", e.Message)
}

func ErrOracleInternal(cause error) error {
	return errors.Wrap(OracleInternalError{Message: cause.Error()}, "oracle")
}

// ConflictError marks an overlapping/ambiguous source span. The parser
// does not use it: a repeated key in a block statement overwrites the
// earlier value.
type ConflictError struct {
	What        string
	Where, With tokens.Range
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s at %s with %s", e.What, e.Where.String(), e.With.String())
}

func ErrConflict(what string, where, with tokens.Range) error {
	return ConflictError{What: what, Where: where, With: with}
}
