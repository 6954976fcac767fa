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

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/binaek/cling"
	"github.com/pkg/errors"

	"github.com/mathlang/mathlang/internal/ast"
	"github.com/mathlang/mathlang/internal/causal"
	"github.com/mathlang/mathlang/internal/evaluator"
	"github.com/mathlang/mathlang/internal/logger"
	"github.com/mathlang/mathlang/internal/oracle"
	"github.com/mathlang/mathlang/internal/parser"
	"github.com/mathlang/mathlang/internal/registry"
)

func addRunCmd(cli *cling.CLI) {
	cli.WithCommand(
		cling.NewCommand("run", runCmd).
			WithFlag(cling.NewStringCmdInput("file").
				WithDefault("").
				WithDescription("Path to a .mathlang source file").
				AsFlag(),
			).
			WithFlag(cling.NewStringCmdInput("code").
				WithDefault("").
				WithDescription("Inline MathLang source").
				AsFlag(),
			).
			WithFlag(cling.NewStringCmdInput("scenario").
				WithDefault("").
				WithDescription("Run one of the built-in demo scenarios instead of --file/--code").
				AsFlag(),
			).
			WithFlag(cling.NewStringCmdInput("mode").
				WithDefault("symbolic").
				WithValidator(cling.NewEnumValidator("symbolic", "polynomial", "causal")).
				WithDescription("Evaluation mode. One of: symbolic, polynomial, causal").
				AsFlag(),
			).
			WithFlag(cling.NewStringCmdInput("counterfactual").
				WithDefault("").
				WithDescription("JSON array of interventions to re-run against the produced trace").
				AsFlag(),
			).
			WithFlag(cling.NewStringCmdInput("cas").
				WithDefault("native").
				WithValidator(cling.NewEnumValidator("native", "goja")).
				WithDescription("Computer-algebra backend. One of: native, goja").
				AsFlag(),
			).
			WithFlag(cling.NewStringCmdInput("rules").
				WithDefault("").
				WithDescription("Path to a JSON rule-bundle file").
				AsFlag(),
			).
			WithFlag(cling.NewStringCmdInput("ruleset-version").
				WithDefault("").
				WithDescription("Engine version used to gate ruleset_version-constrained rules").
				AsFlag(),
			).
			WithFlag(cling.NewStringCmdInput("output").
				WithDefault("text").
				WithValidator(cling.NewEnumValidator("text", "json")).
				WithDescription("Output format. One of: text, json").
				AsFlag(),
			),
	)
}

type runCmdArgs struct {
	File           string `cling-name:"file"`
	Code           string `cling-name:"code"`
	Scenario       string `cling-name:"scenario"`
	Mode           string `cling-name:"mode"`
	Counterfactual string `cling-name:"counterfactual"`
	CAS            string `cling-name:"cas"`
	Rules          string `cling-name:"rules"`
	RulesetVersion string `cling-name:"ruleset-version"`
	Output         string `cling-name:"output"`
}

// runCmdExitError wraps the cause when the program itself didn't reach
// END (exit 1, spec.md §6). main.go does not tell it apart from other
// errors: every error from Execute exits with status 1.
type runCmdExitError struct{ cause error }

func (e runCmdExitError) Error() string { return e.cause.Error() }
func (e runCmdExitError) Unwrap() error { return e.cause }

func runCmd(ctx context.Context, args []string) error {
	input := runCmdArgs{}
	if err := cling.Hydrate(ctx, args, &input); err != nil {
		return err
	}

	source, reference, err := resolveSource(input)
	if err != nil {
		return err
	}

	program, err := parser.ParseString(source, reference)
	if err != nil {
		return errors.Wrap(err, "parsing program")
	}

	oc, err := buildOracle(input.CAS)
	if err != nil {
		return errors.Wrap(err, "building oracle")
	}

	ruleRecords, err := loadRuleBundle(input.Rules)
	if err != nil {
		return err
	}
	reg, err := registry.New(ruleRecords, oc, input.RulesetVersion)
	if err != nil {
		return errors.Wrap(err, "building registry")
	}

	opts := modeOptions(input.Mode)
	log := logger.New()
	ev := evaluator.New(program, oc, reg, log, opts...)
	outcome := ev.Run(ctx)

	printRecords(input.Output, outcome.Records)

	if input.Mode == "causal" {
		printCausalSummary(outcome.Records)
	}

	if input.Counterfactual != "" {
		if err := printCounterfactualSummary(input.Counterfactual, outcome.Records, oc, reg); err != nil {
			return err
		}
	}

	if outcome.Err != nil || outcome.State != evaluator.StateEnd {
		return runCmdExitError{cause: fmt.Errorf("program did not reach END cleanly (state=%s)", outcome.State)}
	}
	return nil
}

// resolveSource enforces --file/--code mutual exclusion and the
// --scenario alternative (spec.md §6's CLI contract plus the ambient
// scenario-loader extension).
func resolveSource(input runCmdArgs) (source, reference string, err error) {
	provided := 0
	if input.File != "" {
		provided++
	}
	if input.Code != "" {
		provided++
	}
	if input.Scenario != "" {
		provided++
	}
	if provided == 0 {
		return "", "", errors.New("one of --file, --code, or --scenario is required")
	}
	if provided > 1 {
		return "", "", errors.New("--file, --code, and --scenario are mutually exclusive")
	}

	switch {
	case input.Scenario != "":
		src, ok := builtinScenarios[input.Scenario]
		if !ok {
			names := make([]string, 0, len(builtinScenarios))
			for name := range builtinScenarios {
				names = append(names, name)
			}
			sort.Strings(names)
			return "", "", fmt.Errorf("unknown scenario %q (known: %v)", input.Scenario, names)
		}
		return src, "scenario:" + input.Scenario, nil
	case input.File != "":
		content, err := os.ReadFile(input.File)
		if err != nil {
			return "", "", errors.Wrap(err, "reading --file")
		}
		return string(content), input.File, nil
	default:
		return input.Code, "inline", nil
	}
}

func buildOracle(cas string) (*oracle.Oracle, error) {
	const cacheSize = 256
	switch cas {
	case "goja":
		backend, err := oracle.NewGojaCAS(4)
		if err != nil {
			return nil, err
		}
		return oracle.New(backend, cacheSize), nil
	default:
		return oracle.New(oracle.NewNativeCAS(), cacheSize), nil
	}
}

// modeOptions maps the CLI's spec.md §6 literal mode names onto the
// evaluator's options. "polynomial" selects PolynomialChecker (spec
// §4.6's checker-swap variant, not an ast.ModeKind value); "causal" sets
// the evaluator's initial ast.ModeKind so fuzzy-on-mismatch records flow
// even before any in-program mode: statement would set it.
func modeOptions(mode string) []evaluator.Option {
	switch mode {
	case "polynomial":
		return []evaluator.Option{evaluator.WithStepChecker(evaluator.PolynomialChecker{})}
	case "causal":
		return []evaluator.Option{evaluator.WithMode(ast.ModeCausal)}
	default:
		return nil
	}
}

func printRecords(output string, records []logger.Record) {
	if output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(records)
		return
	}
	for _, rec := range records {
		rendered := rec.Rendered
		if rendered == "" {
			rendered = rec.Expression
		}
		fmt.Printf("[%d] %-14s %-8s %s\n", rec.StepIndex, rec.Phase, rec.Status, rendered)
	}
}

func printCausalSummary(records []logger.Record) {
	graph := causal.Build(records)
	var errorNodes []causal.Node
	for _, n := range graph.Nodes() {
		if n.Type == causal.NodeError {
			errorNodes = append(errorNodes, n)
		}
	}
	if len(errorNodes) == 0 {
		fmt.Println("\ncausal analysis: no error nodes")
		return
	}

	fmt.Println("\ncausal analysis:")
	for _, errNode := range errorNodes {
		fmt.Printf("  error %s:\n", errNode.ID)
		for _, cause := range graph.WhyError(errNode.ID) {
			fmt.Printf("    cause: %s (%s)\n", cause.ID, cause.Type)
		}
		for _, fix := range graph.SuggestFixCandidates(errNode.ID, 3) {
			fmt.Printf("    suggested fix: %s\n", fix.ID)
		}
	}
}

func printCounterfactualSummary(raw string, records []logger.Record, oc *oracle.Oracle, reg *registry.Registry) error {
	var interventions []causal.Intervention
	if err := json.Unmarshal([]byte(raw), &interventions); err != nil {
		return errors.Wrap(err, "decoding --counterfactual")
	}

	report := causal.CounterfactualResult(interventions, records, oc, reg)
	fmt.Printf("\ncounterfactual: changed=%t rerun_success=%t new_end_expr=%q\n",
		report.Changed, report.RerunSuccess, report.FinalEndExpression)
	if report.RerunError != nil {
		fmt.Printf("  rerun error: %s\n", report.RerunError)
	}
	for _, d := range report.DiffSteps {
		fmt.Printf("  diff step[%d] %s: %q -> %q\n", d.Index, d.Action, d.OldExpression, d.NewExpression)
	}
	for _, d := range report.DiffEnd {
		fmt.Printf("  diff end[%d] %s: %q -> %q\n", d.Index, d.Action, d.OldExpression, d.NewExpression)
	}
	return nil
}
