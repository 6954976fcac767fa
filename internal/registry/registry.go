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

// Package registry holds the knowledge base of named algebraic identities
// (spec §4.4) and answers "does this (before, after) pair match a known
// rule?" queries. Matching is a pure function of already-simplified
// pattern text; the registry never mutates state while answering a query.
package registry

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/mathlang/mathlang/internal/oracle"
)

// RuleRecord is the external input shape (spec §6): an already-parsed
// rule bundle entry. RulesetConstraint, when non-empty, is a semver
// range (e.g. ">=1.0.0,<2.0.0") gating which engine versions the rule
// applies under; rules outside the running engine's version are dropped
// at load time rather than silently mismatched at query time.
type RuleRecord struct {
	ID                string
	Domain            string
	Category          string
	PatternBefore     string
	PatternAfter      string
	Description       string
	RulesetConstraint string
	Extra             map[string]string
}

// Rule is a loaded, normalized RuleRecord: its patterns have already been
// run through the oracle's Simplify so matching is a plain string
// comparison.
type Rule struct {
	RuleRecord
	simplifiedBefore string
	simplifiedAfter  string
}

// Registry is immutable once built (spec §5: "the knowledge registry is
// loaded once and treated as immutable input"), so one instance may be
// shared read-only across evaluators.
type Registry struct {
	oracle *oracle.Oracle
	rules  []Rule
}

// New loads rules, normalizing each pattern with oracle.Simplify and
// filtering out any rule whose RulesetConstraint excludes engineVersion.
// A rule whose pattern fails to simplify is skipped, not an error (spec
// §4.3: registries tolerate unparsable individual rules).
func New(rules []RuleRecord, oracle *oracle.Oracle, engineVersion string) (*Registry, error) {
	var running *semver.Version
	if engineVersion != "" {
		v, err := semver.NewVersion(engineVersion)
		if err != nil {
			return nil, fmt.Errorf("registry: invalid engine version %q: %w", engineVersion, err)
		}
		running = v
	}

	reg := &Registry{oracle: oracle}
	for _, rec := range rules {
		if running != nil && rec.RulesetConstraint != "" {
			constraint, err := semver.NewConstraint(rec.RulesetConstraint)
			if err != nil {
				return nil, fmt.Errorf("registry: rule %q has invalid ruleset constraint %q: %w", rec.ID, rec.RulesetConstraint, err)
			}
			if !constraint.Check(running) {
				continue
			}
		}

		before, err := oracle.Simplify(rec.PatternBefore)
		if err != nil {
			continue
		}
		after, err := oracle.Simplify(rec.PatternAfter)
		if err != nil {
			continue
		}
		reg.rules = append(reg.rules, Rule{RuleRecord: rec, simplifiedBefore: before, simplifiedAfter: after})
	}
	return reg, nil
}

// Match returns the first declared rule whose simplified patterns equal
// simplify(before)/simplify(after), or (nil, false). If either side fails
// to simplify the query is unmatchable and Match returns (nil, false)
// without error, per spec §4.3.
func (r *Registry) Match(before, after string) (*Rule, bool) {
	sb, err := r.oracle.Simplify(before)
	if err != nil {
		return nil, false
	}
	sa, err := r.oracle.Simplify(after)
	if err != nil {
		return nil, false
	}
	for i := range r.rules {
		rule := &r.rules[i]
		if rule.simplifiedBefore == sb && rule.simplifiedAfter == sa {
			return rule, true
		}
	}
	return nil, false
}

// Without returns a copy of the registry with the named rule id removed,
// used by testable-property checks that verify rule attribution never
// changes step validity (spec §8, property 3).
func (r *Registry) Without(ruleID string) *Registry {
	out := &Registry{oracle: r.oracle}
	for _, rule := range r.rules {
		if rule.ID != ruleID {
			out.rules = append(out.rules, rule)
		}
	}
	return out
}

// Len reports how many rules are loaded (post version-filter, post
// skip-on-unparsable-pattern).
func (r *Registry) Len() int { return len(r.rules) }
