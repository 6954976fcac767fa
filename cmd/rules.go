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
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/mathlang/mathlang/internal/registry"
)

// ruleRecordJSON mirrors registry.RuleRecord for file decoding. spec.md
// §1 is explicit that "file-format loaders for YAML/JSON rule bundles"
// are an external collaborator, not something the core package should
// know about, so the JSON shape lives here rather than as struct tags on
// registry.RuleRecord itself.
type ruleRecordJSON struct {
	ID                string            `json:"id"`
	Domain            string            `json:"domain"`
	Category          string            `json:"category"`
	PatternBefore     string            `json:"pattern_before"`
	PatternAfter      string            `json:"pattern_after"`
	Description       string            `json:"description"`
	RulesetConstraint string            `json:"ruleset_constraint"`
	Extra             map[string]string `json:"extra"`
}

// loadRuleBundle reads a JSON array of rule records from path. An empty
// path yields an empty bundle rather than an error, since --rules is
// optional.
func loadRuleBundle(path string) ([]registry.RuleRecord, error) {
	if path == "" {
		return nil, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading rule bundle")
	}

	var raw []ruleRecordJSON
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, errors.Wrap(err, "decoding rule bundle")
	}

	records := make([]registry.RuleRecord, len(raw))
	for i, r := range raw {
		records[i] = registry.RuleRecord{
			ID:                r.ID,
			Domain:            r.Domain,
			Category:          r.Category,
			PatternBefore:     r.PatternBefore,
			PatternAfter:      r.PatternAfter,
			Description:       r.Description,
			RulesetConstraint: r.RulesetConstraint,
			Extra:             r.Extra,
		}
	}
	return records, nil
}
