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

package evaluator

import (
	"strconv"

	"github.com/mathlang/mathlang/internal/constants"
)

// runtimeConfig accumulates every ast.Config node's entries seen so far
// (later nodes override earlier keys on conflict) and gives the
// evaluator typed access to the handful of keys it interprets itself —
// everything else passes through to the trace record untouched.
type runtimeConfig struct {
	entries map[string]string
}

func newRuntimeConfig() *runtimeConfig {
	return &runtimeConfig{entries: map[string]string{}}
}

func (c *runtimeConfig) merge(entries map[string]string) {
	for k, v := range entries {
		c.entries[k] = v
	}
}

func (c *runtimeConfig) get(key string) (string, bool) {
	v, ok := c.entries[key]
	return v, ok
}

// checkerName reads the non-spec "checker" key (§4.6) that selects
// PolynomialChecker without inventing a fifth Mode keyword.
func (c *runtimeConfig) checkerName() (string, bool) {
	return c.get(constants.ConfigChecker)
}

// sampleDimension lets a program override the fuzzy encoder's vector
// width via config: fuzzy_dimension: N. Absent or unparsable leaves the
// evaluator's configured default alone.
func (c *runtimeConfig) sampleDimension() (int, bool) {
	v, ok := c.get(constants.ConfigFuzzyDimension)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
