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

package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCosine_SelfSimilarityIsOne(t *testing.T) {
	enc := NewEncoder(DefaultDimension)
	v := enc.EncodeExpr("x + 1", "x + 1")
	require.InDelta(t, 1.0, Cosine(v, v), 1e-9)
}

func TestCosine_ClampedToUnitInterval(t *testing.T) {
	enc := NewEncoder(DefaultDimension)
	a := enc.EncodeExpr("x + 1", "x + 1")
	b := enc.EncodeExpr("y * 9", "y*9")
	sim := Cosine(a, b)
	require.GreaterOrEqual(t, sim, 0.0)
	require.LessOrEqual(t, sim, 1.0)
}

func TestCosine_BothZeroVectorsAreIdentical(t *testing.T) {
	enc := NewEncoder(DefaultDimension)
	a := enc.EncodeExpr("", "")
	b := enc.EncodeExpr("", "")
	require.Equal(t, 1.0, Cosine(a, b))
}

// TestScore_SelfSimilarityExceedsExactThreshold is spec §8 property 5:
// similarity between an expression and itself is >= 0.99 with the
// default encoder. This is the expression similarity; the combined score
// has no text component here (no explain text) and so stays below 0.99.
func TestScore_SelfSimilarityExceedsExactThreshold(t *testing.T) {
	j := New(NewEncoder(DefaultDimension))
	result := j.Score("8 * 4", "32", "8 * 4", "32", RuleMatching, "")
	require.GreaterOrEqual(t, result.ExprSim, 0.99)
	require.Equal(t, LabelExact, j.Thresholds.label(result.ExprSim))
}

func TestScore_BoundedAndLabeled(t *testing.T) {
	j := New(NewEncoder(DefaultDimension))
	cases := []struct {
		prevRaw, prevCanon, candRaw, candCanon string
		agreement                              RuleAgreement
		explain                                string
	}{
		{"1 + 1", "2", "3", "3", RuleUnknown, ""},
		{"x^2 + 3*x + 2", "x^2+3*x+2", "x^2 + 3*x + 2", "x^2+3*x+2", RuleMatching, "same form"},
		{"x + y", "x+y", "y - x", "y-x", RuleDiffering, "flipped sign"},
	}
	for _, tc := range cases {
		result := j.Score(tc.prevRaw, tc.prevCanon, tc.candRaw, tc.candCanon, tc.agreement, tc.explain)
		require.GreaterOrEqual(t, result.Combined, 0.0)
		require.LessOrEqual(t, result.Combined, 1.0)
		require.NotEmpty(t, result.Label)
	}
}

func TestScore_TextSimZeroWithoutExplain(t *testing.T) {
	j := New(NewEncoder(DefaultDimension))
	result := j.Score("1 + 1", "2", "3", "3", RuleUnknown, "")
	require.Equal(t, 0.0, result.TextSim)
}

func TestScore_CombinedWeighting(t *testing.T) {
	j := New(NewEncoder(DefaultDimension))
	result := j.Score("8 * 4", "32", "8 * 4", "32", RuleMatching, "")
	expected := 0.6*result.ExprSim + 0.2*result.RuleSim + 0.2*result.TextSim
	require.InDelta(t, expected, result.Combined, 1e-9)
}

func TestThresholds_LabelPartitionIsTotal(t *testing.T) {
	th := DefaultThresholds()
	for _, combined := range []float64{1.0, 0.99, 0.97, 0.9, 0.7, 0.3, 0.1, 0.0, -0.1} {
		label := th.label(combined)
		require.NotEmpty(t, label)
	}
}

func TestRuleAgreement_Score(t *testing.T) {
	require.Equal(t, 0.0, RuleUnknown.score())
	require.Equal(t, 0.5, RuleDiffering.score())
	require.Equal(t, 1.0, RuleMatching.score())
}
