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

// Label is one of the fixed similarity classes of spec §4.4.
type Label string

const (
	LabelExact      Label = "EXACT"
	LabelEquivalent Label = "EQUIVALENT"
	LabelApproxEq   Label = "APPROX_EQ"
	LabelAnalogous  Label = "ANALOGOUS"
	LabelContradict Label = "CONTRADICT"
	LabelUnknown    Label = "UNKNOWN"
)

// Thresholds gates the Label chosen for a combined score; the zero value
// is NOT usable — use DefaultThresholds.
type Thresholds struct {
	Exact      float64
	Equivalent float64
	ApproxEq   float64
	Analogous  float64
	Contradict float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{Exact: 0.99, Equivalent: 0.95, ApproxEq: 0.80, Analogous: 0.60, Contradict: 0.20}
}

// RuleAgreement classifies how two steps' rule attributions relate,
// feeding the 0.2-weighted rule_sim term.
type RuleAgreement int

const (
	RuleUnknown RuleAgreement = iota
	RuleDiffering
	RuleMatching
)

func (r RuleAgreement) score() float64 {
	switch r {
	case RuleMatching:
		return 1.0
	case RuleDiffering:
		return 0.5
	default:
		return 0.0
	}
}

// Result is the outcome of one Judge.Score call.
type Result struct {
	ExprSim  float64
	RuleSim  float64
	TextSim  float64
	Combined float64
	Label    Label
}

// Judge scores a (previous, candidate) pair of steps. It never
// influences validity — the evaluator decides status independently via
// the oracle — and exists purely to label a trace record.
type Judge struct {
	Encoder    *Encoder
	Thresholds Thresholds
}

func New(encoder *Encoder) *Judge {
	return &Judge{Encoder: encoder, Thresholds: DefaultThresholds()}
}

// Score compares previous/candidate expression text (raw + oracle
// canonical form), a rule-attribution agreement, and optional explain
// text, combining them as 0.6*expr_sim + 0.2*rule_sim + 0.2*text_sim.
func (j *Judge) Score(prevRaw, prevCanonical, candRaw, candCanonical string, agreement RuleAgreement, explainText string) Result {
	exprSim := Cosine(j.Encoder.EncodeExpr(prevRaw, prevCanonical), j.Encoder.EncodeExpr(candRaw, candCanonical))
	ruleSim := agreement.score()
	textSim := 0.0
	if explainText != "" {
		textSim = Cosine(j.Encoder.EncodeExpr(candRaw, candCanonical), j.Encoder.EncodeText(explainText))
	}

	combined := 0.6*exprSim + 0.2*ruleSim + 0.2*textSim
	return Result{
		ExprSim:  exprSim,
		RuleSim:  ruleSim,
		TextSim:  textSim,
		Combined: combined,
		Label:    j.Thresholds.label(combined),
	}
}

func (t Thresholds) label(combined float64) Label {
	switch {
	case combined >= t.Exact:
		return LabelExact
	case combined >= t.Equivalent:
		return LabelEquivalent
	case combined >= t.ApproxEq:
		return LabelApproxEq
	case combined >= t.Analogous:
		return LabelAnalogous
	case combined <= t.Contradict:
		return LabelContradict
	default:
		return LabelUnknown
	}
}
