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
	"fmt"
	"strings"

	"github.com/mitchellh/hashstructure/v2"
)

// Encoder turns expression or context text into a fixed-dimension Vector
// using a hashing trick: every distinguishing feature (the raw text, the
// canonicalized text, each whitespace-split token) is hashed to a slot
// index and a sign, so the same text always produces the same vector
// with no training step and no external vocabulary.
type Encoder struct {
	Dim int
}

func NewEncoder(dim int) *Encoder {
	if dim <= 0 {
		dim = DefaultDimension
	}
	return &Encoder{Dim: dim}
}

// EncodeExpr encodes an expression's raw surface text together with its
// oracle-canonicalized form and its token sequence (spec §4.4).
func (e *Encoder) EncodeExpr(raw, canonical string) Vector {
	v := make(Vector, e.Dim)
	e.fold(v, "raw", raw)
	e.fold(v, "canon", canonical)
	for i, tok := range strings.Fields(raw) {
		e.fold(v, fmt.Sprintf("tok%d", i), tok)
	}
	return v
}

// EncodeText encodes free text (e.g. an explain node's body) using the
// same hashing scheme, on the text alone.
func (e *Encoder) EncodeText(text string) Vector {
	v := make(Vector, e.Dim)
	e.fold(v, "text", text)
	for i, tok := range strings.Fields(text) {
		e.fold(v, fmt.Sprintf("tok%d", i), tok)
	}
	return v
}

func (e *Encoder) fold(v Vector, field, value string) {
	if value == "" {
		return
	}
	h, err := hashstructure.Hash(field+"|"+value, hashstructure.FormatV2, nil)
	if err != nil {
		// hashstructure only errors on unhashable Go types; a string
		// key can never trigger this.
		panic(fmt.Sprintf("fuzzy: hashing %q: %v", value, err))
	}
	idx := int(h % uint64(len(v)))
	sign := 1.0
	if (h>>1)&1 == 1 {
		sign = -1.0
	}
	v[idx] += sign
}
