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

package causal

import (
	"sort"

	"github.com/mathlang/mathlang/internal/logger"
)

type rankedNode struct {
	depth int
	order int
	node  Node
}

// WhyError does a BFS over incoming edges from errorID, collecting only
// step and rule_application ancestors, ranked first by shortest path then
// by later trace position (spec §4.7).
func (g *Graph) WhyError(errorID string) []Node {
	if _, ok := g.Node(errorID); !ok {
		return nil
	}

	type queued struct {
		id    string
		depth int
	}
	visited := map[string]struct{}{errorID: {}}
	queue := []queued{{id: errorID, depth: 0}}
	var ranked []rankedNode

	g.mu.RLock()
	order := g.order
	nodes := g.nodes
	inEdges := g.inEdges
	g.mu.RUnlock()

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, edge := range inEdges[cur.id] {
			parentID := edge.Source
			if _, ok := visited[parentID]; ok {
				continue
			}
			visited[parentID] = struct{}{}
			queue = append(queue, queued{id: parentID, depth: cur.depth + 1})
			parent := nodes[parentID]
			if parent.Type == NodeStep || parent.Type == NodeRuleApplication {
				ranked = append(ranked, rankedNode{depth: cur.depth + 1, order: order[parentID], node: parent})
			}
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].depth != ranked[j].depth {
			return ranked[i].depth < ranked[j].depth
		}
		return ranked[i].order > ranked[j].order
	})

	out := make([]Node, len(ranked))
	for i, r := range ranked {
		out[i] = r.node
	}
	return out
}

// SuggestFixCandidates takes WhyError's output and, if any step
// ancestors exist, returns steps sorted non-ok-first then most-recent
// first; otherwise it returns the first limit ancestors of any type
// (spec §4.7).
func (g *Graph) SuggestFixCandidates(errorID string, limit int) []Node {
	causes := g.WhyError(errorID)
	if len(causes) == 0 {
		return nil
	}

	var steps []Node
	for _, n := range causes {
		if n.Type == NodeStep {
			steps = append(steps, n)
		}
	}
	if len(steps) > 0 {
		g.mu.RLock()
		order := g.order
		g.mu.RUnlock()
		sort.SliceStable(steps, func(i, j int) bool {
			pi := stepPriority(steps[i].Status)
			pj := stepPriority(steps[j].Status)
			if pi != pj {
				return pi < pj
			}
			return order[steps[i].ID] > order[steps[j].ID]
		})
		if limit > 0 && len(steps) > limit {
			steps = steps[:limit]
		}
		return steps
	}

	if limit > 0 && len(causes) > limit {
		causes = causes[:limit]
	}
	return causes
}

// stepPriority puts non-ok/non-info steps first (priority 0), ok/info
// steps second (priority 1) — a step's own error is the likeliest fix
// point before its healthy neighbors.
func stepPriority(status logger.Status) int {
	if status != "" && status != logger.StatusOK && status != logger.StatusInfo {
		return 0
	}
	return 1
}
