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
	"fmt"

	"github.com/mathlang/mathlang/internal/logger"
)

// builder holds the per-ingest running state Build needs to wire flow
// edges and synthesize error nodes without a second pass over the
// records (mirrors causal_engine.py's _last_flow_node_id /
// _last_step_node_id / _last_rule_node_id tracking).
type builder struct {
	graph          *Graph
	counters       map[NodeType]int
	lastFlowNodeID string
	lastStepNodeID string
	lastRuleNodeID string
}

// Build ingests a run's trace in order and returns the causal graph it
// describes (spec §4.7's build rules).
func Build(records []logger.Record) *Graph {
	b := &builder{
		graph:    newGraph(),
		counters: map[NodeType]int{},
	}
	for _, rec := range records {
		b.ingest(rec)
	}
	return b.graph
}

func (b *builder) nextID(t NodeType) string {
	b.counters[t]++
	return fmt.Sprintf("%s-%d", t, b.counters[t])
}

func nodeTypeFromPhase(phase logger.Phase) NodeType {
	switch phase {
	case logger.PhaseProblem:
		return NodeProblem
	case logger.PhaseStep:
		return NodeStep
	case logger.PhaseEnd:
		return NodeEnd
	case logger.PhaseExplain:
		return NodeExplain
	case logger.PhaseError:
		return NodeError
	default:
		// meta/config/mode/prepare/counterfactual/fuzzy records aren't
		// flow nodes; they fold into the explain bucket the way the
		// Python engine's _node_type_from_phase defaults unmapped phases.
		return NodeExplain
	}
}

func (b *builder) ingest(rec logger.Record) {
	nodeType := nodeTypeFromPhase(rec.Phase)
	id := b.nextID(nodeType)
	node := Node{ID: id, Type: nodeType, Record: rec, Status: rec.Status}
	b.graph.addNode(node)

	switch nodeType {
	case NodeProblem:
		b.lastFlowNodeID = id
	case NodeStep:
		b.handleStep(id, rec)
	case NodeEnd:
		b.connectFlow(id)
		b.lastFlowNodeID = id
	case NodeError:
		b.handleErrorCauses(id, rec.Status)
	case NodeExplain:
		b.handleExplain(id, rec)
	}
}

func (b *builder) connectFlow(targetID string) {
	if b.lastFlowNodeID == "" {
		return
	}
	b.graph.addEdge(Edge{Source: b.lastFlowNodeID, Target: targetID, Type: EdgeStepTransition})
}

func (b *builder) handleStep(id string, rec logger.Record) {
	b.connectFlow(id)
	b.lastFlowNodeID = id
	b.lastStepNodeID = id

	if rec.RuleID != "" {
		ruleNodeID := "rule-" + rec.RuleID
		b.graph.addNode(Node{ID: ruleNodeID, Type: NodeRuleApplication})
		b.graph.addEdge(Edge{Source: ruleNodeID, Target: id, Type: EdgeRuleUsage})
		b.lastRuleNodeID = ruleNodeID
	} else {
		b.lastRuleNodeID = ""
	}

	if rec.Status != logger.StatusOK && rec.Status != logger.StatusInfo {
		errID := b.nextID(NodeError)
		errNode := Node{ID: errID, Type: NodeError, Status: rec.Status, Synthesized: true, SourceStepID: id}
		b.graph.addNode(errNode)
		b.handleErrorCauses(errID, rec.Status)
	}
}

// handleErrorCauses draws error_cause edges from the last step, last rule
// application, and last flow node (deduplicated), matching
// causal_engine.py's _handle_error_node.
func (b *builder) handleErrorCauses(errID string, status logger.Status) {
	meta := map[string]any{"status": string(status)}
	seen := map[string]struct{}{}
	addCause := func(source string) {
		if source == "" {
			return
		}
		if _, dup := seen[source]; dup {
			return
		}
		seen[source] = struct{}{}
		b.graph.addEdge(Edge{Source: source, Target: errID, Type: EdgeErrorCause, Meta: meta})
	}
	addCause(b.lastStepNodeID)
	addCause(b.lastRuleNodeID)
	addCause(b.lastFlowNodeID)
}

func (b *builder) handleExplain(id string, rec logger.Record) {
	if rec.Meta == nil {
		return
	}
	target, _ := rec.Meta["target_node_id"].(string)
	if target == "" {
		return
	}
	if _, ok := b.graph.Node(target); !ok {
		return
	}
	b.graph.addEdge(Edge{Source: id, Target: target, Type: EdgeExplainLink})
}
