package graph

import "sort"

// DefaultMaxEdgesPerNode is the per-node edge budget (K). Keeping it small
// is what keeps the rendered map legible.
const DefaultMaxEdgesPerNode = 4

// Pruner bounds each node's degree by keeping only its strongest incident
// candidate edges.
//
// Retention is asymmetric on purpose: an edge survives if it fits in the
// budget of EITHER endpoint, so a node can end up above its nominal budget
// when neighbors pull edges in through their own allowance. This matches
// the reference behavior and is covered by tests rather than "fixed".
type Pruner struct {
	maxEdgesPerNode int
}

// NewPruner creates a pruner with the default budget
func NewPruner() *Pruner {
	return &Pruner{maxEdgesPerNode: DefaultMaxEdgesPerNode}
}

// NewPrunerWithBudget creates a pruner with a custom per-node budget
func NewPrunerWithBudget(k int) *Pruner {
	if k <= 0 {
		k = DefaultMaxEdgesPerNode
	}
	return &Pruner{maxEdgesPerNode: k}
}

// Prune selects the retained edge set and recomputes every node's degree.
// Nodes with no retained edges stay in the graph at degree 0.
func (p *Pruner) Prune(assembly *Assembly) []Edge {
	retainedKeys := make(map[string]bool)
	retained := make([]Edge, 0)

	// Walk nodes in assembly order so retention order is deterministic.
	for _, node := range assembly.Nodes {
		incident := assembly.Incident[node.ID]
		if len(incident) == 0 {
			continue
		}

		// Stable sort keeps encounter order on equal weights.
		kept := make([]int, len(incident))
		copy(kept, incident)
		sort.SliceStable(kept, func(i, j int) bool {
			return assembly.Candidates[kept[i]].Weight > assembly.Candidates[kept[j]].Weight
		})
		if len(kept) > p.maxEdgesPerNode {
			kept = kept[:p.maxEdgesPerNode]
		}

		for _, idx := range kept {
			candidate := assembly.Candidates[idx]
			key := candidate.Key()
			if retainedKeys[key] {
				continue
			}
			retainedKeys[key] = true
			retained = append(retained, canonicalEdge(candidate))
		}
	}

	recomputeDegrees(assembly.Nodes, retained)
	return retained
}

// canonicalEdge stores endpoints in sorted order so the undirected edge has
// one representation everywhere downstream.
func canonicalEdge(c CandidateEdge) Edge {
	source, target := c.Source, c.Target
	if source > target {
		source, target = target, source
	}
	return Edge{Source: source, Target: target, Kind: c.Kind, Weight: c.Weight}
}

func recomputeDegrees(nodes []*Node, edges []Edge) {
	degrees := make(map[string]int, len(nodes))
	for _, edge := range edges {
		degrees[edge.Source]++
		degrees[edge.Target]++
	}
	for _, node := range nodes {
		node.Degree = degrees[node.ID]
	}
}
