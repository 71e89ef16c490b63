package graph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assemblyFromCandidates builds a minimal assembly for pruner tests
func assemblyFromCandidates(nodeIDs []string, candidates []CandidateEdge) *Assembly {
	assembly := &Assembly{
		Nodes:      make([]*Node, 0, len(nodeIDs)),
		Candidates: candidates,
		Incident:   make(map[string][]int),
	}
	for _, id := range nodeIDs {
		assembly.Nodes = append(assembly.Nodes, &Node{ID: id, Kind: NodeKindNote, Label: id})
	}
	for i, c := range candidates {
		assembly.Incident[c.Source] = append(assembly.Incident[c.Source], i)
		assembly.Incident[c.Target] = append(assembly.Incident[c.Target], i)
	}
	return assembly
}

func TestPruner_KeepsTopWeightedEdges(t *testing.T) {
	// Node "hub" has 6 candidates; only the 4 heaviest survive via its budget.
	nodeIDs := []string{"hub", "n1", "n2", "n3", "n4", "n5", "n6"}
	candidates := []CandidateEdge{
		{Source: "hub", Target: "n1", Kind: EdgeKindWeak, Weight: 2},
		{Source: "hub", Target: "n2", Kind: EdgeKindStrong, Weight: 6},
		{Source: "hub", Target: "n3", Kind: EdgeKindTag, Weight: 10},
		{Source: "hub", Target: "n4", Kind: EdgeKindStrong, Weight: 5},
		{Source: "hub", Target: "n5", Kind: EdgeKindWeak, Weight: 3},
		{Source: "hub", Target: "n6", Kind: EdgeKindStrong, Weight: 4},
	}

	pruner := NewPruner()
	edges := pruner.Prune(assemblyFromCandidates(nodeIDs, candidates))

	// hub keeps n3(10), n2(6), n4(5), n6(4); the leaves' own budgets keep
	// n1 and n5 edges alive through the asymmetric policy.
	retained := make(map[string]bool)
	for _, e := range edges {
		retained[e.Key()] = true
	}
	assert.True(t, retained[PairKey("hub", "n3")])
	assert.True(t, retained[PairKey("hub", "n2")])
	assert.True(t, retained[PairKey("hub", "n4")])
	assert.True(t, retained[PairKey("hub", "n6")])
}

func TestPruner_AsymmetricKeepExceedsBudget(t *testing.T) {
	// "spoke" has only one candidate, to "hub". The hub's budget is full of
	// heavier edges, but the spoke's own budget keeps the edge alive, so the
	// hub ends above its nominal budget. Deliberate behavior, not a defect.
	nodeIDs := []string{"hub", "a", "b", "c", "d", "spoke"}
	candidates := []CandidateEdge{
		{Source: "hub", Target: "a", Kind: EdgeKindTag, Weight: 10},
		{Source: "hub", Target: "b", Kind: EdgeKindTag, Weight: 10},
		{Source: "hub", Target: "c", Kind: EdgeKindStrong, Weight: 9},
		{Source: "hub", Target: "d", Kind: EdgeKindStrong, Weight: 8},
		{Source: "hub", Target: "spoke", Kind: EdgeKindWeak, Weight: 2},
	}

	assembly := assemblyFromCandidates(nodeIDs, candidates)
	edges := NewPruner().Prune(assembly)

	require.Len(t, edges, 5)

	var hub *Node
	for _, n := range assembly.Nodes {
		if n.ID == "hub" {
			hub = n
		}
	}
	require.NotNil(t, hub)
	assert.Equal(t, 5, hub.Degree, "neighbor budgets can pull a node past K")
}

func TestPruner_TiesBrokenByEncounterOrder(t *testing.T) {
	// Five equal-weight candidates on one node and singleton neighbors whose
	// budgets cannot rescue anything extra: only the first four survive.
	nodeIDs := []string{"center", "n1", "n2", "n3", "n4", "n5"}
	candidates := make([]CandidateEdge, 0, 5)
	for i := 1; i <= 5; i++ {
		candidates = append(candidates, CandidateEdge{
			Source: "center",
			Target: fmt.Sprintf("n%d", i),
			Kind:   EdgeKindWeak,
			Weight: 2,
		})
	}

	assembly := assemblyFromCandidates(nodeIDs, candidates)
	edges := NewPruner().Prune(assembly)

	// center keeps n1..n4; n5's own budget still keeps its only edge.
	// The point is the ordering: center's kept list is the first four.
	keys := make(map[string]bool)
	for _, e := range edges {
		keys[e.Key()] = true
	}
	for i := 1; i <= 5; i++ {
		assert.True(t, keys[PairKey("center", fmt.Sprintf("n%d", i))])
	}

	// With the spoke candidates removed from their own budgets the bound holds.
	pruned := NewPrunerWithBudget(4)
	onlyCenter := assemblyFromCandidates(nodeIDs, candidates)
	// Empty the spokes' incident lists to isolate center's selection.
	for i := 1; i <= 5; i++ {
		delete(onlyCenter.Incident, fmt.Sprintf("n%d", i))
	}
	edges = pruned.Prune(onlyCenter)
	require.Len(t, edges, 4)
	for i := 1; i <= 4; i++ {
		assert.Equal(t, PairKey("center", fmt.Sprintf("n%d", i)), edges[i-1].Key())
	}
}

func TestPruner_DedupByCanonicalPair(t *testing.T) {
	// The same undirected edge appears twice with flipped endpoints; only
	// one retained edge comes out, stored in canonical order.
	nodeIDs := []string{"b", "a"}
	candidates := []CandidateEdge{
		{Source: "b", Target: "a", Kind: EdgeKindWeak, Weight: 2},
		{Source: "a", Target: "b", Kind: EdgeKindWeak, Weight: 2},
	}

	assembly := assemblyFromCandidates(nodeIDs, candidates)
	edges := NewPruner().Prune(assembly)

	require.Len(t, edges, 1)
	assert.Equal(t, "a", edges[0].Source)
	assert.Equal(t, "b", edges[0].Target)

	for _, n := range assembly.Nodes {
		assert.Equal(t, 1, n.Degree)
	}
}

func TestPruner_IsolatedNodeSurvives(t *testing.T) {
	nodeIDs := []string{"connected1", "connected2", "isolated"}
	candidates := []CandidateEdge{
		{Source: "connected1", Target: "connected2", Kind: EdgeKindWeak, Weight: 2},
	}

	assembly := assemblyFromCandidates(nodeIDs, candidates)
	NewPruner().Prune(assembly)

	var isolated *Node
	for _, n := range assembly.Nodes {
		if n.ID == "isolated" {
			isolated = n
		}
	}
	require.NotNil(t, isolated)
	assert.Equal(t, 0, isolated.Degree)
}
