// Package graph builds the note-relationship graph: keyword extraction,
// pairwise similarity scoring, edge assembly, and degree-bounded pruning.
// Everything in this package is deterministic for a given note collection;
// only the layout stage introduces randomness.
package graph

import "strings"

// NodeKind distinguishes note nodes from shared tag anchors
type NodeKind string

const (
	NodeKindNote NodeKind = "note"
	NodeKindTag  NodeKind = "tag"
)

// EdgeKind classifies how an edge was produced
type EdgeKind string

const (
	// EdgeKindTag links a note to one of its tags
	EdgeKindTag EdgeKind = "tag"
	// EdgeKindStrong is an implicit edge from a large keyword overlap
	EdgeKindStrong EdgeKind = "strong"
	// EdgeKindWeak is an implicit edge from a small keyword overlap
	EdgeKindWeak EdgeKind = "weak"
)

// Node is a vertex of the relationship graph. Degree is only meaningful
// after pruning.
type Node struct {
	ID         string
	Kind       NodeKind
	Label      string
	ColorGroup string
	Size       float64
	Degree     int
}

// CandidateEdge is a pre-pruning edge proposal. Source/Target keep the
// order they were discovered in; direction carries no meaning.
type CandidateEdge struct {
	Source string
	Target string
	Kind   EdgeKind
	Weight float64
}

// Key returns the canonical undirected pair key for deduplication
func (e CandidateEdge) Key() string {
	return PairKey(e.Source, e.Target)
}

// Edge is a retained, undirected edge. Source and Target are stored in
// canonical (sorted) order so an edge cannot be retained twice.
type Edge struct {
	Source string
	Target string
	Kind   EdgeKind
	Weight float64
}

// Key returns the canonical undirected pair key
func (e Edge) Key() string {
	return PairKey(e.Source, e.Target)
}

// PairKey builds the canonical key for an unordered node pair
func PairKey(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + "|" + b
}

// Graph is the pruned result handed to the layout engine and API
type Graph struct {
	Nodes []*Node
	Edges []Edge

	index map[string]*Node
}

// NodeByID returns the node with the given id, or nil
func (g *Graph) NodeByID(id string) *Node {
	return g.index[id]
}

// IsEmpty reports whether the graph has no nodes. An empty graph must
// never be handed to the layout engine.
func (g *Graph) IsEmpty() bool {
	return g == nil || len(g.Nodes) == 0
}

// TagNodeID derives the node id for a case-folded tag. The prefix keeps
// tag ids from colliding with note ids.
func TagNodeID(tag string) string {
	return "tag:" + strings.ToLower(strings.TrimSpace(tag))
}
