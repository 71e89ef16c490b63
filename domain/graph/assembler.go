package graph

import (
	"mindgraph-backend/domain/notes"
)

// DefaultTagEdgeWeight is fixed above any achievable similarity weight so
// explicit tag membership always outranks inferred similarity.
const DefaultTagEdgeWeight = 10

// Node sizes used by the renderer; tags draw smaller than notes.
const (
	noteNodeSize = 10
	tagNodeSize  = 7
)

// Assembler merges explicit tag-membership edges with implicit similarity
// candidates into one candidate set, and builds the adjacency index the
// pruner works from.
type Assembler struct {
	tagEdgeWeight float64
}

// NewAssembler creates an assembler with the default tag edge weight
func NewAssembler() *Assembler {
	return &Assembler{tagEdgeWeight: DefaultTagEdgeWeight}
}

// NewAssemblerWithTagWeight creates an assembler with a custom tag edge weight
func NewAssemblerWithTagWeight(weight float64) *Assembler {
	if weight <= 0 {
		weight = DefaultTagEdgeWeight
	}
	return &Assembler{tagEdgeWeight: weight}
}

// Assembly is the assembler's output: all nodes, the full candidate edge
// set, and the incident-candidate index. Candidates are transient and are
// discarded after pruning.
type Assembly struct {
	Nodes      []*Node
	Candidates []CandidateEdge
	// Incident maps node id -> indexes into Candidates, in encounter order
	Incident map[string][]int
}

// Assemble builds nodes and candidate edges for the note collection.
// Every note yields exactly one note node; every distinct case-folded tag
// yields exactly one shared tag node. Duplicate candidates are left in
// place; the pruner resolves them via the canonical pair key.
func (a *Assembler) Assemble(noteList []*notes.Note, similarity []CandidateEdge) *Assembly {
	assembly := &Assembly{
		Nodes:    make([]*Node, 0, len(noteList)),
		Incident: make(map[string][]int),
	}

	for _, note := range noteList {
		assembly.Nodes = append(assembly.Nodes, &Node{
			ID:         note.ID,
			Kind:       NodeKindNote,
			Label:      note.Title,
			ColorGroup: string(note.Color),
			Size:       noteNodeSize,
		})
	}

	// Tag nodes are shared: first note carrying a tag creates it, later
	// notes only add membership edges.
	tagNodes := make(map[string]*Node)
	candidates := make([]CandidateEdge, 0, len(similarity))
	for _, note := range noteList {
		for _, tag := range note.NormalizedTags() {
			tagID := TagNodeID(tag)
			if _, exists := tagNodes[tagID]; !exists {
				node := &Node{
					ID:    tagID,
					Kind:  NodeKindTag,
					Label: tag,
					Size:  tagNodeSize,
				}
				tagNodes[tagID] = node
				assembly.Nodes = append(assembly.Nodes, node)
			}
			candidates = append(candidates, CandidateEdge{
				Source: note.ID,
				Target: tagID,
				Kind:   EdgeKindTag,
				Weight: a.tagEdgeWeight,
			})
		}
	}

	candidates = append(candidates, similarity...)
	assembly.Candidates = candidates

	for i, candidate := range candidates {
		assembly.Incident[candidate.Source] = append(assembly.Incident[candidate.Source], i)
		assembly.Incident[candidate.Target] = append(assembly.Incident[candidate.Target], i)
	}

	return assembly
}
