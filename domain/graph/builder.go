package graph

import (
	"mindgraph-backend/domain/notes"
)

// BuildConfig tunes the graph construction pipeline. The zero value is not
// usable; call DefaultBuildConfig.
type BuildConfig struct {
	MaxEdgesPerNode int     `yaml:"max_edges_per_node"`
	StrongThreshold int     `yaml:"strong_threshold"`
	WeakThreshold   int     `yaml:"weak_threshold"`
	TagEdgeWeight   float64 `yaml:"tag_edge_weight"`
	MinTokenLength  int     `yaml:"min_token_length"`
}

// DefaultBuildConfig returns the reference tuning
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		MaxEdgesPerNode: DefaultMaxEdgesPerNode,
		StrongThreshold: DefaultStrongThreshold,
		WeakThreshold:   DefaultWeakThreshold,
		TagEdgeWeight:   DefaultTagEdgeWeight,
		MinTokenLength:  DefaultMinTokenLength,
	}
}

// Builder runs the full pipeline: keyword extraction, similarity scoring,
// assembly, pruning. Building is structurally deterministic: the same note
// collection always yields the same node and edge sets.
type Builder struct {
	extractor *KeywordExtractor
	scorer    *SimilarityScorer
	assembler *Assembler
	pruner    *Pruner
}

// NewBuilder creates a builder from the given tuning
func NewBuilder(cfg BuildConfig) *Builder {
	return &Builder{
		extractor: NewKeywordExtractorWithOptions(nil, cfg.MinTokenLength),
		scorer:    NewSimilarityScorerWithThresholds(cfg.StrongThreshold, cfg.WeakThreshold),
		assembler: NewAssemblerWithTagWeight(cfg.TagEdgeWeight),
		pruner:    NewPrunerWithBudget(cfg.MaxEdgesPerNode),
	}
}

// NewDefaultBuilder creates a builder with the reference tuning
func NewDefaultBuilder() *Builder {
	return NewBuilder(DefaultBuildConfig())
}

// Build turns a flat note collection into the pruned relationship graph.
// An empty collection produces an empty graph, never an error; notes with
// empty titles or no tags degrade to isolated degree-0 nodes.
func (b *Builder) Build(noteList []*notes.Note) *Graph {
	if len(noteList) == 0 {
		return &Graph{index: make(map[string]*Node)}
	}

	ids := make([]string, len(noteList))
	keywordSets := make([]map[string]bool, len(noteList))
	for i, note := range noteList {
		ids[i] = note.ID
		keywordSets[i] = b.extractor.Extract(note.Title, note.Category)
	}

	similarity := b.scorer.ScoreAll(ids, keywordSets)
	assembly := b.assembler.Assemble(noteList, similarity)
	edges := b.pruner.Prune(assembly)

	index := make(map[string]*Node, len(assembly.Nodes))
	for _, node := range assembly.Nodes {
		index[node.ID] = node
	}

	return &Graph{
		Nodes: assembly.Nodes,
		Edges: edges,
		index: index,
	}
}

// Keywords exposes the extractor for callers that want to inspect a single
// note's keyword set (diagnostics, tests).
func (b *Builder) Keywords(note *notes.Note) map[string]bool {
	return b.extractor.Extract(note.Title, note.Category)
}
