package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keywordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func TestSimilarityScorer_Score(t *testing.T) {
	scorer := NewSimilarityScorer()

	tests := []struct {
		name        string
		a, b        map[string]bool
		wantKind    EdgeKind
		wantMatches int
	}{
		{
			name:        "intersection of exactly 4 is strong",
			a:           keywordSet("alpha", "beta", "gamma", "delta", "extra"),
			b:           keywordSet("alpha", "beta", "gamma", "delta"),
			wantKind:    EdgeKindStrong,
			wantMatches: 4,
		},
		{
			name:        "intersection of exactly 2 is weak",
			a:           keywordSet("alpha", "beta", "solo"),
			b:           keywordSet("alpha", "beta", "other"),
			wantKind:    EdgeKindWeak,
			wantMatches: 2,
		},
		{
			name:        "intersection of 1 produces nothing",
			a:           keywordSet("alpha", "solo"),
			b:           keywordSet("alpha", "other"),
			wantKind:    "",
			wantMatches: 1,
		},
		{
			name:        "disjoint sets produce nothing",
			a:           keywordSet("alpha"),
			b:           keywordSet("beta"),
			wantKind:    "",
			wantMatches: 0,
		},
		{
			name:        "identical sets classified by the same thresholds",
			a:           keywordSet("alpha", "beta", "gamma", "delta", "epsilon"),
			b:           keywordSet("alpha", "beta", "gamma", "delta", "epsilon"),
			wantKind:    EdgeKindStrong,
			wantMatches: 5,
		},
		{
			name:        "empty sets",
			a:           keywordSet(),
			b:           keywordSet(),
			wantKind:    "",
			wantMatches: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, matches := scorer.Score(tt.a, tt.b)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantMatches, matches)
		})
	}
}

func TestSimilarityScorer_ScoreAll(t *testing.T) {
	scorer := NewSimilarityScorer()

	ids := []string{"a", "b", "c"}
	sets := []map[string]bool{
		keywordSet("kubernetes", "cluster", "scaling"),
		keywordSet("kubernetes", "cluster", "networking"),
		keywordSet("grocery", "dinner"),
	}

	candidates := scorer.ScoreAll(ids, sets)

	require.Len(t, candidates, 1)
	assert.Equal(t, "a", candidates[0].Source)
	assert.Equal(t, "b", candidates[0].Target)
	assert.Equal(t, EdgeKindWeak, candidates[0].Kind)
	assert.Equal(t, 2.0, candidates[0].Weight)
}

func TestSimilarityScorer_WeightEqualsMatchCount(t *testing.T) {
	scorer := NewSimilarityScorer()

	ids := []string{"x", "y"}
	sets := []map[string]bool{
		keywordSet("one", "two", "three", "four", "five", "six"),
		keywordSet("one", "two", "three", "four", "five", "seven"),
	}

	candidates := scorer.ScoreAll(ids, sets)

	require.Len(t, candidates, 1)
	assert.Equal(t, EdgeKindStrong, candidates[0].Kind)
	assert.Equal(t, 5.0, candidates[0].Weight)
}

func TestSimilarityScorer_InvalidThresholdsFallBack(t *testing.T) {
	scorer := NewSimilarityScorerWithThresholds(1, 3)

	kind, _ := scorer.Score(
		keywordSet("alpha", "beta"),
		keywordSet("alpha", "beta"),
	)

	assert.Equal(t, EdgeKindWeak, kind, "defaults apply when strong < weak")
}
