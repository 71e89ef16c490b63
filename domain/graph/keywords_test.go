package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordExtractor_Extract(t *testing.T) {
	extractor := NewKeywordExtractor()

	tests := []struct {
		name     string
		title    string
		category string
		want     []string
	}{
		{
			name:  "basic title",
			title: "Kubernetes cluster scaling",
			want:  []string{"kubernetes", "cluster", "scaling"},
		},
		{
			name:  "short tokens dropped",
			title: "Go and the API for k8s",
			want:  []string{}, // "go", "and", "the", "api", "for", "k8s" all short or stop words
		},
		{
			name:  "punctuation stripped",
			title: "project-plan: milestones, deadlines!",
			want:  []string{"project", "plan", "milestones", "deadlines"},
		},
		{
			name:     "category contributes tokens",
			title:    "Standup",
			category: "Meeting notes",
			want:     []string{"standup", "meeting", "notes"},
		},
		{
			name:  "stop words removed",
			title: "Working with containers from scratch",
			want:  []string{"working", "containers", "scratch"},
		},
		{
			name:  "mixed case folds",
			title: "KUBERNETES Cluster",
			want:  []string{"kubernetes", "cluster"},
		},
		{
			name: "empty input yields empty set",
		},
		{
			name:  "digits kept",
			title: "ipv6 migration 2024 rollout",
			want:  []string{"ipv6", "migration", "2024", "rollout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractor.Extract(tt.title, tt.category)
			assert.Len(t, got, len(tt.want))
			for _, word := range tt.want {
				assert.True(t, got[word], "expected keyword %q", word)
			}
		})
	}
}

func TestKeywordExtractor_Deterministic(t *testing.T) {
	extractor := NewKeywordExtractor()

	first := extractor.Extract("Kubernetes cluster networking", "devops")
	second := extractor.Extract("Kubernetes cluster networking", "devops")

	assert.Equal(t, first, second)
}

func TestKeywordExtractor_NilStopWordsMeansDefaults(t *testing.T) {
	extractor := NewKeywordExtractorWithOptions(nil, DefaultMinTokenLength)

	got := extractor.Extract("Working with containers from scratch", "")

	assert.False(t, got["with"])
	assert.False(t, got["from"])
	assert.True(t, got["working"])
	assert.True(t, got["containers"])
}

func TestKeywordExtractor_CustomOptions(t *testing.T) {
	extractor := NewKeywordExtractorWithOptions([]string{"cluster"}, 3)

	got := extractor.Extract("k8s cluster ops", "")

	assert.True(t, got["k8s"], "length 3 allowed with custom minimum")
	assert.True(t, got["ops"])
	assert.False(t, got["cluster"], "custom stop word removed")
}
