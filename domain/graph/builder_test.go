package graph

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindgraph-backend/domain/notes"
)

func testNote(t *testing.T, id, title string, tags []string) *notes.Note {
	t.Helper()
	note, err := notes.NewNote("user-1", title, "", tags, notes.ColorBlue)
	require.NoError(t, err)
	note.ID = id
	return note
}

func TestBuilder_ConcreteScenario(t *testing.T) {
	builder := NewDefaultBuilder()

	noteA := testNote(t, "a", "Kubernetes cluster scaling", []string{"devops"})
	noteB := testNote(t, "b", "Kubernetes cluster networking", []string{"devops", "network"})
	noteC := testNote(t, "c", "Grocery list for dinner", nil)

	// Keyword sets behave per the tokenizer contract: "networking" is a
	// distinct token from the tag "network".
	assert.Equal(t, map[string]bool{"kubernetes": true, "cluster": true, "scaling": true}, builder.Keywords(noteA))
	assert.Equal(t, map[string]bool{"kubernetes": true, "cluster": true, "networking": true}, builder.Keywords(noteB))

	g := builder.Build([]*notes.Note{noteA, noteB, noteC})

	// 3 note nodes + 2 distinct tag nodes
	require.Len(t, g.Nodes, 5)

	tagNodes := 0
	for _, n := range g.Nodes {
		if n.Kind == NodeKindTag {
			tagNodes++
		}
	}
	assert.Equal(t, 2, tagNodes)

	edgesByKey := make(map[string]Edge)
	for _, e := range g.Edges {
		edgesByKey[e.Key()] = e
	}

	weakAB, ok := edgesByKey[PairKey("a", "b")]
	require.True(t, ok, "weak similarity edge A-B must exist")
	assert.Equal(t, EdgeKindWeak, weakAB.Kind)
	assert.Equal(t, 2.0, weakAB.Weight)

	devopsA, ok := edgesByKey[PairKey("a", TagNodeID("devops"))]
	require.True(t, ok)
	assert.Equal(t, EdgeKindTag, devopsA.Kind)
	assert.Equal(t, 10.0, devopsA.Weight)

	_, ok = edgesByKey[PairKey("b", TagNodeID("devops"))]
	assert.True(t, ok)

	_, ok = edgesByKey[PairKey("b", TagNodeID("network"))]
	assert.True(t, ok)

	_, ok = edgesByKey[PairKey("a", TagNodeID("network"))]
	assert.False(t, ok, "tag 'network' belongs only to note B")

	require.Len(t, g.Edges, 4)

	noteCNode := g.NodeByID("c")
	require.NotNil(t, noteCNode)
	assert.Equal(t, 0, noteCNode.Degree, "grocery note stays as an isolated node")
}

func TestBuilder_StopWordsFilteredInPipeline(t *testing.T) {
	builder := NewDefaultBuilder()

	farm := testNote(t, "farm", "Working with animals from sunrise", nil)
	code := testNote(t, "code", "Working with compilers from scratch", nil)

	assert.Equal(t, map[string]bool{"working": true, "animals": true, "sunrise": true},
		builder.Keywords(farm))
	assert.Equal(t, map[string]bool{"working": true, "compilers": true, "scratch": true},
		builder.Keywords(code))

	// "with" and "from" must not count toward similarity; the single shared
	// keyword "working" is below the weak threshold.
	g := builder.Build([]*notes.Note{farm, code})
	assert.Empty(t, g.Edges)
}

func TestBuilder_TagNodeUniqueness(t *testing.T) {
	builder := NewDefaultBuilder()

	noteList := []*notes.Note{
		testNote(t, "n1", "First entry", []string{"DevOps", "ideas"}),
		testNote(t, "n2", "Second entry", []string{"devops", "Ideas"}),
		testNote(t, "n3", "Third entry", []string{"DEVOPS"}),
	}

	g := builder.Build(noteList)

	tagLabels := make([]string, 0)
	for _, n := range g.Nodes {
		if n.Kind == NodeKindTag {
			tagLabels = append(tagLabels, n.Label)
		}
	}
	sort.Strings(tagLabels)
	assert.Equal(t, []string{"devops", "ideas"}, tagLabels,
		"one tag node per distinct case-folded tag")
}

func TestBuilder_IdempotentRebuild(t *testing.T) {
	builder := NewDefaultBuilder()

	noteList := []*notes.Note{
		testNote(t, "a", "Distributed systems consensus algorithms", []string{"reading"}),
		testNote(t, "b", "Consensus algorithms in distributed databases", []string{"reading", "work"}),
		testNote(t, "c", "Weekend hiking checklist", nil),
	}

	first := builder.Build(noteList)
	second := builder.Build(noteList)

	require.Len(t, second.Nodes, len(first.Nodes))
	for i, n := range first.Nodes {
		assert.Equal(t, n.ID, second.Nodes[i].ID)
		assert.Equal(t, n.Kind, second.Nodes[i].Kind)
		assert.Equal(t, n.Degree, second.Nodes[i].Degree)
	}

	require.Len(t, second.Edges, len(first.Edges))
	for i, e := range first.Edges {
		assert.Equal(t, e, second.Edges[i])
	}
}

func TestBuilder_EmptyCollection(t *testing.T) {
	g := NewDefaultBuilder().Build(nil)

	assert.True(t, g.IsEmpty())
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
}

func TestBuilder_NoteWithEmptyCategoryAndNoTags(t *testing.T) {
	builder := NewDefaultBuilder()

	lonely := testNote(t, "solo", "Completely unrelated ramblings", nil)
	other := testNote(t, "other", "Kubernetes cluster scaling", []string{"devops"})

	g := builder.Build([]*notes.Note{lonely, other})

	soloNode := g.NodeByID("solo")
	require.NotNil(t, soloNode)
	assert.Equal(t, 0, soloNode.Degree)
	assert.Equal(t, NodeKindNote, soloNode.Kind)
}

func TestBuilder_DegreeBoundOnDenseGraph(t *testing.T) {
	builder := NewDefaultBuilder()

	// Each note carries one tag edge plus two weak similarity edges, all
	// within every endpoint's budget, so the nominal bound holds exactly.
	noteList := []*notes.Note{
		testNote(t, "n1", "Alpha subject matter", []string{"shared"}),
		testNote(t, "n2", "Beta subject matter", []string{"shared"}),
		testNote(t, "n3", "Gamma subject matter", []string{"shared"}),
	}

	g := builder.Build(noteList)

	for _, n := range g.Nodes {
		assert.LessOrEqual(t, n.Degree, DefaultMaxEdgesPerNode,
			"node %s degree within budget", n.ID)
	}
}
