package graph

// Default thresholds for classifying keyword overlap between two notes
const (
	DefaultStrongThreshold = 4
	DefaultWeakThreshold   = 2
)

// SimilarityScorer turns pairwise keyword overlap into candidate edges.
// The weight of a candidate is the raw match count, so similarity edges
// always weigh less than tag edges.
type SimilarityScorer struct {
	strongThreshold int
	weakThreshold   int
}

// NewSimilarityScorer creates a scorer with the default thresholds
func NewSimilarityScorer() *SimilarityScorer {
	return &SimilarityScorer{
		strongThreshold: DefaultStrongThreshold,
		weakThreshold:   DefaultWeakThreshold,
	}
}

// NewSimilarityScorerWithThresholds creates a scorer with custom thresholds.
// strong must be >= weak; out-of-range values fall back to the defaults.
func NewSimilarityScorerWithThresholds(strong, weak int) *SimilarityScorer {
	if weak < 1 || strong < weak {
		return NewSimilarityScorer()
	}
	return &SimilarityScorer{strongThreshold: strong, weakThreshold: weak}
}

// Score classifies a single pair by intersection size. A nil kind result
// (empty string) means no edge is produced.
func (s *SimilarityScorer) Score(a, b map[string]bool) (EdgeKind, int) {
	matches := intersectionSize(a, b)
	switch {
	case matches >= s.strongThreshold:
		return EdgeKindStrong, matches
	case matches >= s.weakThreshold:
		return EdgeKindWeak, matches
	default:
		return "", matches
	}
}

// ScoreAll computes candidate edges for every unordered pair of notes.
// ids and keyword sets are parallel slices in input order, which makes the
// candidate order deterministic. O(N^2) pairs is acceptable at the
// personal-collection scale this service targets.
func (s *SimilarityScorer) ScoreAll(ids []string, keywordSets []map[string]bool) []CandidateEdge {
	candidates := make([]CandidateEdge, 0)
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			kind, matches := s.Score(keywordSets[i], keywordSets[j])
			if kind == "" {
				continue
			}
			candidates = append(candidates, CandidateEdge{
				Source: ids[i],
				Target: ids[j],
				Kind:   kind,
				Weight: float64(matches),
			})
		}
	}
	return candidates
}

func intersectionSize(a, b map[string]bool) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	matches := 0
	for word := range a {
		if b[word] {
			matches++
		}
	}
	return matches
}
