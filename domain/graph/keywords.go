package graph

import (
	"strings"
	"unicode"
)

// DefaultMinTokenLength drops short tokens that carry little meaning
const DefaultMinTokenLength = 4

// KeywordExtractor normalizes note titles and categories into significant
// word sets. It is a pure function of its inputs and the stop-word list.
type KeywordExtractor struct {
	stopWords      map[string]bool
	minTokenLength int
}

// NewKeywordExtractor creates an extractor with the default English stop words
func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{
		stopWords:      defaultStopWords(),
		minTokenLength: DefaultMinTokenLength,
	}
}

// NewKeywordExtractorWithOptions creates an extractor with a custom stop-word
// list and minimum token length. A nil stop-word list means the default
// English list, not an empty one.
func NewKeywordExtractorWithOptions(stopWords []string, minTokenLength int) *KeywordExtractor {
	var words map[string]bool
	if stopWords == nil {
		words = defaultStopWords()
	} else {
		words = make(map[string]bool, len(stopWords))
		for _, w := range stopWords {
			words[strings.ToLower(w)] = true
		}
	}
	if minTokenLength <= 0 {
		minTokenLength = DefaultMinTokenLength
	}
	return &KeywordExtractor{
		stopWords:      words,
		minTokenLength: minTokenLength,
	}
}

// Extract produces the keyword set for a note's title and category.
// Tokens are lowercased, split on non-letter/non-digit runes, filtered by
// length and the stop-word list. Empty input yields an empty set.
func (e *KeywordExtractor) Extract(title, category string) map[string]bool {
	keywords := make(map[string]bool)
	e.extractInto(keywords, title)
	e.extractInto(keywords, category)
	return keywords
}

func (e *KeywordExtractor) extractInto(keywords map[string]bool, text string) {
	text = strings.ToLower(text)

	var current strings.Builder
	flush := func() {
		if current.Len() == 0 {
			return
		}
		word := current.String()
		current.Reset()
		if len([]rune(word)) < e.minTokenLength {
			return
		}
		if e.stopWords[word] {
			return
		}
		keywords[word] = true
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
}

// defaultStopWords returns common English articles, prepositions, pronouns
// and auxiliary verbs. Most are already shorter than the minimum token
// length; the list catches the longer ones.
func defaultStopWords() map[string]bool {
	return map[string]bool{
		"the": true, "and": true, "with": true, "from": true, "that": true,
		"this": true, "have": true, "been": true, "were": true, "therefore": true,
		"they": true, "them": true, "their": true, "there": true, "these": true,
		"those": true, "what": true, "when": true, "where": true, "which": true,
		"will": true, "would": true, "could": true, "should": true, "about": true,
		"into": true, "onto": true, "over": true, "under": true, "after": true,
		"before": true, "between": true, "through": true, "during": true,
		"your": true, "yours": true, "some": true, "such": true, "than": true,
		"then": true, "also": true, "just": true, "very": true, "only": true,
		"does": true, "doing": true, "having": true, "being": true, "because": true,
		"while": true, "until": true, "both": true, "each": true, "other": true,
		"more": true, "most": true, "same": true, "here": true,
	}
}
