// Package notes holds the note domain model. Notes are the authoritative
// input for the relationship graph: the graph is rebuilt from the full note
// collection on every relevant change, never patched incrementally.
package notes

import (
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "mindgraph-backend/pkg/errors"
)

// Color identifies the visual group a note belongs to
type Color string

const (
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorPurple Color = "purple"
	ColorOrange Color = "orange"
	ColorPink   Color = "pink"
)

// ValidColors lists every accepted note color
var ValidColors = []Color{ColorBlue, ColorGreen, ColorPurple, ColorOrange, ColorPink}

// IsValid reports whether the color is one of the accepted values
func (c Color) IsValid() bool {
	for _, v := range ValidColors {
		if c == v {
			return true
		}
	}
	return false
}

// Note is a user-authored record. Titles and categories feed keyword
// extraction; tags feed explicit graph edges.
type Note struct {
	ID        string
	UserID    string
	Title     string
	Category  string
	Tags      []string
	Color     Color
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int
}

// NewNote creates a note with a generated ID
func NewNote(userID, title, category string, tags []string, color Color) (*Note, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID is required")
	}
	if strings.TrimSpace(title) == "" {
		return nil, pkgerrors.NewValidationError("title is required")
	}
	if color == "" {
		color = ColorBlue
	}
	if !color.IsValid() {
		return nil, pkgerrors.NewValidationError("unknown note color: " + string(color))
	}

	now := time.Now().UTC()
	return &Note{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     strings.TrimSpace(title),
		Category:  strings.TrimSpace(category),
		Tags:      normalizeTags(tags),
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}, nil
}

// Update applies new details to the note and bumps its version
func (n *Note) Update(title, category string, tags []string, color Color) error {
	if strings.TrimSpace(title) == "" {
		return pkgerrors.NewValidationError("title is required")
	}
	if color != "" && !color.IsValid() {
		return pkgerrors.NewValidationError("unknown note color: " + string(color))
	}

	n.Title = strings.TrimSpace(title)
	n.Category = strings.TrimSpace(category)
	n.Tags = normalizeTags(tags)
	if color != "" {
		n.Color = color
	}
	n.UpdatedAt = time.Now().UTC()
	n.Version++
	return nil
}

// NormalizedTags returns the note's tags lowercased and trimmed.
// Tag identity is case-insensitive throughout the graph.
func (n *Note) NormalizedTags() []string {
	return normalizeTags(n.Tags)
}

func normalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		folded := strings.ToLower(strings.TrimSpace(tag))
		if folded == "" || seen[folded] {
			continue
		}
		seen[folded] = true
		normalized = append(normalized, folded)
	}
	return normalized
}
