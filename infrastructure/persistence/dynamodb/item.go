package dynamodb

import (
	"time"

	"mindgraph-backend/domain/notes"
	pkgerrors "mindgraph-backend/pkg/errors"
)

const timeFormat = time.RFC3339

func fromNoteItem(item *noteItem) (*notes.Note, error) {
	if item.NoteID == "" || item.UserID == "" {
		return nil, pkgerrors.NewInternalError("note item missing identifiers")
	}

	createdAt, err := time.Parse(timeFormat, item.CreatedAt)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "invalid CreatedAt timestamp")
	}
	updatedAt, err := time.Parse(timeFormat, item.UpdatedAt)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "invalid UpdatedAt timestamp")
	}

	color := notes.Color(item.Color)
	if !color.IsValid() {
		color = notes.ColorBlue
	}

	return &notes.Note{
		ID:        item.NoteID,
		UserID:    item.UserID,
		Title:     item.Title,
		Category:  item.Category,
		Tags:      item.Tags,
		Color:     color,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		Version:   item.Version,
	}, nil
}
