// Package memory provides in-process repository implementations used in
// development and tests.
package memory

import (
	"context"
	"sync"

	"mindgraph-backend/domain/notes"
	pkgerrors "mindgraph-backend/pkg/errors"
)

// NoteRepository keeps notes in memory, partitioned by user
type NoteRepository struct {
	mu    sync.RWMutex
	notes map[string]map[string]*notes.Note // userID -> noteID -> note
	order map[string][]string               // userID -> noteIDs in creation order
}

// NewNoteRepository creates an empty in-memory repository
func NewNoteRepository() *NoteRepository {
	return &NoteRepository{
		notes: make(map[string]map[string]*notes.Note),
		order: make(map[string][]string),
	}
}

// Save inserts or replaces a note
func (r *NoteRepository) Save(ctx context.Context, note *notes.Note) error {
	if note == nil {
		return pkgerrors.NewValidationError("note cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	userNotes, ok := r.notes[note.UserID]
	if !ok {
		userNotes = make(map[string]*notes.Note)
		r.notes[note.UserID] = userNotes
	}
	if _, exists := userNotes[note.ID]; !exists {
		r.order[note.UserID] = append(r.order[note.UserID], note.ID)
	}

	copied := *note
	copied.Tags = append([]string(nil), note.Tags...)
	userNotes[note.ID] = &copied
	return nil
}

// FindByID returns the note owned by userID with the given id
func (r *NoteRepository) FindByID(ctx context.Context, userID, noteID string) (*notes.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, ok := r.notes[userID][noteID]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("note not found")
	}

	copied := *note
	copied.Tags = append([]string(nil), note.Tags...)
	return &copied, nil
}

// FindByUser returns all of a user's notes in creation order
func (r *NoteRepository) FindByUser(ctx context.Context, userID string) ([]*notes.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.order[userID]
	result := make([]*notes.Note, 0, len(ids))
	for _, id := range ids {
		note, ok := r.notes[userID][id]
		if !ok {
			continue
		}
		copied := *note
		copied.Tags = append([]string(nil), note.Tags...)
		result = append(result, &copied)
	}
	return result, nil
}

// Delete removes a note
func (r *NoteRepository) Delete(ctx context.Context, userID, noteID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	userNotes, ok := r.notes[userID]
	if !ok {
		return pkgerrors.NewNotFoundError("note not found")
	}
	if _, exists := userNotes[noteID]; !exists {
		return pkgerrors.NewNotFoundError("note not found")
	}
	delete(userNotes, noteID)

	ids := r.order[userID]
	for i, id := range ids {
		if id == noteID {
			r.order[userID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}
