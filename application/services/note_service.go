package services

import (
	"context"

	"go.uber.org/zap"

	"mindgraph-backend/application/ports"
	"mindgraph-backend/domain/events"
	"mindgraph-backend/domain/notes"
	"mindgraph-backend/infrastructure/observability"
	pkgerrors "mindgraph-backend/pkg/errors"
)

// NoteInput carries the user-editable note fields
type NoteInput struct {
	Title    string
	Category string
	Tags     []string
	Color    notes.Color
}

// NoteService orchestrates note CRUD, event publication, and graph
// invalidation. The graph itself is always rebuilt from the repository's
// full note list, so the service only has to signal "something changed".
type NoteService struct {
	repo    ports.NoteRepository
	bus     ports.EventBus
	logger  *zap.Logger
	metrics *observability.Collector
}

// NewNoteService creates a new note service
func NewNoteService(
	repo ports.NoteRepository,
	bus ports.EventBus,
	metrics *observability.Collector,
	logger *zap.Logger,
) *NoteService {
	return &NoteService{
		repo:    repo,
		bus:     bus,
		logger:  logger,
		metrics: metrics,
	}
}

// CreateNote validates and persists a new note
func (s *NoteService) CreateNote(ctx context.Context, userID string, input NoteInput) (*notes.Note, error) {
	note, err := notes.NewNote(userID, input.Title, input.Category, input.Tags, input.Color)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, note); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to save note")
	}

	s.metrics.NotesCreated.Inc()
	s.logger.Info("Note created",
		zap.String("noteID", note.ID),
		zap.String("userID", userID),
		zap.Int("tags", len(note.Tags)),
	)

	s.publish(ctx, events.NewNoteCreatedEvent(note.ID, userID, note.Title, note.Tags))
	return note, nil
}

// GetNote fetches one of the user's notes
func (s *NoteService) GetNote(ctx context.Context, userID, noteID string) (*notes.Note, error) {
	if noteID == "" {
		return nil, pkgerrors.NewValidationError("note ID is required")
	}
	return s.repo.FindByID(ctx, userID, noteID)
}

// ListNotes returns all of the user's notes
func (s *NoteService) ListNotes(ctx context.Context, userID string) ([]*notes.Note, error) {
	return s.repo.FindByUser(ctx, userID)
}

// UpdateNote applies new details to an existing note
func (s *NoteService) UpdateNote(ctx context.Context, userID, noteID string, input NoteInput) (*notes.Note, error) {
	note, err := s.repo.FindByID(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	if err := note.Update(input.Title, input.Category, input.Tags, input.Color); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, note); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to update note")
	}

	s.logger.Info("Note updated",
		zap.String("noteID", note.ID),
		zap.String("userID", userID),
		zap.Int("version", note.Version),
	)

	s.publish(ctx, events.NewNoteUpdatedEvent(note.ID, userID, note.Title, note.Tags))
	return note, nil
}

// DeleteNote removes a note
func (s *NoteService) DeleteNote(ctx context.Context, userID, noteID string) error {
	if noteID == "" {
		return pkgerrors.NewValidationError("note ID is required")
	}

	if err := s.repo.Delete(ctx, userID, noteID); err != nil {
		return err
	}

	s.metrics.NotesDeleted.Inc()
	s.logger.Info("Note deleted",
		zap.String("noteID", noteID),
		zap.String("userID", userID),
	)

	s.publish(ctx, events.NewNoteDeletedEvent(noteID, userID))
	return nil
}

// publish sends an event without failing the calling operation; the note
// write already succeeded and the bus is best effort.
func (s *NoteService) publish(ctx context.Context, event events.DomainEvent) {
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("eventType", event.EventType()),
			zap.Error(err),
		)
	}
}
