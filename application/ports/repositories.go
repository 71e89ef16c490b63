// Package ports defines the interfaces the application layer depends on.
// Infrastructure provides the implementations.
package ports

import (
	"context"

	"mindgraph-backend/domain/events"
	"mindgraph-backend/domain/notes"
)

// NoteRepository persists notes scoped by user
type NoteRepository interface {
	// Save creates or replaces a note
	Save(ctx context.Context, note *notes.Note) error

	// FindByID returns a user's note, or a NOT_FOUND error
	FindByID(ctx context.Context, userID, noteID string) (*notes.Note, error)

	// FindByUser returns all of a user's notes in creation order
	FindByUser(ctx context.Context, userID string) ([]*notes.Note, error)

	// Delete removes a note; deleting an absent note is a NOT_FOUND error
	Delete(ctx context.Context, userID, noteID string) error
}

// EventBus publishes domain events
type EventBus interface {
	Publish(ctx context.Context, event events.DomainEvent) error
	PublishBatch(ctx context.Context, batch []events.DomainEvent) error
}

// EventHandler consumes dispatched domain events
type EventHandler func(ctx context.Context, event events.DomainEvent) error

// EventSubscriber registers interest in event types
type EventSubscriber interface {
	Subscribe(eventType string, handler EventHandler)
}
