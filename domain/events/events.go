// Package events defines the domain events published by the service.
package events

import (
	"time"

	"github.com/google/uuid"
)

// SourceBackend is the event source identifier used on the bus
const SourceBackend = "mindgraph.backend"

// Event type constants
const (
	EventTypeNoteCreated  = "note.created"
	EventTypeNoteUpdated  = "note.updated"
	EventTypeNoteDeleted  = "note.deleted"
	EventTypeGraphRebuilt = "graph.rebuilt"
)

// DomainEvent is implemented by every event the service publishes
type DomainEvent interface {
	EventID() string
	EventType() string
	AggregateID() string
	UserID() string
	OccurredAt() time.Time
}

// BaseEvent provides the common event fields
type BaseEvent struct {
	ID        string    `json:"event_id"`
	Type      string    `json:"event_type"`
	Aggregate string    `json:"aggregate_id"`
	User      string    `json:"user_id"`
	Timestamp time.Time `json:"occurred_at"`
}

// NewBaseEvent creates the common event envelope
func NewBaseEvent(eventType, aggregateID, userID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Aggregate: aggregateID,
		User:      userID,
		Timestamp: time.Now(),
	}
}

func (e BaseEvent) EventID() string       { return e.ID }
func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) AggregateID() string   { return e.Aggregate }
func (e BaseEvent) UserID() string        { return e.User }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NoteCreatedEvent is published when a note is created
type NoteCreatedEvent struct {
	BaseEvent
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// NewNoteCreatedEvent creates a note created event
func NewNoteCreatedEvent(noteID, userID, title string, tags []string) NoteCreatedEvent {
	return NoteCreatedEvent{
		BaseEvent: NewBaseEvent(EventTypeNoteCreated, noteID, userID),
		Title:     title,
		Tags:      tags,
	}
}

// NoteUpdatedEvent is published when a note is updated
type NoteUpdatedEvent struct {
	BaseEvent
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// NewNoteUpdatedEvent creates a note updated event
func NewNoteUpdatedEvent(noteID, userID, title string, tags []string) NoteUpdatedEvent {
	return NoteUpdatedEvent{
		BaseEvent: NewBaseEvent(EventTypeNoteUpdated, noteID, userID),
		Title:     title,
		Tags:      tags,
	}
}

// NoteDeletedEvent is published when a note is deleted
type NoteDeletedEvent struct {
	BaseEvent
}

// NewNoteDeletedEvent creates a note deleted event
func NewNoteDeletedEvent(noteID, userID string) NoteDeletedEvent {
	return NoteDeletedEvent{
		BaseEvent: NewBaseEvent(EventTypeNoteDeleted, noteID, userID),
	}
}

// GraphRebuiltEvent is published after the relationship graph is rebuilt
type GraphRebuiltEvent struct {
	BaseEvent
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
}

// NewGraphRebuiltEvent creates a graph rebuilt event
func NewGraphRebuiltEvent(userID string, nodeCount, edgeCount int) GraphRebuiltEvent {
	return GraphRebuiltEvent{
		BaseEvent: NewBaseEvent(EventTypeGraphRebuilt, userID, userID),
		NodeCount: nodeCount,
		EdgeCount: edgeCount,
	}
}
