package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mindgraph-backend/domain/events"
)

func TestDispatcher_DeliversToSubscribers(t *testing.T) {
	d := NewDispatcher(zap.NewNop())

	var created, deleted int
	d.Subscribe(events.EventTypeNoteCreated, func(ctx context.Context, e events.DomainEvent) error {
		created++
		return nil
	})
	d.Subscribe(events.EventTypeNoteCreated, func(ctx context.Context, e events.DomainEvent) error {
		created++
		return nil
	})
	d.Subscribe(events.EventTypeNoteDeleted, func(ctx context.Context, e events.DomainEvent) error {
		deleted++
		return nil
	})

	event := events.NewNoteCreatedEvent("note-1", "user-1", "title", nil)
	require.NoError(t, d.Publish(context.Background(), event))

	assert.Equal(t, 2, created)
	assert.Equal(t, 0, deleted)
}

func TestDispatcher_HandlerErrorDoesNotFailPublish(t *testing.T) {
	d := NewDispatcher(zap.NewNop())

	var reached bool
	d.Subscribe(events.EventTypeNoteCreated, func(ctx context.Context, e events.DomainEvent) error {
		return errors.New("subscriber broken")
	})
	d.Subscribe(events.EventTypeNoteCreated, func(ctx context.Context, e events.DomainEvent) error {
		reached = true
		return nil
	})

	event := events.NewNoteCreatedEvent("note-1", "user-1", "title", nil)
	assert.NoError(t, d.Publish(context.Background(), event))
	assert.True(t, reached)
}

func TestDispatcher_PublishBatch(t *testing.T) {
	d := NewDispatcher(zap.NewNop())

	var seen []string
	d.Subscribe(events.EventTypeNoteCreated, func(ctx context.Context, e events.DomainEvent) error {
		seen = append(seen, e.AggregateID())
		return nil
	})

	batch := []events.DomainEvent{
		events.NewNoteCreatedEvent("note-1", "user-1", "a", nil),
		events.NewNoteCreatedEvent("note-2", "user-1", "b", nil),
	}
	require.NoError(t, d.PublishBatch(context.Background(), batch))
	assert.Equal(t, []string{"note-1", "note-2"}, seen)
}
