// Package messaging provides the in-process event dispatcher and the
// EventBridge-backed bus.
package messaging

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"mindgraph-backend/application/ports"
	"mindgraph-backend/domain/events"
)

// Dispatcher fans domain events out to in-process handlers. It implements
// both ports.EventBus, so it can serve as the bus in development, and
// ports.EventSubscriber for handler registration.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]ports.EventHandler
	logger   *zap.Logger
}

var (
	_ ports.EventBus        = (*Dispatcher)(nil)
	_ ports.EventSubscriber = (*Dispatcher)(nil)
)

// NewDispatcher creates an empty dispatcher
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]ports.EventHandler),
		logger:   logger,
	}
}

// Subscribe registers a handler for an event type
func (d *Dispatcher) Subscribe(eventType string, handler ports.EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

// Publish dispatches an event to all handlers registered for its type.
// Handler failures are logged, not propagated; one slow or broken
// subscriber must not fail the operation that produced the event.
func (d *Dispatcher) Publish(ctx context.Context, event events.DomainEvent) error {
	d.mu.RLock()
	handlers := d.handlers[event.EventType()]
	d.mu.RUnlock()

	if len(handlers) == 0 {
		return nil
	}

	start := time.Now()
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			d.logger.Error("Event handler failed",
				zap.String("eventType", event.EventType()),
				zap.String("aggregateId", event.AggregateID()),
				zap.Error(err),
			)
		}
	}

	d.logger.Debug("Event dispatched",
		zap.String("eventType", event.EventType()),
		zap.Int("handlers", len(handlers)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// PublishBatch dispatches each event in order
func (d *Dispatcher) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	for _, event := range domainEvents {
		if err := d.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
