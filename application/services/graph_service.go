package services

import (
	"context"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"mindgraph-backend/application/ports"
	"mindgraph-backend/domain/events"
	"mindgraph-backend/domain/graph"
	"mindgraph-backend/infrastructure/observability"
	pkgerrors "mindgraph-backend/pkg/errors"
)

// GraphService builds the pruned relationship graph for a user from the
// authoritative note store. Each call is a full rebuild; there is no
// incremental patching.
type GraphService struct {
	repo    ports.NoteRepository
	builder atomic.Pointer[graph.Builder]
	bus     ports.EventBus
	logger  *zap.Logger
	metrics *observability.Collector
	tracer  trace.Tracer
}

// NewGraphService creates a new graph service
func NewGraphService(
	repo ports.NoteRepository,
	builder *graph.Builder,
	bus ports.EventBus,
	metrics *observability.Collector,
	logger *zap.Logger,
) *GraphService {
	s := &GraphService{
		repo:    repo,
		bus:     bus,
		logger:  logger,
		metrics: metrics,
		tracer:  otel.Tracer("mindgraph-backend/graph"),
	}
	s.builder.Store(builder)
	return s
}

// SetBuilder swaps the active graph tuning. The tuning watcher calls it from
// its own goroutine while builds run concurrently; the next build picks the
// new tuning up.
func (s *GraphService) SetBuilder(builder *graph.Builder) {
	s.builder.Store(builder)
}

// BuildGraph loads the user's notes and runs the full pipeline
func (s *GraphService) BuildGraph(ctx context.Context, userID string) (*graph.Graph, error) {
	ctx, span := s.tracer.Start(ctx, "graph.build",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	noteList, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, pkgerrors.Wrap(err, "failed to load notes for graph build")
	}

	g := s.builder.Load().Build(noteList)

	span.SetAttributes(
		attribute.Int("graph.nodes", len(g.Nodes)),
		attribute.Int("graph.edges", len(g.Edges)),
	)

	s.metrics.GraphsBuilt.Inc()
	s.metrics.EdgesRetained.Add(float64(len(g.Edges)))
	s.logger.Debug("Graph built",
		zap.String("userID", userID),
		zap.Int("notes", len(noteList)),
		zap.Int("nodes", len(g.Nodes)),
		zap.Int("edges", len(g.Edges)),
	)

	if err := s.bus.Publish(ctx, events.NewGraphRebuiltEvent(userID, len(g.Nodes), len(g.Edges))); err != nil {
		s.logger.Warn("Failed to publish graph rebuilt event", zap.Error(err))
	}

	return g, nil
}
