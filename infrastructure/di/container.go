package di

import (
	"go.uber.org/zap"

	"mindgraph-backend/application/ports"
	"mindgraph-backend/application/services"
	"mindgraph-backend/infrastructure/config"
	"mindgraph-backend/infrastructure/messaging"
	"mindgraph-backend/infrastructure/observability"
	"mindgraph-backend/interfaces/websocket"
	"mindgraph-backend/pkg/auth"
	pkgerrors "mindgraph-backend/pkg/errors"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *zap.Logger
	ErrorHandler    *pkgerrors.ErrorHandler
	Metrics         *observability.Collector
	JWTValidator    *auth.JWTValidator
	Dispatcher      *messaging.Dispatcher
	EventBus        ports.EventBus
	NoteRepo        ports.NoteRepository
	TuningWatcher   *config.TuningWatcher
	NoteService     *services.NoteService
	GraphService    *services.GraphService
	Hub             *websocket.Hub
	LayoutManager   *services.LayoutManager
	WebSocketServer *websocket.Server
	Tracer          *observability.TracerProvider
}

// Shutdown stops the long-lived pieces the container owns
func (c *Container) Shutdown() {
	if c.LayoutManager != nil {
		c.LayoutManager.StopAll()
	}
	if c.Hub != nil {
		c.Hub.Stop()
	}
	if c.TuningWatcher != nil {
		c.TuningWatcher.Stop()
	}
}
