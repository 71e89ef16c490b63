//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"mindgraph-backend/infrastructure/config"
)

// SuperSet is the main provider set
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideErrorHandler,
	ProvideMetrics,
	ProvideJWTValidator,
	ProvideDispatcher,
	ProvideEventBus,
	ProvideNoteRepository,
	ProvideTuningWatcher,
	ProvideNoteService,
	ProvideGraphService,
	ProvideHub,
	ProvideLayoutManager,
	ProvideWebSocketServer,
	ProvideTracing,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
