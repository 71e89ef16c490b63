// Package di wires the application together. wire.go declares the
// injector; wire_gen.go carries the generated implementation.
package di

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"mindgraph-backend/application/ports"
	"mindgraph-backend/application/services"
	"mindgraph-backend/domain/graph"
	"mindgraph-backend/domain/layout"
	"mindgraph-backend/infrastructure/config"
	"mindgraph-backend/infrastructure/messaging"
	"mindgraph-backend/infrastructure/messaging/eventbridge"
	"mindgraph-backend/infrastructure/observability"
	dynamodbrepo "mindgraph-backend/infrastructure/persistence/dynamodb"
	"mindgraph-backend/infrastructure/persistence/memory"
	"mindgraph-backend/interfaces/websocket"
	"mindgraph-backend/pkg/auth"
	pkgerrors "mindgraph-backend/pkg/errors"
)

// ProvideLogger builds the process logger from the configured level
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
		zapCfg.Level = level
	}
	return zapCfg.Build()
}

// ProvideErrorHandler builds the shared HTTP error handler
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideMetrics builds the Prometheus collector
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector("mindgraph")
}

// ProvideJWTValidator builds the token validator
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	return auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: cfg.JWTSigningMethod,
		SecretKey:     cfg.JWTSecret,
		PublicKey:     cfg.JWTPublicKey,
		Issuer:        cfg.JWTIssuer,
	})
}

// ProvideDispatcher builds the in-process event dispatcher
func ProvideDispatcher(logger *zap.Logger) *messaging.Dispatcher {
	return messaging.NewDispatcher(logger)
}

// ProvideEventBus chooses the bus implementation. With an EventBridge bus
// name configured, events go to AWS and are mirrored locally; otherwise
// the local dispatcher is the bus.
func ProvideEventBus(ctx context.Context, cfg *config.Config, dispatcher *messaging.Dispatcher, logger *zap.Logger) (ports.EventBus, error) {
	if cfg.EventBusName == "" {
		return dispatcher, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	client := awseventbridge.NewFromConfig(awsCfg)
	return eventbridge.NewPublisher(client, cfg.EventBusName, dispatcher, logger), nil
}

// ProvideNoteRepository chooses the note store backend
func ProvideNoteRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.NoteRepository, error) {
	switch cfg.StorageBackend {
	case "dynamodb":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client := awsdynamodb.NewFromConfig(awsCfg)
		return dynamodbrepo.NewNoteRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger), nil
	case "memory":
		return memory.NewNoteRepository(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// ProvideTuningWatcher loads the optional tuning overlay. Returns nil
// when no tuning file is configured.
func ProvideTuningWatcher(cfg *config.Config, logger *zap.Logger) (*config.TuningWatcher, error) {
	if cfg.TuningFile == "" {
		return nil, nil
	}
	return config.NewTuningWatcher(cfg.TuningFile, logger)
}

// ProvideNoteService builds the note application service
func ProvideNoteService(repo ports.NoteRepository, bus ports.EventBus, metrics *observability.Collector, logger *zap.Logger) *services.NoteService {
	return services.NewNoteService(repo, bus, metrics, logger)
}

// ProvideGraphService builds the graph application service
func ProvideGraphService(repo ports.NoteRepository, bus ports.EventBus, metrics *observability.Collector, logger *zap.Logger, tuning *config.TuningWatcher) *services.GraphService {
	buildCfg := graph.DefaultBuildConfig()
	if tuning != nil {
		buildCfg = tuning.Current().Graph
	}
	svc := services.NewGraphService(repo, graph.NewBuilder(buildCfg), bus, metrics, logger)
	if tuning != nil {
		tuning.OnChange(func(t config.Tuning) {
			svc.SetBuilder(graph.NewBuilder(t.Graph))
		})
	}
	return svc
}

// ProvideHub builds the WebSocket hub
func ProvideHub(metrics *observability.Collector, logger *zap.Logger) *websocket.Hub {
	return websocket.NewHub(metrics, logger)
}

// ProvideLayoutManager builds the layout manager, registers its event
// handlers, and hooks tuning reloads
func ProvideLayoutManager(
	cfg *config.Config,
	graphs *services.GraphService,
	hub *websocket.Hub,
	dispatcher *messaging.Dispatcher,
	metrics *observability.Collector,
	logger *zap.Logger,
	tuning *config.TuningWatcher,
) *services.LayoutManager {
	layoutCfg := layout.DefaultConfig()
	if tuning != nil {
		layoutCfg = tuning.Current().Layout
	}
	manager := services.NewLayoutManager(
		graphs,
		hub,
		layoutCfg,
		time.Duration(cfg.TickIntervalMillis)*time.Millisecond,
		metrics,
		logger,
	)
	manager.RegisterHandlers(dispatcher)
	if tuning != nil {
		tuning.OnChange(func(t config.Tuning) {
			manager.SetConfig(t.Layout)
		})
	}
	return manager
}

// ProvideWebSocketServer builds the WebSocket endpoint
func ProvideWebSocketServer(hub *websocket.Hub, manager *services.LayoutManager, validator *auth.JWTValidator, logger *zap.Logger) *websocket.Server {
	return websocket.NewServer(hub, manager, validator, logger)
}

// ProvideTracing starts the OTLP trace pipeline; nil when tracing is off
func ProvideTracing(ctx context.Context, cfg *config.Config) (*observability.TracerProvider, error) {
	if !cfg.EnableTracing {
		return nil, nil
	}
	return observability.InitTracing("mindgraph-backend", cfg.Environment, cfg.OTLPEndpoint)
}
