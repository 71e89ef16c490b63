// Package rest wires the HTTP API: middleware chain, versioned routes,
// and operational endpoints.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"mindgraph-backend/application/services"
	"mindgraph-backend/infrastructure/observability"
	"mindgraph-backend/interfaces/http/rest/handlers"
	"mindgraph-backend/interfaces/http/rest/middleware"
	"mindgraph-backend/pkg/api"
	"mindgraph-backend/pkg/auth"
	pkgerrors "mindgraph-backend/pkg/errors"
)

// Router builds the HTTP handler tree
type Router struct {
	noteService  *services.NoteService
	graphService *services.GraphService
	validator    *auth.JWTValidator
	metrics      *observability.Collector
	logger       *zap.Logger
	errorHandler *pkgerrors.ErrorHandler
	enableCORS   bool
}

// NewRouter creates a new router instance
func NewRouter(
	noteService *services.NoteService,
	graphService *services.GraphService,
	validator *auth.JWTValidator,
	metrics *observability.Collector,
	logger *zap.Logger,
	errorHandler *pkgerrors.ErrorHandler,
	enableCORS bool,
) *Router {
	return &Router{
		noteService:  noteService,
		graphService: graphService,
		validator:    validator,
		metrics:      metrics,
		logger:       logger,
		errorHandler: errorHandler,
		enableCORS:   enableCORS,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Metrics(rt.metrics))
	router.Use(middleware.CircuitBreaker(
		middleware.DefaultCircuitBreakerConfig("api"),
		rt.errorHandler,
		rt.logger,
	))

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.mindgraph.app"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Operational endpoints
	router.Get("/healthz", rt.healthCheck)
	router.Get("/readyz", rt.readinessCheck)
	router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	router.Get("/api/docs", api.SwaggerHandler())

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.validator, rt.errorHandler, rt.logger))

		r.Route("/notes", func(r chi.Router) {
			noteHandler := handlers.NewNoteHandler(rt.noteService, rt.logger, rt.errorHandler)
			r.Post("/", noteHandler.CreateNote)
			r.Get("/", noteHandler.ListNotes)
			r.Get("/{noteID}", noteHandler.GetNote)
			r.Put("/{noteID}", noteHandler.UpdateNote)
			r.Delete("/{noteID}", noteHandler.DeleteNote)
		})

		graphHandler := handlers.NewGraphHandler(rt.graphService, rt.logger, rt.errorHandler)
		r.Get("/graph", graphHandler.GetGraph)
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
