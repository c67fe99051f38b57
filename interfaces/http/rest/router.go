package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"reqboard/application/commands/bus"
	"reqboard/application/queries"
	"reqboard/interfaces/http/rest/handlers"
	"reqboard/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	board      *queries.BoardQueryService
	collab     *queries.CollabQueryService
	layout     *queries.ExportQueryService
	logger     *zap.Logger
	enableCORS bool
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	board *queries.BoardQueryService,
	collab *queries.CollabQueryService,
	layout *queries.ExportQueryService,
	logger *zap.Logger,
	enableCORS bool,
) *Router {
	return &Router{
		commandBus: commandBus,
		board:      board,
		collab:     collab,
		layout:     layout,
		logger:     logger,
		enableCORS: enableCORS,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)

	router.Route("/api/v1", func(r chi.Router) {
		handlers.NewBoardHandler(rt.commandBus, rt.board).Routes(r)
		handlers.NewLayerHandler(rt.commandBus, rt.board).Routes(r)
		handlers.NewCollabHandler(rt.commandBus, rt.collab).Routes(r)
		handlers.NewWorkspaceHandler(rt.commandBus, rt.board, rt.layout).Routes(r)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
