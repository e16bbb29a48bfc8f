package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/api"
	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/api/middleware"
	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/config"
	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/logger"
	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/tasks/store"
	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/tasks/tracker"
)

// Server wraps http.Server with graceful shutdown capabilities
type Server struct {
	httpServer *http.Server
	config     *config.Config
	logger     *logger.Logger
}

// New creates a new server with all HTTP configuration
func New(tr tracker.Tracker, st store.TaskStore, cfg *config.Config, lg *logger.Logger) *Server {
	handler := NewRouter(tr, st, cfg, lg)

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Address(),
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		config: cfg,
		logger: lg,
	}
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
//
// The v1 and v2 task route families point at the same handlers; v2 is wrapped
// by the API-key gate, which is the only difference between them.
func NewRouter(tr tracker.Tracker, st store.TaskStore, cfg *config.Config, lg *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	getTask := api.NewGetTaskHandler(tr, lg)
	createTask := api.NewCreateTaskHandler(tr, lg)
	updateTask := api.NewUpdateTaskHandler(tr, lg)
	deleteTask := api.NewDeleteTaskHandler(tr, lg)

	// Open v1 family
	mux.Handle("GET /v1/tasks/{id}", getTask)
	mux.Handle("POST /v1/tasks", createTask)
	mux.Handle("PATCH /v1/tasks/{id}", updateTask)
	mux.Handle("DELETE /v1/tasks/{id}", deleteTask)

	// Key-gated v2 family
	auth := middleware.APIKeyAuth(cfg.APIKey, lg)
	mux.Handle("GET /v2/tasks/{id}", auth(getTask))
	mux.Handle("POST /v2/tasks", auth(createTask))
	mux.Handle("PATCH /v2/tasks/{id}", auth(updateTask))
	mux.Handle("DELETE /v2/tasks/{id}", auth(deleteTask))

	mux.Handle("GET /health", api.NewHealthHandler(cfg, st, lg))

	return applyMiddleware(mux, lg)
}

// applyMiddleware wraps the handler with all necessary middleware
func applyMiddleware(handler http.Handler, lg *logger.Logger) http.Handler {
	// Apply middleware in reverse order (last applied = first executed)
	wrapped := handler

	// Request logging middleware
	wrapped = middleware.LoggingMiddleware(lg)(wrapped)

	return wrapped
}

// Start starts the server and blocks until shutdown
func (s *Server) Start() error {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		s.logger.Info("Server starting", map[string]any{
			"address": s.config.Address(),
		})

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Server failed to start", map[string]any{
				"error": err.Error(),
			})
		}
	}()

	// Wait for interrupt signal
	<-stop
	s.logger.Info("Shutting down server")

	return s.shutdown()
}

// shutdown gracefully shuts down the server
func (s *Server) shutdown() error {
	// Create a context with timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})

		return err
	}

	s.logger.Info("Server shutdown complete")
	return nil
}
