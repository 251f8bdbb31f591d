// Package api exposes the HTTP interface: task CRUD, prioritized task
// listing, model training, prediction feedback, schedule recommendations,
// and energy logs.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"taskpilot/internal/config"
	"taskpilot/internal/logging"
	"taskpilot/internal/scoring"
	"taskpilot/internal/storage"
)

// Server wires the HTTP handlers to their dependencies.
type Server struct {
	cfg     *config.Config
	store   storage.Store
	scoring *scoring.Service
	logger  logging.Logger
}

// NewServer creates the API server.
func NewServer(cfg *config.Config, store storage.Store, svc *scoring.Service, logger logging.Logger) *Server {
	return &Server{
		cfg:     cfg,
		store:   store,
		scoring: svc,
		logger:  logger.WithComponent("api"),
	}
}

// Routes builds the HTTP handler tree.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   s.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-User-ID"},
		AllowCredentials: true,
	})

	r.Use(corsHandler.Handler)
	r.Use(s.traceMiddleware)
	r.Use(s.requestLogMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", s.handleCreateTask)
			r.Get("/", s.handleListTasks)
			r.Get("/prioritized", s.handlePrioritizedTasks)

			r.Route("/{taskID}", func(r chi.Router) {
				r.Get("/", s.handleGetTask)
				r.Put("/", s.handleUpdateTask)
				r.Delete("/", s.handleDeleteTask)
				r.Patch("/status", s.handleUpdateTaskStatus)
				r.Post("/recompute-priority", s.handleRecomputePriority)
				r.Get("/history", s.handleTaskHistory)
			})
		})

		r.Route("/ml", func(r chi.Router) {
			r.Post("/train", s.handleTrain)
			r.Post("/feedback", s.handleFeedback)
			r.Get("/tasks/{taskID}/recommended-time", s.handleRecommendedTime)
		})

		r.Route("/energy-logs", func(r chi.Router) {
			r.Post("/", s.handleCreateEnergyLog)
			r.Get("/", s.handleListEnergyLogs)
		})
	})

	return r
}
