package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/secmon-lab/argus/pkg/usecase"
)

type Server struct {
	router         *chi.Mux
	uc             *usecase.UseCases
	validate       *validator.Validate
	metricsHandler http.Handler
}

type Options func(*Server)

// WithMetricsHandler exposes h on /metrics
func WithMetricsHandler(h http.Handler) Options {
	return func(s *Server) {
		s.metricsHandler = h
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:   r,
		uc:       uc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)
	if s.metricsHandler != nil {
		r.Handle("/metrics", s.metricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))

		r.Route("/requests", func(r chi.Router) {
			r.Post("/", s.submitHandler)
			r.Get("/", s.listRequestsHandler)
			r.Post("/drafts", s.saveDraftHandler)

			r.Route("/{requestID}", func(r chi.Router) {
				r.Get("/", s.getRequestHandler)
				r.Post("/submit", s.submitDraftHandler)

				r.Post("/score", s.computeScoreHandler)
				r.Get("/score", s.getScoreHandler)
				r.Get("/score/history", s.scoreHistoryHandler)

				r.Get("/reviews", s.listTasksHandler)
				r.Post("/reviews/{team}", s.applyVerdictHandler)
				r.Get("/reviews/{team}/comments", s.listCommentsHandler)
				r.Post("/reviews/{team}/comments", s.addCommentHandler)

				r.Get("/checklists", s.listChecklistsHandler)
				r.Get("/checklists/{framework}", s.getChecklistHandler)
				r.Put("/checklists/{framework}", s.saveChecklistHandler)

				r.Get("/audit", s.auditTrailHandler)
			})
		})

		r.Get("/reviews", s.teamQueueHandler)
		r.Get("/frameworks", s.frameworksHandler)
		r.Get("/frameworks/{framework}/checklist", s.checklistTemplateHandler)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
