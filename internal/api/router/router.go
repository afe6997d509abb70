package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lifesure/insurance-ai-platform/internal/engine"
)

// Config holds the handlers wired into the router.
type Config struct {
	Conversation *engine.Handler
	Metrics      http.Handler
}

// New builds the HTTP router for the conversation API.
func New(cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/health", cfg.Conversation.HealthCheck)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/conversation", func(r chi.Router) {
		r.Post("/start", cfg.Conversation.Start)
		r.Post("/message", cfg.Conversation.Message)
		r.Post("/end", cfg.Conversation.End)
	})

	return r
}
