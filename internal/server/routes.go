package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/tobilg/dashconv/internal/handlers"
)

func (s *Server) setupRoutes(h *handlers.Handlers) {
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/convert", h.Convert)

		// History
		r.Get("/conversions", h.ListConversions)
		r.Get("/conversions/{id}", h.GetConversion)
		r.Get("/conversions/{id}/result", h.GetConversionResult)
		r.Delete("/conversions/{id}", h.DeleteConversion)

		r.Get("/stats", h.GetStats)
	})

	s.router.Get("/ws", h.HandleWebSocket)
	s.router.Handle("/metrics", s.metrics.Handler())
	s.router.Get("/health", h.Health)
}
