package chat

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers chat routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api/v1/chat", func(r chi.Router) {
		r.Post("/query", h.Query)

		r.Route("/conversations/{conversation_id}", func(r chi.Router) {
			r.Get("/", h.GetConversation)
			r.Delete("/", h.DeleteConversation)
			r.Get("/export", h.ExportConversation)
		})
	})
}
