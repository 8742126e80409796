package persona

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roadbite/roadbite/internal/model/persona"
	"github.com/roadbite/roadbite/pkg/utils"
)

// Handler serves the persona listing.
type Handler struct {
	personas persona.Store
}

// New creates a persona handler.
func New(personas persona.Store) *Handler {
	return &Handler{
		personas: personas,
	}
}

// RegisterRoutes registers the persona routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/personas", h.handleListPersonas)
}

// handleListPersonas lists the public summaries; instructions stay private.
func (h *Handler) handleListPersonas(w http.ResponseWriter, r *http.Request) {
	personas := h.personas.List()
	summaries := make([]persona.Summary, 0, len(personas))
	for _, p := range personas {
		summaries = append(summaries, p.Summarize())
	}
	utils.RespondJSON(w, http.StatusOK, summaries)
}
