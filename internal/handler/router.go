package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/roadbite/roadbite/internal/handler/chat"
	"github.com/roadbite/roadbite/internal/handler/persona"
	"github.com/roadbite/roadbite/internal/handler/ws"
	middlewarePkg "github.com/roadbite/roadbite/internal/middleware"
	personaModel "github.com/roadbite/roadbite/internal/model/persona"
	"github.com/roadbite/roadbite/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(personas personaModel.Store, coordinator chat.TurnCoordinator) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/", handleLanding)

	personaHandler := persona.New(personas)
	personaHandler.RegisterRoutes(r)

	chatHandler := chat.New(coordinator)
	chatHandler.RegisterRoutes(r)

	wsHandler := ws.New(coordinator)
	wsHandler.RegisterRoutes(r)

	return r
}

// handleLanding serves a minimal landing payload so a browser hitting the
// service root sees something other than a 404.
func handleLanding(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"service": "roadbite",
		"chat":    "/chat",
		"stream":  "/chat/stream",
	})
}
