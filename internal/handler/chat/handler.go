// Package chat exposes the conversational endpoints: a non-streaming variant
// that aggregates the reply, and an SSE variant that relays text chunks as the
// personas produce them.
package chat

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	chatModel "github.com/roadbite/roadbite/internal/model/chat"
	"github.com/roadbite/roadbite/pkg/utils"
)

// TurnCoordinator runs one customer turn and feeds events to the sink.
type TurnCoordinator interface {
	RunTurn(ctx context.Context, sessionID, message string, emit chatModel.Sink) error
}

// Handler serves the /chat endpoints.
type Handler struct {
	coordinator TurnCoordinator
}

// New creates a chat handler.
func New(coordinator TurnCoordinator) *Handler {
	return &Handler{coordinator: coordinator}
}

// RegisterRoutes registers the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Post("/chat/stream", h.handleChatStream)
}

type chatRequest struct {
	Message   json.RawMessage `json:"message"`
	SessionID json.RawMessage `json:"sessionId"`
}

// decodeChatRequest validates the request body field by field so missing and
// mistyped fields get the same descriptive error.
func decodeChatRequest(r *http.Request) (message, sessionID, errMsg string) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return "", "", "invalid request body"
	}

	if err := json.Unmarshal(payload.Message, &message); err != nil || len(payload.Message) == 0 {
		return "", "", "Field 'message' is required and must be a string"
	}
	if err := json.Unmarshal(payload.SessionID, &sessionID); err != nil || len(payload.SessionID) == 0 {
		return "", "", "Field 'sessionId' is required and must be a string"
	}
	if strings.TrimSpace(message) == "" {
		return "", "", "Field 'message' is required and must be a string"
	}
	if strings.TrimSpace(sessionID) == "" {
		return "", "", "Field 'sessionId' is required and must be a string"
	}
	return message, sessionID, ""
}

// handleChat runs the turn to completion and returns the aggregated reply.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	message, sessionID, errMsg := decodeChatRequest(r)
	if errMsg != "" {
		utils.RespondError(w, http.StatusBadRequest, errMsg)
		return
	}

	var reply strings.Builder
	err := h.coordinator.RunTurn(r.Context(), sessionID, message, func(ev chatModel.Event) {
		if ev.Kind == chatModel.EventText {
			reply.WriteString(ev.Content)
		}
	})
	if err != nil {
		log.Printf("[chat] turn failed for session=%s: %v", sessionID, err)
		utils.RespondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"sessionId": sessionID,
		"reply":     reply.String(),
	})
}

// handleChatStream relays text chunks over SSE as they are produced. Only
// text events reach the wire; capability events stay internal.
func (h *Handler) handleChatStream(w http.ResponseWriter, r *http.Request) {
	message, sessionID, errMsg := decodeChatRequest(r)
	if errMsg != "" {
		utils.RespondError(w, http.StatusBadRequest, errMsg)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)
	log.Printf("[chat] opening stream for session=%s", sessionID)

	err := h.coordinator.RunTurn(r.Context(), sessionID, message, func(ev chatModel.Event) {
		switch ev.Kind {
		case chatModel.EventText:
			utils.SendSSEChunk(w, flusher, map[string]any{"content": ev.Content})
		case chatModel.EventDone:
			utils.SendSSEChunk(w, flusher, map[string]any{"done": true})
		}
	})
	if err != nil {
		log.Printf("[chat] stream failed for session=%s: %v", sessionID, err)
		utils.SendSSEChunk(w, flusher, map[string]any{"error": "Internal server error"})
	}
}
