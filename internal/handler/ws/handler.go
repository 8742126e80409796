// Package ws serves the websocket chat transport. One connection can carry
// many turns; each inbound chat frame runs one turn and streams its text back
// as content frames.
package ws

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	chatModel "github.com/roadbite/roadbite/internal/model/chat"
)

// TurnCoordinator runs one customer turn and feeds events to the sink.
type TurnCoordinator interface {
	RunTurn(ctx context.Context, sessionID, message string, emit chatModel.Sink) error
}

// Handler upgrades connections and runs turns over them.
type Handler struct {
	coordinator TurnCoordinator
	upgrader    websocket.Upgrader
}

// New creates a websocket chat handler.
func New(coordinator TurnCoordinator) *Handler {
	return &Handler{
		coordinator: coordinator,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the websocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/chat/ws", h.handleWebSocket)
}

type inboundFrame struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

type outboundFrame struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Content   string `json:"content,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	go h.pingLoop(ctx, conn)

	// Sessions outlive the connection; the id assigned here lets a client
	// reconnect and keep its conversation.
	sessionID := uuid.NewString()
	log.Printf("[websocket] new connection, default session=%s", sessionID)
	h.send(conn, outboundFrame{Type: "connected", SessionID: sessionID})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var frame inboundFrame
			if err := conn.ReadJSON(&frame); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("[websocket] read error: %v", err)
				}
				return
			}

			conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			h.handleFrame(ctx, conn, sessionID, frame)
		}
	}
}

func (h *Handler) handleFrame(ctx context.Context, conn *websocket.Conn, defaultSession string, frame inboundFrame) {
	if frame.Type != "chat" {
		h.send(conn, outboundFrame{Type: "error", Error: "unsupported frame type: " + frame.Type})
		return
	}
	if frame.Message == "" {
		h.send(conn, outboundFrame{Type: "error", Error: "Field 'message' is required and must be a string"})
		return
	}

	sessionID := frame.SessionID
	if sessionID == "" {
		sessionID = defaultSession
	}

	err := h.coordinator.RunTurn(ctx, sessionID, frame.Message, func(ev chatModel.Event) {
		switch ev.Kind {
		case chatModel.EventText:
			h.send(conn, outboundFrame{Type: "content", SessionID: sessionID, Content: ev.Content})
		case chatModel.EventDone:
			h.send(conn, outboundFrame{Type: "done", SessionID: sessionID})
		}
	})
	if err != nil {
		log.Printf("[websocket] turn failed for session=%s: %v", sessionID, err)
		h.send(conn, outboundFrame{Type: "error", SessionID: sessionID, Error: "Internal server error"})
	}
}

func (h *Handler) send(conn *websocket.Conn, frame outboundFrame) {
	if err := conn.WriteJSON(frame); err != nil {
		log.Printf("[websocket] write failed: %v", err)
	}
}

func (h *Handler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
