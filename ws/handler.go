package ws

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vnkhanh/kids-story-backend/pkg/logger"
	"github.com/vnkhanh/kids-story-backend/services"
)

// SessionResolver turns an access token into the live session
type SessionResolver interface {
	CurrentSession(ctx context.Context, token string) (*services.Session, error)
}

type Handler struct {
	hub      *Hub
	sessions SessionResolver
	upgrader websocket.Upgrader
	log      logger.Logger
}

// NewHandler accepts upgrades from the given origins; none means any origin.
func NewHandler(hub *Hub, sessions SessionResolver, allowOrigins []string, log logger.Logger) *Handler {
	allowed := make(map[string]struct{}, len(allowOrigins))
	for _, origin := range allowOrigins {
		allowed[origin] = struct{}{}
	}

	return &Handler{
		hub:      hub,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
		log: log.WithComponent("WSHandler"),
	}
}

// Uploads streams the progress of one of the caller's own submissions
func (h *Handler) Uploads(c *gin.Context) {
	session, ok := h.authenticate(c)
	if !ok {
		return
	}
	if !session.CanAuthor() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your account cannot edit stories."})
		return
	}

	submissionID := c.Param("id")
	h.serve(c, UploadTopic(session.UserID, submissionID), gin.H{"type": "connected", "submission_id": submissionID})
}

// Session streams the session changes of the token owner
func (h *Handler) Session(c *gin.Context) {
	session, ok := h.authenticate(c)
	if !ok {
		return
	}

	h.serve(c, SessionTopic(session.UserID), gin.H{"type": "connected", "user_id": session.UserID})
}

func (h *Handler) authenticate(c *gin.Context) (*services.Session, bool) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
		return nil, false
	}

	session, err := h.sessions.CurrentSession(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return nil, false
	}
	return session, true
}

func (h *Handler) serve(c *gin.Context, topic string, hello any) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", "topic", topic, "error", err)
		return
	}

	client := h.hub.Register(topic, conn)
	defer h.hub.Unregister(topic, conn)
	h.log.Debug("WS connected", "topic", topic)

	if msg, err := json.Marshal(hello); err == nil {
		client.Send <- msg
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.log.Debug("WS disconnected", "topic", topic)
}
