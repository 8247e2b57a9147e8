package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vnkhanh/kids-story-backend/pkg/logger"
	"github.com/vnkhanh/kids-story-backend/services"
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub fans messages out to the connections subscribed to a topic.
type Hub struct {
	clients map[string]map[*websocket.Conn]*Client
	mu      sync.RWMutex
	log     logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*websocket.Conn]*Client),
		log:     log.WithComponent("WSHub"),
	}
}

// UploadTopic is scoped to the submitting user so that one author cannot
// follow another author's submission.
func UploadTopic(userID uuid.UUID, submissionID string) string {
	return "upload:" + userID.String() + ":" + submissionID
}

func SessionTopic(userID uuid.UUID) string {
	return "session:" + userID.String()
}

type ProgressMessage struct {
	Type string `json:"type"`
	services.Progress
}

type SessionMessage struct {
	Type    string                `json:"type"`
	Event   services.SessionEvent `json:"event"`
	Session *services.Session     `json:"session"`
}

var _ services.SessionNotifier = (*Hub)(nil)

// SendProgress publishes a submission snapshot to the upload topic of its owner
func (h *Hub) SendProgress(userID uuid.UUID, p services.Progress) {
	h.publish(UploadTopic(userID, p.SubmissionID), ProgressMessage{Type: "progress", Progress: p})
}

func (h *Hub) NotifySession(userID uuid.UUID, event services.SessionEvent, session *services.Session) {
	h.publish(SessionTopic(userID), SessionMessage{Type: "session", Event: event, Session: session})
}

func (h *Hub) publish(topic string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("JSON marshal error", "topic", topic, "error", err)
		return
	}
	h.Broadcast(topic, data)
}

// Register subscribes conn to topic and starts its pumps
func (h *Hub) Register(topic string, conn *websocket.Conn) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[topic]; !ok {
		h.clients[topic] = make(map[*websocket.Conn]*Client)
	}

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	h.clients[topic][conn] = client

	go h.writePump(client)
	return client
}

// Broadcast drops the message for clients whose buffer is full
func (h *Hub) Broadcast(topic string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[topic] {
		select {
		case client.Send <- data:
		default:
		}
	}
}

func (h *Hub) Unregister(topic string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[topic]; ok {
		if client, ok := clients[conn]; ok {
			close(client.Send)
			delete(clients, conn)
		}
		if len(clients) == 0 {
			delete(h.clients, topic)
		}
	}
}

// Subscribers counts the connections on a topic
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}

func (h *Hub) writePump(client *Client) {
	defer func() {
		client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
		client.Conn.Close()
	}()
	for msg := range client.Send {
		if err := client.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}
