package http

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"portfolio-backend/internal/contact/domain/model"
	"portfolio-backend/internal/shared/eventbus"
	"portfolio-backend/internal/shared/logger"

	"github.com/google/uuid"
)

// WebSocketMessage represents messages sent via WebSocket
type WebSocketMessage struct {
	Type string      `json:"type"`
	ID   string      `json:"id,omitempty"`
	Data interface{} `json:"data"`
}

// SubmissionNotice is the admin-facing summary of a new submission.
type SubmissionNotice struct {
	ContactID string    `json:"contact_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
}

// Hub fans contact.submitted events out to connected admin sockets.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]chan []byte
	buffer      int
	log         logger.Logger
}

// NewHub creates a hub whose subscribers buffer up to buffer messages.
func NewHub(buffer int, log logger.Logger) *Hub {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		subscribers: make(map[string]chan []byte),
		buffer:      buffer,
		log:         log.WithComponent("ws_hub"),
	}
}

// Subscribe registers a new subscriber.
func (h *Hub) Subscribe() (string, <-chan []byte) {
	id := uuid.NewString()
	ch := make(chan []byte, h.buffer)

	h.mu.Lock()
	h.subscribers[id] = ch
	h.mu.Unlock()

	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subscribers[id]; ok {
		close(ch)
		delete(h.subscribers, id)
	}
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Broadcast queues msg for every subscriber. Subscribers whose buffer is full
// miss the message. It returns how many subscribers received it.
func (h *Hub) Broadcast(msg []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for id, ch := range h.subscribers {
		select {
		case ch <- msg:
			delivered++
		default:
			h.log.Warnf("Dropping message for slow subscriber %s", id)
		}
	}
	return delivered
}

// HandleEvent is an eventbus.Handler for contact.submitted.
func (h *Hub) HandleEvent(ctx context.Context, event eventbus.Event) error {
	contact, ok := event.Data().(*model.Contact)
	if !ok {
		return fmt.Errorf("unexpected %s payload %T", event.Type(), event.Data())
	}

	msg, err := json.Marshal(WebSocketMessage{
		Type: event.Type(),
		ID:   event.ID(),
		Data: SubmissionNotice{
			ContactID: contact.ID.Hex(),
			Name:      contact.Name,
			Email:     contact.Email,
			Subject:   contact.Subject,
			CreatedAt: contact.CreatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("encode %s: %w", event.Type(), err)
	}

	n := h.Broadcast(msg)
	h.log.WithContext(ctx).Debugf("Broadcast %s to %d subscribers", event.ID(), n)
	return nil
}
