package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Event is one frame on the live channel. Event names are the routing key
// the client switches on ("notification", "receiveMessage", "messageSent", ...).
type Event struct {
	Event     string      `json:"event"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// EventHandler handles an inbound event from a connected client
type EventHandler func(*Client, *Event) error

// PresenceTracker is notified when a user's first connection arrives and
// when their last one leaves. Used for the chat online indicator only.
type PresenceTracker interface {
	MarkOnline(userID uint)
	MarkOffline(userID uint)
}

// Hub is the real-time channel registry. Each user identity owns a logical
// room; every connection the user has (multiple tabs, multiple devices) is
// joined to that room and receives the same events.
type Hub struct {
	// rooms maps a user ID to the set of live connections in their room
	rooms map[uint]map[*Client]bool

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// EventHandlers for inbound client events
	EventHandlers map[string]EventHandler

	presence PresenceTracker

	mu sync.RWMutex
}

// NewHub creates a new hub. presence may be nil.
func NewHub(presence PresenceTracker) *Hub {
	hub := &Hub{
		rooms:         make(map[uint]map[*Client]bool),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		EventHandlers: make(map[string]EventHandler),
		presence:      presence,
	}

	hub.registerDefaultHandlers()

	return hub
}

// registerDefaultHandlers registers default event handlers
func (h *Hub) registerDefaultHandlers() {
	h.EventHandlers["ping"] = h.handlePing
	h.EventHandlers["typing"] = h.handleTyping
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.join(client)

		case client := <-h.Unregister:
			h.leave(client)
		}
	}
}

// join adds the connection to its user's room
func (h *Hub) join(client *Client) {
	h.mu.Lock()
	room := h.rooms[client.UserID]
	if room == nil {
		room = make(map[*Client]bool)
		h.rooms[client.UserID] = room
	}
	first := len(room) == 0
	room[client] = true
	h.mu.Unlock()

	if first && h.presence != nil {
		h.presence.MarkOnline(client.UserID)
	}
	log.Printf("🔌 Client joined room: user=%d role=%s connections=%d", client.UserID, client.Role, len(room))
}

// leave removes the connection; the room is dropped when it empties
func (h *Hub) leave(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.UserID]
	if ok {
		if _, member := room[client]; member {
			delete(room, client)
			close(client.Send)
		}
		if len(room) == 0 {
			delete(h.rooms, client.UserID)
		}
	}
	last := !ok || len(room) == 0
	h.mu.Unlock()

	if ok && last && h.presence != nil {
		h.presence.MarkOffline(client.UserID)
	}
	log.Printf("🔌 Client left room: user=%d role=%s", client.UserID, client.Role)
}

// EmitToUser pushes an event to every connection in the user's room.
// A user with no live connection is not an error: the persisted record is
// the source of truth and the push is purely a convenience channel.
func (h *Hub) EmitToUser(userID uint, event string, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room := h.rooms[userID]
	if len(room) == 0 {
		return
	}

	data, err := json.Marshal(&Event{Event: event, Payload: payload, Timestamp: time.Now()})
	if err != nil {
		log.Printf("❌ Error marshaling event %q: %v", event, err)
		return
	}

	for client := range room {
		select {
		case client.Send <- data:
		default:
			log.Printf("⚠️ User %d has a slow connection, dropping event %q", userID, event)
		}
	}
}

// EmitToUsers pushes the same event to several rooms
func (h *Hub) EmitToUsers(userIDs []uint, event string, payload interface{}) {
	for _, id := range userIDs {
		h.EmitToUser(id, event, payload)
	}
}

// IsUserConnected checks if a user has at least one live connection
func (h *Hub) IsUserConnected(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID]) > 0
}

// ConnectedUsers returns the IDs of users with at least one live connection
func (h *Hub) ConnectedUsers() []uint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users := make([]uint, 0, len(h.rooms))
	for userID := range h.rooms {
		users = append(users, userID)
	}
	return users
}

// ConnectionCount returns the number of live connections in a user's room
func (h *Hub) ConnectionCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}

// handlePing answers connection health probes
func (h *Hub) handlePing(client *Client, event *Event) error {
	data, err := json.Marshal(&Event{Event: "pong", Timestamp: time.Now()})
	if err != nil {
		return err
	}

	select {
	case client.Send <- data:
	default:
		log.Printf("⚠️ Could not send pong to user %d", client.UserID)
	}

	return nil
}

// handleTyping relays a typing indicator to the counterpart named in the
// payload. Best-effort like every other live event.
func (h *Hub) handleTyping(client *Client, event *Event) error {
	payload, ok := event.Payload.(map[string]interface{})
	if !ok {
		return nil
	}
	receiver, ok := payload["receiver_id"].(float64)
	if !ok {
		return nil
	}

	payload["sender_id"] = client.UserID
	h.EmitToUser(uint(receiver), "typing", payload)
	return nil
}
