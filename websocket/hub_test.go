package websocket

import (
	"encoding/json"
	"sync"
	"testing"
)

// fakePresence records MarkOnline/MarkOffline calls.
type fakePresence struct {
	mu      sync.Mutex
	online  []uint
	offline []uint
}

func (f *fakePresence) MarkOnline(userID uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.online = append(f.online, userID)
}

func (f *fakePresence) MarkOffline(userID uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offline = append(f.offline, userID)
}

func newTestClient(hub *Hub, userID uint) *Client {
	return &Client{
		Hub:    hub,
		UserID: userID,
		Role:   "client",
		Send:   make(chan []byte, 256),
	}
}

func receivedEvent(t *testing.T, client *Client) *Event {
	t.Helper()
	select {
	case data := <-client.Send:
		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			t.Fatalf("invalid event frame: %v", err)
		}
		return &event
	default:
		t.Fatal("expected an event, got none")
		return nil
	}
}

func TestEmitToUserReachesAllConnections(t *testing.T) {
	hub := NewHub(nil)

	// Same user on two devices
	phone := newTestClient(hub, 7)
	laptop := newTestClient(hub, 7)
	hub.join(phone)
	hub.join(laptop)

	hub.EmitToUser(7, "notification", map[string]string{"message": "hello"})

	for _, client := range []*Client{phone, laptop} {
		event := receivedEvent(t, client)
		if event.Event != "notification" {
			t.Errorf("event = %q, want notification", event.Event)
		}
	}
}

func TestEmitToOfflineUserIsNoOp(t *testing.T) {
	hub := NewHub(nil)

	// Must not panic or block
	hub.EmitToUser(42, "notification", "payload")

	if hub.IsUserConnected(42) {
		t.Error("user 42 should not be connected")
	}
}

func TestEmitToUserDoesNotLeakAcrossRooms(t *testing.T) {
	hub := NewHub(nil)

	alice := newTestClient(hub, 1)
	bob := newTestClient(hub, 2)
	hub.join(alice)
	hub.join(bob)

	hub.EmitToUser(1, "receiveMessage", "for alice")

	receivedEvent(t, alice)
	select {
	case <-bob.Send:
		t.Error("bob received an event addressed to alice")
	default:
	}
}

func TestLeaveDropsRoomWhenEmpty(t *testing.T) {
	hub := NewHub(nil)

	phone := newTestClient(hub, 7)
	laptop := newTestClient(hub, 7)
	hub.join(phone)
	hub.join(laptop)

	hub.leave(phone)
	if !hub.IsUserConnected(7) {
		t.Fatal("user should stay connected while one device remains")
	}
	if got := hub.ConnectionCount(7); got != 1 {
		t.Errorf("ConnectionCount = %d, want 1", got)
	}

	hub.leave(laptop)
	if hub.IsUserConnected(7) {
		t.Error("user should be disconnected after last device leaves")
	}
}

func TestPresenceMarkedOnFirstAndLastConnection(t *testing.T) {
	presence := &fakePresence{}
	hub := NewHub(presence)

	phone := newTestClient(hub, 9)
	laptop := newTestClient(hub, 9)

	hub.join(phone)
	hub.join(laptop) // second connection must not re-mark
	if len(presence.online) != 1 || presence.online[0] != 9 {
		t.Errorf("online calls = %v, want [9]", presence.online)
	}

	hub.leave(phone) // one device remains, still online
	if len(presence.offline) != 0 {
		t.Errorf("offline calls = %v, want none", presence.offline)
	}

	hub.leave(laptop)
	if len(presence.offline) != 1 || presence.offline[0] != 9 {
		t.Errorf("offline calls = %v, want [9]", presence.offline)
	}
}

func TestEmitToUsersFansOut(t *testing.T) {
	hub := NewHub(nil)

	alice := newTestClient(hub, 1)
	bob := newTestClient(hub, 2)
	hub.join(alice)
	hub.join(bob)

	hub.EmitToUsers([]uint{1, 2, 99}, "notification", "both parties")

	receivedEvent(t, alice)
	receivedEvent(t, bob)
}

func TestSlowConsumerIsDroppedNotBlocked(t *testing.T) {
	hub := NewHub(nil)

	slow := newTestClient(hub, 5)
	slow.Send = make(chan []byte, 1)
	hub.join(slow)

	// Second emit must not block even though the buffer is full.
	hub.EmitToUser(5, "notification", "first")
	hub.EmitToUser(5, "notification", "second")

	if got := len(slow.Send); got != 1 {
		t.Errorf("buffered frames = %d, want 1", got)
	}
}

func TestConnectedUsers(t *testing.T) {
	hub := NewHub(nil)

	hub.join(newTestClient(hub, 1))
	hub.join(newTestClient(hub, 2))
	hub.join(newTestClient(hub, 2))

	users := hub.ConnectedUsers()
	if len(users) != 2 {
		t.Errorf("ConnectedUsers = %v, want two distinct users", users)
	}
}
