package services

import (
	"testing"
)

func TestPresenceFallsBackToMemory(t *testing.T) {
	// No REDIS_ADDR configured: the service must still track presence.
	presence := NewPresenceService()

	presence.MarkOnline(1)
	presence.MarkOnline(2)

	if !presence.IsOnline(1) || !presence.IsOnline(2) {
		t.Error("marked users should be online")
	}
	if presence.IsOnline(3) {
		t.Error("unmarked user should be offline")
	}

	users, err := presence.GetOnlineUsers()
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 2 {
		t.Errorf("GetOnlineUsers = %v, want two users", users)
	}

	presence.MarkOffline(1)
	if presence.IsOnline(1) {
		t.Error("user 1 should be offline after MarkOffline")
	}
	if !presence.IsOnline(2) {
		t.Error("user 2 should remain online")
	}
}

func TestPresenceMarkOfflineIdempotent(t *testing.T) {
	presence := NewPresenceService()

	presence.MarkOffline(9) // never online; must not panic
	if presence.IsOnline(9) {
		t.Error("user 9 was never online")
	}
}
