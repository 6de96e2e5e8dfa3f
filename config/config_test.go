package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("BOOKING_MIN_GAP_MINUTES", "")
	Load()

	if AppConfig.Server.Port != "8080" {
		t.Errorf("default port = %q, want 8080", AppConfig.Server.Port)
	}
	// Back-to-back bookings must be legal out of the box; only an explicit
	// setting pads the overlap check.
	if AppConfig.Booking.MinGapMinutes != 0 {
		t.Errorf("default booking gap = %d minutes, want 0", AppConfig.Booking.MinGapMinutes)
	}
}

func TestLoadReadsDatabaseURL(t *testing.T) {
	url := "postgresql://app:secret@db:5432/marketplace?sslmode=require"
	t.Setenv("DB_URL", url)
	Load()

	if AppConfig.Database.URL != url {
		t.Errorf("database URL = %q, want %q", AppConfig.Database.URL, url)
	}
}

func TestLoadReadsBookingGap(t *testing.T) {
	t.Setenv("BOOKING_MIN_GAP_MINUTES", "45")
	Load()

	if AppConfig.Booking.MinGapMinutes != 45 {
		t.Errorf("booking gap = %d minutes, want 45", AppConfig.Booking.MinGapMinutes)
	}
}
