package services

import (
	"testing"
	"time"

	"artist-marketplace-server/models"
)

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	terminals := []models.BookingStatus{
		models.BookingStatusRejected,
		models.BookingStatusCancelled,
		models.BookingStatusCompleted,
	}

	for _, from := range terminals {
		for _, to := range models.AllBookingStatuses {
			if CanTransition(from, to) {
				t.Errorf("terminal status %q must not transition to %q", from, to)
			}
		}
	}
}

func TestCancellationOnlyReachableFromActiveStates(t *testing.T) {
	requests := []models.BookingStatus{
		models.BookingStatusCancellationRequestedByClient,
		models.BookingStatusCancellationRequestedByArtist,
	}
	allowedSources := map[models.BookingStatus]bool{
		models.BookingStatusPending:  true,
		models.BookingStatusAccepted: true,
		models.BookingStatusBooked:   true,
	}

	for _, from := range models.AllBookingStatuses {
		for _, to := range requests {
			if CanTransition(from, to) != allowedSources[from] {
				t.Errorf("CanTransition(%q, %q) = %v, want %v",
					from, to, CanTransition(from, to), allowedSources[from])
			}
		}
	}
}

func TestCancellationRequestResolutions(t *testing.T) {
	for _, from := range []models.BookingStatus{
		models.BookingStatusCancellationRequestedByClient,
		models.BookingStatusCancellationRequestedByArtist,
	} {
		if !CanTransition(from, models.BookingStatusCancelled) {
			t.Errorf("approval must move %q to cancelled", from)
		}
		// Decline restores the memoized prior status
		for _, prior := range []models.BookingStatus{
			models.BookingStatusPending,
			models.BookingStatusAccepted,
			models.BookingStatusBooked,
		} {
			if !CanTransition(from, prior) {
				t.Errorf("decline must be able to restore %q from %q", prior, from)
			}
		}
		if CanTransition(from, models.BookingStatusCompleted) {
			t.Errorf("%q must not jump straight to completed", from)
		}
	}
}

func TestPendingDecisionEdges(t *testing.T) {
	if !CanTransition(models.BookingStatusPending, models.BookingStatusAccepted) {
		t.Error("pending → accepted must be legal")
	}
	if !CanTransition(models.BookingStatusPending, models.BookingStatusRejected) {
		t.Error("pending → rejected must be legal")
	}
	if CanTransition(models.BookingStatusPending, models.BookingStatusBooked) {
		t.Error("pending must not skip straight to booked")
	}
	if CanTransition(models.BookingStatusPending, models.BookingStatusCompleted) {
		t.Error("pending must not skip straight to completed")
	}
	if !CanTransition(models.BookingStatusAccepted, models.BookingStatusBooked) {
		t.Error("accepted → booked must be legal")
	}
	if !CanTransition(models.BookingStatusBooked, models.BookingStatusCompleted) {
		t.Error("booked → completed must be legal")
	}
	if CanTransition(models.BookingStatusAccepted, models.BookingStatusCompleted) {
		t.Error("accepted must not skip straight to completed")
	}
}

func TestStatusDecisionRequiresPendingBooking(t *testing.T) {
	for _, decision := range []models.BookingStatus{
		models.BookingStatusAccepted,
		models.BookingStatusRejected,
	} {
		if err := reviewDecisionError(models.BookingStatusPending, decision); err != nil {
			t.Errorf("pending booking must allow decision %q: %v", decision, err)
		}
		for _, current := range models.AllBookingStatuses {
			if current == models.BookingStatusPending {
				continue
			}
			if reviewDecisionError(current, decision) == nil {
				t.Errorf("%q booking must not be set to %q through the status endpoint", current, decision)
			}
		}
	}

	// A pending cancellation request resolves only through approve/decline;
	// setting "accepted" must not dismiss it (or demote a booked engagement
	// whose prior status was memoized).
	for _, current := range []models.BookingStatus{
		models.BookingStatusCancellationRequestedByClient,
		models.BookingStatusCancellationRequestedByArtist,
	} {
		if reviewDecisionError(current, models.BookingStatusAccepted) == nil {
			t.Errorf("%q must not be resolvable via the status endpoint", current)
		}
	}

	// Statuses outside the accept/reject decision are never settable directly.
	for _, decision := range []models.BookingStatus{
		models.BookingStatusBooked,
		models.BookingStatusCompleted,
		models.BookingStatusCancelled,
	} {
		if reviewDecisionError(models.BookingStatusPending, decision) == nil {
			t.Errorf("status %q must not be settable directly", decision)
		}
	}
}

func TestFirstOverlapScansSchedule(t *testing.T) {
	base := time.Date(2026, 9, 12, 14, 0, 0, 0, time.UTC)
	hour := time.Hour

	existing := []models.Booking{
		{ID: 1, StartTime: base.Add(-3 * hour), EndTime: base.Add(-2 * hour)},
		{ID: 2, StartTime: base.Add(30 * time.Minute), EndTime: base.Add(90 * time.Minute)},
	}

	// Two pending requests may share a window at creation; the accept path
	// runs this scan so only one of them can become accepted.
	other := firstOverlap(existing, base, base.Add(hour), 0)
	if other == nil || other.ID != 2 {
		t.Fatalf("firstOverlap = %+v, want booking 2", other)
	}

	if got := firstOverlap(existing, base.Add(4*hour), base.Add(5*hour), 0); got != nil {
		t.Errorf("disjoint window reported conflict with booking %d", got.ID)
	}
	if got := firstOverlap(nil, base, base.Add(hour), 0); got != nil {
		t.Error("empty schedule reported a conflict")
	}
}

func TestWindowsOverlap(t *testing.T) {
	base := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)
	hour := time.Hour

	tests := []struct {
		name         string
		aStart, aEnd time.Time
		bStart, bEnd time.Time
		gap          time.Duration
		wantOverlap  bool
	}{
		{
			name:   "identical windows",
			aStart: base, aEnd: base.Add(2 * hour),
			bStart: base, bEnd: base.Add(2 * hour),
			wantOverlap: true,
		},
		{
			name:   "partial overlap",
			aStart: base, aEnd: base.Add(2 * hour),
			bStart: base.Add(hour), bEnd: base.Add(3 * hour),
			wantOverlap: true,
		},
		{
			name:   "disjoint without gap",
			aStart: base, aEnd: base.Add(hour),
			bStart: base.Add(2 * hour), bEnd: base.Add(3 * hour),
			wantOverlap: false,
		},
		{
			name:   "back to back without gap",
			aStart: base, aEnd: base.Add(hour),
			bStart: base.Add(hour), bEnd: base.Add(2 * hour),
			wantOverlap: false,
		},
		{
			name:   "back to back violates gap buffer",
			aStart: base, aEnd: base.Add(hour),
			bStart: base.Add(hour), bEnd: base.Add(2 * hour),
			gap:         30 * time.Minute,
			wantOverlap: true,
		},
		{
			name:   "gap buffer satisfied",
			aStart: base, aEnd: base.Add(hour),
			bStart: base.Add(hour + 31*time.Minute), bEnd: base.Add(2 * hour),
			gap:         30 * time.Minute,
			wantOverlap: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WindowsOverlap(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd, tt.gap)
			if got != tt.wantOverlap {
				t.Errorf("WindowsOverlap = %v, want %v", got, tt.wantOverlap)
			}
			// Overlap is symmetric
			if WindowsOverlap(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd, tt.gap) != got {
				t.Error("WindowsOverlap is not symmetric")
			}
		})
	}
}

func TestDefaultGapAllowsBackToBackWindows(t *testing.T) {
	start := time.Date(2026, 9, 12, 14, 0, 0, 0, time.UTC)
	hour := time.Hour

	// 15:00-16:00 against an accepted 14:00-15:00 booking must succeed
	// out of the box; only an explicit BOOKING_MIN_GAP_MINUTES pads edges.
	if WindowsOverlap(start.Add(hour), start.Add(2*hour), start, start.Add(hour), minGap()) {
		t.Error("back-to-back windows must not conflict at the default gap")
	}
}

func TestSortByPriority(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
	}

	bookings := []models.Booking{
		{ID: 1, Status: models.BookingStatusCompleted, EventDate: day(1)},
		{ID: 2, Status: models.BookingStatusBooked, EventDate: day(5)},
		{ID: 3, Status: models.BookingStatusPending, EventDate: day(9)},
		{ID: 4, Status: models.BookingStatusCancelled, EventDate: day(2)},
		{ID: 5, Status: models.BookingStatusCancellationRequestedByArtist, EventDate: day(3)},
		{ID: 6, Status: models.BookingStatusPending, EventDate: day(4)},
		{ID: 7, Status: models.BookingStatusAccepted, EventDate: day(2)},
	}

	SortByPriority(bookings)

	gotOrder := make([]uint, len(bookings))
	for i, b := range bookings {
		gotOrder[i] = b.ID
	}

	// Weight 4 first (5 and 6 before 3 by event date), then weight 3 by
	// event date (7 before 2), then completed, then cancelled/rejected.
	wantOrder := []uint{5, 6, 3, 7, 2, 1, 4}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Fatalf("priority order = %v, want %v", gotOrder, wantOrder)
		}
	}
}
