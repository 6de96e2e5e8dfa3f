package models

import (
	"testing"
)

func TestStatusPriorityWeights(t *testing.T) {
	want := map[BookingStatus]int{
		BookingStatusPending:                       4,
		BookingStatusCancellationRequestedByClient: 4,
		BookingStatusCancellationRequestedByArtist: 4,
		BookingStatusAccepted:                      3,
		BookingStatusBooked:                        3,
		BookingStatusCompleted:                     1,
		BookingStatusRejected:                      0,
		BookingStatusCancelled:                     0,
	}

	for status, weight := range want {
		if got := StatusPriority(status); got != weight {
			t.Errorf("StatusPriority(%q) = %d, want %d", status, got, weight)
		}
	}
}

func TestIsValidBookingStatusClosedSet(t *testing.T) {
	for _, status := range AllBookingStatuses {
		if !IsValidBookingStatus(status) {
			t.Errorf("%q should be a valid status", status)
		}
	}

	for _, invalid := range []BookingStatus{"", "archived", "PENDING", "done"} {
		if IsValidBookingStatus(invalid) {
			t.Errorf("%q should not be a valid status", invalid)
		}
	}
}

func TestBookingStateHelpers(t *testing.T) {
	booking := &Booking{ClientID: 10, ArtistID: 20}

	for _, status := range []BookingStatus{BookingStatusCompleted, BookingStatusCancelled, BookingStatusRejected} {
		booking.Status = status
		if !booking.IsTerminal() {
			t.Errorf("%q should be terminal", status)
		}
	}

	booking.Status = BookingStatusCancellationRequestedByClient
	if booking.IsTerminal() {
		t.Error("a cancellation request is not terminal")
	}
	if !booking.InCancellation() {
		t.Error("InCancellation should hold for a client cancellation request")
	}

	booking.Status = BookingStatusBooked
	if booking.InCancellation() {
		t.Error("booked is not a cancellation state")
	}
}

func TestBookingPartyHelpers(t *testing.T) {
	booking := &Booking{ClientID: 10, ArtistID: 20}

	if !booking.IsParty(10) || !booking.IsParty(20) {
		t.Error("both client and artist are parties")
	}
	if booking.IsParty(30) {
		t.Error("a stranger is not a party")
	}

	if got := booking.Counterparty(10); got != 20 {
		t.Errorf("Counterparty(client) = %d, want artist", got)
	}
	if got := booking.Counterparty(20); got != 10 {
		t.Errorf("Counterparty(artist) = %d, want client", got)
	}
	if got := booking.Counterparty(30); got != 0 {
		t.Errorf("Counterparty(stranger) = %d, want 0", got)
	}
}

func TestPaymentFlags(t *testing.T) {
	booking := &Booking{}
	if booking.IsPaid() || booking.IsFinalPaid() {
		t.Error("a booking without payments is unpaid")
	}

	booking.Payments = []Payment{
		{PaymentType: PaymentTypeAdvance, Status: PaymentStatusPending},
	}
	if booking.IsPaid() {
		t.Error("a pending advance payment does not count")
	}

	booking.Payments = append(booking.Payments,
		Payment{PaymentType: PaymentTypeAdvance, Status: PaymentStatusConfirmed})
	if !booking.IsPaid() {
		t.Error("a confirmed advance payment should count")
	}
	if booking.IsFinalPaid() {
		t.Error("no final payment exists yet")
	}

	booking.Payments = append(booking.Payments,
		Payment{PaymentType: PaymentTypeFinal, Status: PaymentStatusConfirmed})
	if !booking.IsFinalPaid() {
		t.Error("a confirmed final payment should count")
	}
}
