package models

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending                       BookingStatus = "pending"
	BookingStatusAccepted                      BookingStatus = "accepted"
	BookingStatusRejected                      BookingStatus = "rejected"
	BookingStatusBooked                        BookingStatus = "booked"
	BookingStatusCompleted                     BookingStatus = "completed"
	BookingStatusCancelled                     BookingStatus = "cancelled"
	BookingStatusCancellationRequestedByClient BookingStatus = "cancellation_requested_by_client"
	BookingStatusCancellationRequestedByArtist BookingStatus = "cancellation_requested_by_artist"
)

// AllBookingStatuses is the closed set of legal status values.
var AllBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusAccepted,
	BookingStatusRejected,
	BookingStatusBooked,
	BookingStatusCompleted,
	BookingStatusCancelled,
	BookingStatusCancellationRequestedByClient,
	BookingStatusCancellationRequestedByArtist,
}

type ContractStatus string

const (
	ContractStatusNone     ContractStatus = "none"
	ContractStatusDraft    ContractStatus = "draft"
	ContractStatusSigned   ContractStatus = "signed"
	ContractStatusRejected ContractStatus = "rejected"
)

// Booking represents one request for an artist's services at a date, time
// window and location. Bookings are never hard-deleted; rejection and
// cancellation are terminal statuses, not row removal.
type Booking struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	ClientID uint `json:"client_id" gorm:"not null;index"`
	ArtistID uint `json:"artist_id" gorm:"not null;index:idx_bookings_artist_status,priority:1"`

	EventDate time.Time `json:"event_date" gorm:"not null"`
	StartTime time.Time `json:"start_time" gorm:"not null"`
	EndTime   time.Time `json:"end_time" gorm:"not null"`

	Location     string   `json:"location" gorm:"size:500;not null"`
	LocationLat  *float64 `json:"location_lat" gorm:"type:decimal(10,8)"`
	LocationLng  *float64 `json:"location_lng" gorm:"type:decimal(11,8)"`
	ContactPhone string   `json:"contact_phone" gorm:"size:20"`
	Notes        *string  `json:"notes" gorm:"size:1000"`

	Status BookingStatus `json:"status" gorm:"type:varchar(40);not null;default:'pending';index:idx_bookings_artist_status,priority:2"`

	// PriorStatus memoizes the status a booking held when a cancellation
	// was requested, so a declined request can revert it.
	PriorStatus             *BookingStatus `json:"prior_status,omitempty" gorm:"type:varchar(40)"`
	CancellationRequestedBy *uint          `json:"cancellation_requested_by,omitempty"`
	CancellationReason      string         `json:"cancellation_reason,omitempty" gorm:"type:text"`
	CancellationNotes       string         `json:"cancellation_notes,omitempty" gorm:"type:text"`

	ContractStatus ContractStatus `json:"contract_status" gorm:"type:varchar(20);not null;default:'none'"`
	ContractURL    string         `json:"contract_url" gorm:"size:500"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Client   User           `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Artist   User           `json:"artist,omitempty" gorm:"foreignKey:ArtistID"`
	Payments []Payment      `json:"payments,omitempty" gorm:"foreignKey:BookingID"`
	Contract *Contract      `json:"contract,omitempty" gorm:"foreignKey:BookingID"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}

// IsTerminal reports whether the booking can no longer transition.
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusRejected:
		return true
	}
	return false
}

// InCancellation reports whether a cancellation request is pending.
func (b *Booking) InCancellation() bool {
	return b.Status == BookingStatusCancellationRequestedByClient ||
		b.Status == BookingStatusCancellationRequestedByArtist
}

// IsParty reports whether userID is the client or artist on this booking.
func (b *Booking) IsParty(userID uint) bool {
	return b.ClientID == userID || b.ArtistID == userID
}

// Counterparty returns the other party's user ID; zero if userID is neither.
func (b *Booking) Counterparty(userID uint) uint {
	switch userID {
	case b.ClientID:
		return b.ArtistID
	case b.ArtistID:
		return b.ClientID
	}
	return 0
}

// IsPaid reports whether a confirmed advance payment exists.
func (b *Booking) IsPaid() bool {
	for _, p := range b.Payments {
		if p.PaymentType == PaymentTypeAdvance && p.Status == PaymentStatusConfirmed {
			return true
		}
	}
	return false
}

// IsFinalPaid reports whether a confirmed final payment exists.
func (b *Booking) IsFinalPaid() bool {
	for _, p := range b.Payments {
		if p.PaymentType == PaymentTypeFinal && p.Status == PaymentStatusConfirmed {
			return true
		}
	}
	return false
}

// StatusPriority ranks statuses for the priority sort: states that need a
// decision come first, live engagements next, finished ones last.
func StatusPriority(s BookingStatus) int {
	switch s {
	case BookingStatusPending,
		BookingStatusCancellationRequestedByClient,
		BookingStatusCancellationRequestedByArtist:
		return 4
	case BookingStatusAccepted, BookingStatusBooked:
		return 3
	case BookingStatusCompleted:
		return 1
	case BookingStatusRejected, BookingStatusCancelled:
		return 0
	}
	return 0
}

// IsValidBookingStatus checks membership in the closed status set.
func IsValidBookingStatus(s BookingStatus) bool {
	for _, v := range AllBookingStatuses {
		if v == s {
			return true
		}
	}
	return false
}
