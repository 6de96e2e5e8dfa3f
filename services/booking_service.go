package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"artist-marketplace-server/config"
	"artist-marketplace-server/database"
	"artist-marketplace-server/models"
	"artist-marketplace-server/types"
	"artist-marketplace-server/utils"
)

// transitionTable is the closed status graph. A transition not listed here
// is illegal regardless of who attempts it; actor guards are checked
// separately by each operation.
var transitionTable = map[models.BookingStatus][]models.BookingStatus{
	models.BookingStatusPending: {
		models.BookingStatusAccepted,
		models.BookingStatusRejected,
		models.BookingStatusCancellationRequestedByClient,
		models.BookingStatusCancellationRequestedByArtist,
	},
	models.BookingStatusAccepted: {
		models.BookingStatusBooked,
		models.BookingStatusCancellationRequestedByClient,
		models.BookingStatusCancellationRequestedByArtist,
	},
	models.BookingStatusBooked: {
		models.BookingStatusCompleted,
		models.BookingStatusCancellationRequestedByClient,
		models.BookingStatusCancellationRequestedByArtist,
	},
	// A declined cancellation request reverts to the memoized prior status.
	models.BookingStatusCancellationRequestedByClient: {
		models.BookingStatusCancelled,
		models.BookingStatusPending,
		models.BookingStatusAccepted,
		models.BookingStatusBooked,
	},
	models.BookingStatusCancellationRequestedByArtist: {
		models.BookingStatusCancelled,
		models.BookingStatusPending,
		models.BookingStatusAccepted,
		models.BookingStatusBooked,
	},
	// Terminal states have no outgoing edges.
	models.BookingStatusRejected:  {},
	models.BookingStatusCancelled: {},
	models.BookingStatusCompleted: {},
}

// CanTransition reports whether the status graph permits from → to.
func CanTransition(from, to models.BookingStatus) bool {
	for _, next := range transitionTable[from] {
		if next == to {
			return true
		}
	}
	return false
}

// slotHoldingStatuses are the statuses that keep an artist's time window
// reserved. A booking mid-cancellation still holds its slot until the
// request resolves.
var slotHoldingStatuses = []models.BookingStatus{
	models.BookingStatusAccepted,
	models.BookingStatusBooked,
	models.BookingStatusCancellationRequestedByClient,
	models.BookingStatusCancellationRequestedByArtist,
}

// WindowsOverlap reports whether [aStart, aEnd) and [bStart, bEnd) collide
// once each window is padded by gap on both edges.
func WindowsOverlap(aStart, aEnd, bStart, bEnd time.Time, gap time.Duration) bool {
	return aStart.Before(bEnd.Add(gap)) && bStart.Before(aEnd.Add(gap))
}

// firstOverlap returns the first booking whose window collides with
// [start, end) under the given gap, or nil.
func firstOverlap(existing []models.Booking, start, end time.Time, gap time.Duration) *models.Booking {
	for i := range existing {
		if WindowsOverlap(start, end, existing[i].StartTime, existing[i].EndTime, gap) {
			return &existing[i]
		}
	}
	return nil
}

// lockSlotConflict locks the artist's slot-holding bookings and returns a
// SlotConflict error when the candidate window collides with one of them.
// excludeID skips the booking being modified; pass 0 on creation.
func lockSlotConflict(tx *gorm.DB, artistID, excludeID uint, start, end time.Time, gap time.Duration) error {
	query := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("artist_id = ? AND status IN ?", artistID, slotHoldingStatuses)
	if excludeID != 0 {
		query = query.Where("id != ?", excludeID)
	}

	var existing []models.Booking
	if err := query.Find(&existing).Error; err != nil {
		return err
	}

	if other := firstOverlap(existing, start, end, gap); other != nil {
		return types.NewSlotConflict(
			"the artist already has a booking in this time window",
			other.StartTime, other.EndTime,
		)
	}
	return nil
}

// BookingService owns the booking ledger: creation with slot-conflict
// detection and all status transitions. Every transition is written with a
// status precondition so concurrent callers cannot race past a guard.
type BookingService struct {
	notifications *NotificationService
}

// NewBookingService creates a new booking service
func NewBookingService(notifications *NotificationService) *BookingService {
	return &BookingService{notifications: notifications}
}

// CreateBookingInput carries a validated, time-parsed booking request.
type CreateBookingInput struct {
	ArtistID     uint
	EventDate    time.Time
	StartTime    time.Time
	EndTime      time.Time
	Location     string
	LocationLat  *float64
	LocationLng  *float64
	ContactPhone string
	Notes        *string
}

// minGap returns the configured scheduling buffer. Zero unless deployed
// with BOOKING_MIN_GAP_MINUTES; back-to-back windows are legal by default.
func minGap() time.Duration {
	minutes := 0
	if config.AppConfig != nil {
		minutes = config.AppConfig.Booking.MinGapMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// CreateBooking validates the window, geocodes the location when no
// coordinates were supplied, and inserts the booking inside a transaction
// that locks the artist's slot-holding bookings for the overlap check.
func (bs *BookingService) CreateBooking(clientID uint, in CreateBookingInput) (*models.Booking, error) {
	if !in.StartTime.Before(in.EndTime) {
		return nil, types.NewValidationError("start time must be before end time")
	}
	if in.Location == "" {
		return nil, types.NewValidationError("location is required")
	}

	var artist models.User
	if err := database.DB.First(&artist, in.ArtistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewNotFound("artist not found")
		}
		return nil, err
	}
	if !artist.IsArtist() {
		return nil, types.NewValidationError("target user is not an artist")
	}
	if in.ArtistID == clientID {
		return nil, types.NewValidationError("cannot book yourself")
	}

	lat, lng := in.LocationLat, in.LocationLng
	if lat == nil || lng == nil {
		// Best-effort geocoding; a booking without coordinates is still valid.
		if geoLat, geoLng, err := utils.GeocodeAddress(in.Location); err == nil {
			lat, lng = &geoLat, &geoLng
		} else {
			log.Printf("⚠️ Geocoding failed for %q: %v", in.Location, err)
		}
	}

	booking := &models.Booking{
		ClientID:     clientID,
		ArtistID:     in.ArtistID,
		EventDate:    in.EventDate,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		Location:     in.Location,
		LocationLat:  lat,
		LocationLng:  lng,
		ContactPhone: in.ContactPhone,
		Notes:        in.Notes,
		Status:       models.BookingStatusPending,
	}

	gap := minGap()
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockSlotConflict(tx, in.ArtistID, 0, in.StartTime, in.EndTime, gap); err != nil {
			return err
		}
		return tx.Create(booking).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Booking %d created: client %d → artist %d", booking.ID, clientID, in.ArtistID)
	bs.notifications.Notify(in.ArtistID, models.NotificationTypeBooking,
		"You have a new booking request", NotificationRef{BookingID: &booking.ID})

	return booking, nil
}

// GetBooking loads a booking with its relations; only a party may read it.
func (bs *BookingService) GetBooking(bookingID, callerID uint) (*models.Booking, error) {
	booking, err := bs.loadBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParty(callerID) {
		return nil, types.NewForbidden("you are not a party to this booking")
	}
	return booking, nil
}

func (bs *BookingService) loadBooking(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	err := database.DB.
		Preload("Client").
		Preload("Artist").
		Preload("Payments").
		Preload("Contract").
		First(&booking, bookingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewNotFound("booking not found")
		}
		return nil, err
	}
	return &booking, nil
}

// reviewDecisionError validates the artist's accept/reject decision against
// the booking's current status. A cancellation request resolves only through
// the dedicated approve/decline operations, never through this endpoint.
func reviewDecisionError(current, decision models.BookingStatus) error {
	if decision != models.BookingStatusAccepted && decision != models.BookingStatusRejected {
		return types.NewInvalidTransition(
			fmt.Sprintf("status %q cannot be set directly", decision))
	}
	if current != models.BookingStatusPending {
		return types.NewInvalidTransition(
			fmt.Sprintf("only a pending booking request can be %s", decision))
	}
	return nil
}

// UpdateStatus handles the artist's accept/reject decision on a pending
// booking. All other transitions go through their dedicated operations.
func (bs *BookingService) UpdateStatus(bookingID, callerID uint, newStatus models.BookingStatus) (*models.Booking, error) {
	if !models.IsValidBookingStatus(newStatus) {
		return nil, types.NewValidationError(fmt.Sprintf("unknown status %q", newStatus))
	}

	booking, err := bs.loadBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParty(callerID) {
		return nil, types.NewForbidden("you are not a party to this booking")
	}
	if err := reviewDecisionError(booking.Status, newStatus); err != nil {
		return nil, err
	}
	if callerID != booking.ArtistID {
		return nil, types.NewForbidden("only the artist can accept or reject a booking request")
	}

	if newStatus == models.BookingStatusAccepted {
		// Two pending requests may share a window; accepting is what
		// reserves the slot, so the overlap check runs again here.
		gap := minGap()
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := lockSlotConflict(tx, booking.ArtistID, bookingID, booking.StartTime, booking.EndTime, gap); err != nil {
				return err
			}
			return transitionIn(tx, bookingID, booking.Status, map[string]interface{}{
				"status": newStatus,
			})
		})
		if err != nil {
			return nil, err
		}
	} else if err := bs.transition(bookingID, booking.Status, map[string]interface{}{
		"status": newStatus,
	}); err != nil {
		return nil, err
	}

	message := "Your booking request was accepted"
	if newStatus == models.BookingStatusRejected {
		message = "Your booking request was rejected"
	}
	bs.notifications.Notify(booking.ClientID, models.NotificationTypeBooking,
		message, NotificationRef{BookingID: &booking.ID})

	return bs.loadBooking(bookingID)
}

// RequestCancellation starts the two-phase cancellation protocol. The
// current status is memoized so a declined request can restore it.
func (bs *BookingService) RequestCancellation(bookingID, callerID uint, reason, notes string) (*models.Booking, error) {
	booking, err := bs.loadBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParty(callerID) {
		return nil, types.NewForbidden("you are not a party to this booking")
	}
	if booking.IsTerminal() || booking.InCancellation() {
		return nil, types.NewInvalidTransition(
			fmt.Sprintf("cannot request cancellation while booking is %q", booking.Status))
	}

	target := models.BookingStatusCancellationRequestedByClient
	if callerID == booking.ArtistID {
		target = models.BookingStatusCancellationRequestedByArtist
	}

	prior := booking.Status
	if err := bs.transition(bookingID, booking.Status, map[string]interface{}{
		"status":                    target,
		"prior_status":              prior,
		"cancellation_requested_by": callerID,
		"cancellation_reason":       reason,
		"cancellation_notes":        notes,
	}); err != nil {
		return nil, err
	}

	counterparty := booking.Counterparty(callerID)
	bs.notifications.Notify(counterparty, models.NotificationTypeCancellationRequest,
		"The other party has requested to cancel a booking", NotificationRef{BookingID: &booking.ID})

	log.Printf("✅ Cancellation requested on booking %d by user %d", bookingID, callerID)
	return bs.loadBooking(bookingID)
}

// ApproveCancellation lets the counterparty of a pending cancellation
// request confirm it. The requester can never approve their own request.
func (bs *BookingService) ApproveCancellation(bookingID, callerID uint) (*models.Booking, error) {
	booking, err := bs.loadBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParty(callerID) {
		return nil, types.NewForbidden("you are not a party to this booking")
	}
	if !booking.InCancellation() {
		return nil, types.NewInvalidTransition("no cancellation request is pending on this booking")
	}
	if booking.CancellationRequestedBy != nil && *booking.CancellationRequestedBy == callerID {
		return nil, types.NewForbidden("the requester cannot approve their own cancellation request")
	}

	if err := bs.transition(bookingID, booking.Status, map[string]interface{}{
		"status": models.BookingStatusCancelled,
	}); err != nil {
		return nil, err
	}

	bs.notifications.NotifyBoth(booking.ClientID, booking.ArtistID,
		models.NotificationTypeCancellationApproval,
		"The booking has been cancelled", NotificationRef{BookingID: &booking.ID})

	log.Printf("✅ Booking %d cancelled (approved by user %d)", bookingID, callerID)
	return bs.loadBooking(bookingID)
}

// DeclineCancellation lets the counterparty refuse a cancellation request,
// reverting the booking to the status it held before the request.
func (bs *BookingService) DeclineCancellation(bookingID, callerID uint) (*models.Booking, error) {
	booking, err := bs.loadBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParty(callerID) {
		return nil, types.NewForbidden("you are not a party to this booking")
	}
	if !booking.InCancellation() {
		return nil, types.NewInvalidTransition("no cancellation request is pending on this booking")
	}
	if booking.CancellationRequestedBy != nil && *booking.CancellationRequestedBy == callerID {
		return nil, types.NewForbidden("the requester cannot decline their own cancellation request")
	}

	restored := models.BookingStatusAccepted
	if booking.PriorStatus != nil {
		restored = *booking.PriorStatus
	}

	if err := bs.transition(bookingID, booking.Status, map[string]interface{}{
		"status":                    restored,
		"prior_status":              nil,
		"cancellation_requested_by": nil,
		"cancellation_reason":       "",
		"cancellation_notes":        "",
	}); err != nil {
		return nil, err
	}

	if booking.CancellationRequestedBy != nil {
		bs.notifications.Notify(*booking.CancellationRequestedBy, models.NotificationTypeBooking,
			"Your cancellation request was declined", NotificationRef{BookingID: &booking.ID})
	}

	log.Printf("✅ Cancellation declined on booking %d; restored %q", bookingID, restored)
	return bs.loadBooking(bookingID)
}

// UpdateSchedule lets the client move a still-pending booking to a new
// window, re-running the overlap check with the same buffer as creation.
func (bs *BookingService) UpdateSchedule(bookingID, callerID uint, eventDate, startTime, endTime time.Time) (*models.Booking, error) {
	if !startTime.Before(endTime) {
		return nil, types.NewValidationError("start time must be before end time")
	}

	booking, err := bs.loadBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if callerID != booking.ClientID {
		return nil, types.NewForbidden("only the client can edit the booking schedule")
	}
	if booking.Status != models.BookingStatusPending {
		return nil, types.NewInvalidTransition("schedule can only be edited while the booking is pending")
	}

	gap := minGap()
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockSlotConflict(tx, booking.ArtistID, bookingID, startTime, endTime, gap); err != nil {
			return err
		}

		result := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", bookingID, models.BookingStatusPending).
			Updates(map[string]interface{}{
				"event_date": eventDate,
				"start_time": startTime,
				"end_time":   endTime,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return types.NewInvalidTransition("booking changed state while editing the schedule")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	bs.notifications.Notify(booking.ArtistID, models.NotificationTypeBooking,
		"A booking request's schedule was updated", NotificationRef{BookingID: &booking.ID})

	return bs.loadBooking(bookingID)
}

// Complete finalizes a booked engagement. Requires the event window to have
// passed, the contract to be signed and the final payment confirmed.
func (bs *BookingService) Complete(bookingID, callerID uint) (*models.Booking, error) {
	booking, err := bs.loadBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.ClientID != callerID {
		return nil, types.NewForbidden("only the client can confirm completion")
	}
	if booking.Status != models.BookingStatusBooked {
		return nil, types.NewInvalidTransition("only a booked engagement can be completed")
	}
	if time.Now().Before(booking.EndTime) {
		return nil, types.NewInvalidTransition("the engagement has not ended yet")
	}
	if booking.ContractStatus != models.ContractStatusSigned {
		return nil, types.NewInvalidTransition("the contract has not been signed")
	}
	if !booking.IsFinalPaid() {
		return nil, types.NewInvalidTransition("the final payment has not been confirmed")
	}

	now := time.Now()
	if err := bs.transition(bookingID, models.BookingStatusBooked, map[string]interface{}{
		"status":       models.BookingStatusCompleted,
		"completed_at": now,
	}); err != nil {
		return nil, err
	}

	bs.notifications.NotifyBoth(booking.ClientID, booking.ArtistID,
		models.NotificationTypeBooking,
		"The booking has been completed", NotificationRef{BookingID: &booking.ID})

	log.Printf("✅ Booking %d completed", bookingID)
	return bs.loadBooking(bookingID)
}

// MarkBooked promotes an accepted booking to booked. Called by the payment
// intake when the advance payment is confirmed.
func (bs *BookingService) MarkBooked(bookingID uint) (*models.Booking, error) {
	booking, err := bs.loadBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingStatusAccepted {
		return nil, types.NewInvalidTransition("only an accepted booking can become booked")
	}

	if err := bs.transition(bookingID, models.BookingStatusAccepted, map[string]interface{}{
		"status": models.BookingStatusBooked,
	}); err != nil {
		return nil, err
	}

	bs.notifications.NotifyBoth(booking.ClientID, booking.ArtistID,
		models.NotificationTypeBooking,
		"The booking is confirmed", NotificationRef{BookingID: &booking.ID})

	return bs.loadBooking(bookingID)
}

// transition performs the atomic check-and-set every status change goes
// through: a single-row UPDATE guarded by the expected current status. A
// zero rows-affected result means another writer got there first.
func (bs *BookingService) transition(bookingID uint, expected models.BookingStatus, updates map[string]interface{}) error {
	return transitionIn(database.DB, bookingID, expected, updates)
}

func transitionIn(tx *gorm.DB, bookingID uint, expected models.BookingStatus, updates map[string]interface{}) error {
	result := tx.Model(&models.Booking{}).
		Where("id = ? AND status = ?", bookingID, expected).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return types.NewInvalidTransition("booking changed state concurrently, please retry")
	}
	return nil
}

// ListFilter selects/orders a user's bookings. Status accepts any concrete
// status plus the synthetic "cancellation_requests" filter.
type ListFilter struct {
	Status    string
	SortBy    string // createdAt | updatedAt | priority
	SortOrder string // asc | desc
}

// ListBookings returns the caller's bookings (as client or as artist per
// their role; admins see everything) with filtering and sorting applied.
func (bs *BookingService) ListBookings(userID uint, role models.UserRole, filter ListFilter) ([]models.Booking, error) {
	query := database.DB.Model(&models.Booking{}).
		Preload("Client").
		Preload("Artist").
		Preload("Payments").
		Preload("Contract")

	switch role {
	case models.RoleClient:
		query = query.Where("client_id = ?", userID)
	case models.RoleArtist:
		query = query.Where("artist_id = ?", userID)
	case models.RoleAdmin:
		// unfiltered
	default:
		return nil, types.NewForbidden("unknown role")
	}

	switch filter.Status {
	case "":
		// no filter
	case "cancellation_requests":
		query = query.Where("status IN ?", []models.BookingStatus{
			models.BookingStatusCancellationRequestedByClient,
			models.BookingStatusCancellationRequestedByArtist,
		})
	default:
		if !models.IsValidBookingStatus(models.BookingStatus(filter.Status)) {
			return nil, types.NewValidationError(fmt.Sprintf("unknown status filter %q", filter.Status))
		}
		query = query.Where("status = ?", filter.Status)
	}

	switch filter.SortBy {
	case "", "createdAt":
		order := "created_at DESC"
		if filter.SortOrder == "asc" {
			order = "created_at ASC"
		}
		query = query.Order(order)
	case "updatedAt":
		query = query.Order("updated_at DESC")
	case "priority":
		// Fetched unordered; sorted in memory below.
	default:
		return nil, types.NewValidationError(fmt.Sprintf("unknown sort key %q", filter.SortBy))
	}

	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return nil, err
	}

	if filter.SortBy == "priority" {
		SortByPriority(bookings)
	}

	return bookings, nil
}

// SortByPriority orders bookings so states needing a decision come first,
// breaking ties by soonest event date.
func SortByPriority(bookings []models.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		pi, pj := models.StatusPriority(bookings[i].Status), models.StatusPriority(bookings[j].Status)
		if pi != pj {
			return pi > pj
		}
		return bookings[i].EventDate.Before(bookings[j].EventDate)
	})
}
