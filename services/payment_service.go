package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"artist-marketplace-server/database"
	"artist-marketplace-server/models"
	"artist-marketplace-server/types"
)

// PaymentService records gateway-confirmed payments against bookings. The
// gateway itself is external; this service only validates that a confirmed
// payment is legal in the booking's current state and applies its effects.
type PaymentService struct {
	bookings      *BookingService
	contracts     *ContractService
	notifications *NotificationService
}

// NewPaymentService creates a new payment service
func NewPaymentService(bookings *BookingService, contracts *ContractService, notifications *NotificationService) *PaymentService {
	return &PaymentService{
		bookings:      bookings,
		contracts:     contracts,
		notifications: notifications,
	}
}

// ConfirmPaymentInput is the gateway confirmation payload.
type ConfirmPaymentInput struct {
	BookingID   uint               `json:"booking_id" binding:"required"`
	PaymentType models.PaymentType `json:"payment_type" binding:"required"`
	Amount      float64            `json:"amount" binding:"required,gt=0"`
	Reference   string             `json:"reference"`
}

// paymentPreconditionError validates a confirmed payment of the given type
// against the booking's current state.
func paymentPreconditionError(booking *models.Booking, paymentType models.PaymentType) error {
	switch paymentType {
	case models.PaymentTypeAdvance:
		if booking.Status != models.BookingStatusAccepted {
			return types.NewInvalidTransition("advance payment requires an accepted booking")
		}
		if booking.IsPaid() {
			return types.NewValidationError("advance payment already confirmed")
		}
	case models.PaymentTypeFinal:
		if booking.Status != models.BookingStatusBooked {
			return types.NewInvalidTransition("final payment requires a booked engagement")
		}
		if !booking.IsPaid() {
			return types.NewInvalidTransition("final payment requires a confirmed advance payment")
		}
		if booking.ContractStatus != models.ContractStatusSigned {
			return types.NewInvalidTransition("final payment requires a signed contract")
		}
		if booking.IsFinalPaid() {
			return types.NewValidationError("final payment already confirmed")
		}
	}
	return nil
}

// Confirm records a confirmed payment.
//
// An advance payment is only legal on an accepted booking and promotes it
// to booked (which also issues the contract draft). A final payment
// additionally requires the contract to be signed and the advance to exist,
// and unlocks completion. The booking row is locked for the duration of
// the precondition check so two concurrent confirmations serialize.
func (ps *PaymentService) Confirm(callerID uint, in ConfirmPaymentInput) (*models.Payment, error) {
	if in.PaymentType != models.PaymentTypeAdvance && in.PaymentType != models.PaymentTypeFinal {
		return nil, types.NewValidationError(fmt.Sprintf("unknown payment type %q", in.PaymentType))
	}

	var booking models.Booking
	var payment *models.Payment
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, in.BookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewNotFound("booking not found")
			}
			return err
		}
		if callerID != booking.ClientID {
			return types.NewForbidden("only the client pays for a booking")
		}
		if err := tx.Where("booking_id = ?", in.BookingID).Find(&booking.Payments).Error; err != nil {
			return err
		}
		if err := paymentPreconditionError(&booking, in.PaymentType); err != nil {
			return err
		}

		now := time.Now()
		payment = &models.Payment{
			BookingID:   in.BookingID,
			PayerID:     callerID,
			PaymentType: in.PaymentType,
			Amount:      in.Amount,
			Status:      models.PaymentStatusConfirmed,
			Reference:   in.Reference,
			ConfirmedAt: &now,
		}
		if err := tx.Create(payment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return types.NewValidationError("duplicate payment reference")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ %s payment confirmed on booking %d (ref %s)", in.PaymentType, in.BookingID, payment.Reference)

	ps.notifications.Notify(booking.ArtistID, models.NotificationTypePayment,
		fmt.Sprintf("A %s payment was confirmed for your booking", in.PaymentType),
		NotificationRef{BookingID: &booking.ID})

	if in.PaymentType == models.PaymentTypeAdvance {
		if _, err := ps.bookings.MarkBooked(in.BookingID); err != nil {
			// The payment row is kept; the promotion is retried by support
			// tooling if this ever fires.
			log.Printf("❌ Failed to promote booking %d after advance payment: %v", in.BookingID, err)
			return payment, err
		}
		if _, err := ps.contracts.IssueDraft(in.BookingID); err != nil {
			log.Printf("⚠️ Contract draft for booking %d not issued: %v", in.BookingID, err)
		}
	}

	return payment, nil
}
