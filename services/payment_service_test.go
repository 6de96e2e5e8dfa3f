package services

import (
	"testing"
	"time"

	"artist-marketplace-server/models"
)

func confirmedPayment(paymentType models.PaymentType) models.Payment {
	now := time.Now()
	return models.Payment{
		PaymentType: paymentType,
		Status:      models.PaymentStatusConfirmed,
		ConfirmedAt: &now,
	}
}

func TestPaymentPreconditions(t *testing.T) {
	advance := confirmedPayment(models.PaymentTypeAdvance)
	final := confirmedPayment(models.PaymentTypeFinal)

	tests := []struct {
		name        string
		booking     models.Booking
		paymentType models.PaymentType
		wantErr     bool
	}{
		{
			name:        "advance on accepted booking",
			booking:     models.Booking{Status: models.BookingStatusAccepted},
			paymentType: models.PaymentTypeAdvance,
		},
		{
			name:        "advance on pending booking",
			booking:     models.Booking{Status: models.BookingStatusPending},
			paymentType: models.PaymentTypeAdvance,
			wantErr:     true,
		},
		{
			name: "advance paid twice",
			booking: models.Booking{
				Status:   models.BookingStatusAccepted,
				Payments: []models.Payment{advance},
			},
			paymentType: models.PaymentTypeAdvance,
			wantErr:     true,
		},
		{
			name: "final before booked",
			booking: models.Booking{
				Status:   models.BookingStatusAccepted,
				Payments: []models.Payment{advance},
			},
			paymentType: models.PaymentTypeFinal,
			wantErr:     true,
		},
		{
			name: "final without advance",
			booking: models.Booking{
				Status:         models.BookingStatusBooked,
				ContractStatus: models.ContractStatusSigned,
			},
			paymentType: models.PaymentTypeFinal,
			wantErr:     true,
		},
		{
			name: "final without signed contract",
			booking: models.Booking{
				Status:         models.BookingStatusBooked,
				ContractStatus: models.ContractStatusDraft,
				Payments:       []models.Payment{advance},
			},
			paymentType: models.PaymentTypeFinal,
			wantErr:     true,
		},
		{
			name: "final when due",
			booking: models.Booking{
				Status:         models.BookingStatusBooked,
				ContractStatus: models.ContractStatusSigned,
				Payments:       []models.Payment{advance},
			},
			paymentType: models.PaymentTypeFinal,
		},
		{
			name: "final paid twice",
			booking: models.Booking{
				Status:         models.BookingStatusBooked,
				ContractStatus: models.ContractStatusSigned,
				Payments:       []models.Payment{advance, final},
			},
			paymentType: models.PaymentTypeFinal,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := paymentPreconditionError(&tt.booking, tt.paymentType)
			if (err != nil) != tt.wantErr {
				t.Errorf("paymentPreconditionError = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
