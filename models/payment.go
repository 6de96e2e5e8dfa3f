package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentType string

const (
	PaymentTypeAdvance PaymentType = "advance"
	PaymentTypeFinal   PaymentType = "final"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusConfirmed PaymentStatus = "confirmed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment is one gateway-reported payment attached to a booking. The
// gateway's internals are not modeled; we only record what it confirms.
type Payment struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	BookingID   uint          `json:"booking_id" gorm:"not null;index"`
	PayerID     uint          `json:"payer_id" gorm:"not null"`
	PaymentType PaymentType   `json:"payment_type" gorm:"type:varchar(10);not null;check:payment_type IN ('advance','final')"`
	Amount      float64       `json:"amount" gorm:"type:decimal(10,2);not null"`
	Status      PaymentStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	Reference   string        `json:"reference" gorm:"size:64;uniqueIndex;not null"`
	ConfirmedAt *time.Time    `json:"confirmed_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	Booking Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
}

// TableName specifies the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// BeforeCreate assigns a gateway reference when the caller didn't.
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.Reference == "" {
		p.Reference = uuid.NewString()
	}
	return nil
}
