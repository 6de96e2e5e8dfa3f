package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contract is the record of an externally generated engagement contract.
// Generation and e-signing happen in a collaborator service; the ledger
// only reads the status to gate booking transitions.
type Contract struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	BookingID      uint           `json:"booking_id" gorm:"not null;uniqueIndex"`
	ContractNumber string         `json:"contract_number" gorm:"size:64;uniqueIndex;not null"`
	Status         ContractStatus `json:"status" gorm:"type:varchar(20);not null;default:'draft'"`
	DocumentURL    string         `json:"document_url" gorm:"size:500"`
	SignedAt       *time.Time     `json:"signed_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	Booking Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
}

// TableName specifies the table name for the Contract model
func (Contract) TableName() string {
	return "contracts"
}

// BeforeCreate assigns a contract number when the caller didn't.
func (c *Contract) BeforeCreate(tx *gorm.DB) error {
	if c.ContractNumber == "" {
		c.ContractNumber = "CT-" + uuid.NewString()
	}
	return nil
}
