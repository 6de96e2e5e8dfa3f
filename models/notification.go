package models

import (
	"time"
)

type NotificationType string

const (
	NotificationTypeBooking              NotificationType = "booking"
	NotificationTypeContract             NotificationType = "contract"
	NotificationTypePayment              NotificationType = "payment"
	NotificationTypeReview               NotificationType = "review"
	NotificationTypeCancellationRequest  NotificationType = "booking_cancellation_request"
	NotificationTypeCancellationApproval NotificationType = "booking_cancellation_approval"
)

// Notification is one durable fact delivered to one user. Rows are only
// ever inserted and marked read; live push is a convenience on top.
type Notification struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	RecipientID uint             `json:"recipient_id" gorm:"not null;index:idx_notifications_recipient_read,priority:1"`
	Type        NotificationType `json:"type" gorm:"type:varchar(40);not null"`
	Message     string           `json:"message" gorm:"type:text;not null"`
	IsRead      bool             `json:"is_read" gorm:"default:false;index:idx_notifications_recipient_read,priority:2"`

	// Optional deep-link references
	BookingID   *uint  `json:"booking_id,omitempty"`
	ArtistID    *uint  `json:"artist_id,omitempty"`
	ContractURL string `json:"contract_url,omitempty" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Recipient User `json:"recipient,omitempty" gorm:"foreignKey:RecipientID"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}
