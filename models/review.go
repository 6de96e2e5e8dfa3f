package models

import (
	"time"

	"gorm.io/gorm"
)

// Review is a client's rating of an artist after a completed booking.
type Review struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	BookingID uint   `json:"booking_id" gorm:"not null;uniqueIndex"`
	ClientID  uint   `json:"client_id" gorm:"not null"`
	ArtistID  uint   `json:"artist_id" gorm:"not null;index"`
	Stars     int    `json:"stars" gorm:"type:int;not null;check:stars >= 1 AND stars <= 5"`
	Comment   string `json:"comment" gorm:"type:text"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	Booking Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
	Client  User    `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Artist  User    `json:"artist,omitempty" gorm:"foreignKey:ArtistID"`
}

// ReviewCreate is the request payload for creating a review.
type ReviewCreate struct {
	BookingID uint   `json:"booking_id" binding:"required"`
	Stars     int    `json:"stars" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}
