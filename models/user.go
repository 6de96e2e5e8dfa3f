package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleClient UserRole = "client"
	RoleArtist UserRole = "artist"
	RoleAdmin  UserRole = "admin"
)

type User struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	FullName          string    `json:"full_name" gorm:"size:255;not null"`
	Email             string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash      string    `json:"-" gorm:"size:255;not null"` // Hidden from JSON
	Role              UserRole  `json:"role" gorm:"type:varchar(20);not null;default:'client';check:role IN ('client','artist','admin')"`
	ProfilePictureURL *string   `json:"profile_picture_url" gorm:"size:255"`
	IsActive          bool      `json:"is_active" gorm:"default:true"`
	CreatedAt         time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	ArtistProfile *ArtistProfile `json:"artist_profile,omitempty" gorm:"foreignKey:UserID"`
}

// ArtistProfile carries the performer-specific data a client sees when
// booking: category, wage and the KYC state an admin reviews.
type ArtistProfile struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UserID         uint      `json:"user_id" gorm:"not null;uniqueIndex"`
	StageName      string    `json:"stage_name" gorm:"size:255;not null"`
	Category       string    `json:"category" gorm:"size:100;not null"` // singer, band, dj, dancer, ...
	Bio            string    `json:"bio" gorm:"type:text"`
	HourlyWage     float64   `json:"hourly_wage" gorm:"type:decimal(10,2);not null"`
	City           string    `json:"city" gorm:"size:100"`
	BaseLat        *float64  `json:"base_lat" gorm:"type:decimal(10,8)"`
	BaseLng        *float64  `json:"base_lng" gorm:"type:decimal(11,8)"`
	KYCDocumentURL string    `json:"kyc_document_url" gorm:"size:500"`
	IsVerified     bool      `json:"is_verified" gorm:"default:false"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// TableName specifies the table name for the ArtistProfile model
func (ArtistProfile) TableName() string {
	return "artist_profiles"
}

// BeforeCreate is a GORM hook that runs before creating a user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleClient
	}
	return nil
}

// IsValidRole checks if the user role is valid
func (u *User) IsValidRole() bool {
	switch u.Role {
	case RoleClient, RoleArtist, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsArtist checks if the user is an artist
func (u *User) IsArtist() bool {
	return u.Role == RoleArtist
}

// IsAdmin checks if the user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsClient checks if the user is a client
func (u *User) IsClient() bool {
	return u.Role == RoleClient
}
