package models

import (
	"time"
)

// Conversation is the unique chat thread between exactly two identities.
// Members are stored in normalized order (lower user ID first) so the
// unordered pair maps to exactly one row regardless of who opened it.
type Conversation struct {
	ID      uint     `json:"id" gorm:"primaryKey"`
	UserAID uint     `json:"user_a_id" gorm:"not null;uniqueIndex:idx_conversations_pair,priority:1"`
	RoleA   UserRole `json:"role_a" gorm:"type:varchar(20);not null"`
	UserBID uint     `json:"user_b_id" gorm:"not null;uniqueIndex:idx_conversations_pair,priority:2"`
	RoleB   UserRole `json:"role_b" gorm:"type:varchar(20);not null"`

	LastMessageAt   *time.Time `json:"last_message_at"`
	LastMessageText string     `json:"last_message_text"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	UserA User `json:"user_a,omitempty" gorm:"foreignKey:UserAID"`
	UserB User `json:"user_b,omitempty" gorm:"foreignKey:UserBID"`
}

// Message belongs to exactly one conversation. Deletion is a sender-only
// hard delete; chat history carries no edit or audit requirement.
type Message struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ConversationID uint      `json:"conversation_id" gorm:"not null;index"`
	SenderID       uint      `json:"sender_id" gorm:"not null"`
	ReceiverID     uint      `json:"receiver_id" gorm:"not null"`
	Text           string    `json:"text" gorm:"type:text"`
	ImageURL       string    `json:"image_url" gorm:"size:500"`
	CreatedAt      time.Time `json:"created_at"`

	Conversation Conversation `json:"conversation,omitempty" gorm:"foreignKey:ConversationID"`
}

// TableName specifies the table name for the Conversation model
func (Conversation) TableName() string {
	return "conversations"
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}

// NormalizeMemberPair orders two (user, role) members so the lower user ID
// comes first. Both get-or-create and lookup go through this, which is what
// makes the conversation unique per unordered pair.
func NormalizeMemberPair(userA uint, roleA UserRole, userB uint, roleB UserRole) (uint, UserRole, uint, UserRole) {
	if userA > userB {
		return userB, roleB, userA, roleA
	}
	return userA, roleA, userB, roleB
}

// OtherMember returns the counterpart of userID in the conversation; zero
// if userID is not a member.
func (c *Conversation) OtherMember(userID uint) uint {
	switch userID {
	case c.UserAID:
		return c.UserBID
	case c.UserBID:
		return c.UserAID
	}
	return 0
}

// HasMember reports whether userID participates in the conversation.
func (c *Conversation) HasMember(userID uint) bool {
	return c.UserAID == userID || c.UserBID == userID
}
