package services

import (
	"log"

	"artist-marketplace-server/database"
	"artist-marketplace-server/models"
	"artist-marketplace-server/types"
	"artist-marketplace-server/websocket"
)

// NotificationService persists notifications and pushes them to connected
// recipients. The database row is the source of truth; the websocket emit
// is best-effort and never fails the calling operation.
type NotificationService struct {
	hub *websocket.Hub
}

// NewNotificationService creates a new notification service
func NewNotificationService(hub *websocket.Hub) *NotificationService {
	return &NotificationService{hub: hub}
}

// NotificationRef carries the optional deep-link references for a
// notification.
type NotificationRef struct {
	BookingID   *uint
	ArtistID    *uint
	ContractURL string
}

// Notify inserts a notification row and, if the recipient has live
// connections, pushes it over the websocket hub.
func (ns *NotificationService) Notify(recipientID uint, notifType models.NotificationType, message string, ref NotificationRef) (*models.Notification, error) {
	notification := &models.Notification{
		RecipientID: recipientID,
		Type:        notifType,
		Message:     message,
		BookingID:   ref.BookingID,
		ArtistID:    ref.ArtistID,
		ContractURL: ref.ContractURL,
	}

	if err := database.DB.Create(notification).Error; err != nil {
		log.Printf("❌ Failed to persist notification for user %d: %v", recipientID, err)
		return nil, err
	}

	if ns.hub != nil {
		ns.hub.EmitToUser(recipientID, "notification", notification)
	}

	return notification, nil
}

// NotifyBoth sends the same notification to both parties of a booking.
func (ns *NotificationService) NotifyBoth(userA, userB uint, notifType models.NotificationType, message string, ref NotificationRef) {
	if _, err := ns.Notify(userA, notifType, message, ref); err != nil {
		log.Printf("⚠️ Notification to user %d failed: %v", userA, err)
	}
	if _, err := ns.Notify(userB, notifType, message, ref); err != nil {
		log.Printf("⚠️ Notification to user %d failed: %v", userB, err)
	}
}

// MarkRead marks a single notification as read; only the recipient may do so.
func (ns *NotificationService) MarkRead(notificationID, userID uint) error {
	result := database.DB.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return types.NewNotFound("notification not found")
	}
	return nil
}

// MarkAllRead marks every unread notification for a user as read and
// returns how many were affected.
func (ns *NotificationService) MarkAllRead(userID uint) (int64, error) {
	result := database.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

// UnreadCount returns the number of unread notifications for a user.
func (ns *NotificationService) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := database.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// List returns a page of the user's notifications, newest first, with an
// optional type filter.
func (ns *NotificationService) List(userID uint, notifType string, page, limit int) ([]models.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := database.DB.Model(&models.Notification{}).Where("recipient_id = ?", userID)
	if notifType != "" {
		query = query.Where("type = ?", notifType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&notifications).Error
	return notifications, total, err
}
