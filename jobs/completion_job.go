package jobs

import (
	"log"
	"time"

	"artist-marketplace-server/database"
	"artist-marketplace-server/models"
	"artist-marketplace-server/services"
)

// CompletionJob finalizes booked engagements once their event window has
// passed and the contract/payment gates are satisfied, so a booking
// neither party explicitly closed still reaches its terminal state.
type CompletionJob struct {
	notifications *services.NotificationService
	stopChan      chan bool
}

// NewCompletionJob creates a new completion job
func NewCompletionJob(notifications *services.NotificationService) *CompletionJob {
	return &CompletionJob{
		notifications: notifications,
		stopChan:      make(chan bool),
	}
}

// Start begins the completion job
func (j *CompletionJob) Start() {
	go j.run()
	log.Println("🚀 Completion job started")
}

// Stop stops the completion job
func (j *CompletionJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Completion job stopped")
}

func (j *CompletionJob) run() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.completeFinished()
		case <-j.stopChan:
			return
		}
	}
}

// completeFinished finds booked engagements past their end time whose
// contract is signed and final payment confirmed, and completes them.
func (j *CompletionJob) completeFinished() {
	var candidates []models.Booking

	err := database.DB.Preload("Payments").
		Where("status = ? AND end_time <= ? AND contract_status = ?",
			models.BookingStatusBooked, time.Now(), models.ContractStatusSigned).
		Find(&candidates).Error
	if err != nil {
		log.Printf("❌ Error querying finished bookings: %v", err)
		return
	}

	for _, booking := range candidates {
		if !booking.IsFinalPaid() {
			continue
		}
		j.complete(booking)
	}
}

func (j *CompletionJob) complete(booking models.Booking) {
	now := time.Now()

	// Status precondition on the write: a concurrent manual completion or
	// cancellation approval simply makes this a no-op.
	result := database.DB.Model(&models.Booking{}).
		Where("id = ? AND status = ?", booking.ID, models.BookingStatusBooked).
		Updates(map[string]interface{}{
			"status":       models.BookingStatusCompleted,
			"completed_at": now,
		})
	if result.Error != nil {
		log.Printf("❌ Failed to complete booking %d: %v", booking.ID, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		return
	}

	log.Printf("⏰ Booking %d auto-completed", booking.ID)
	j.notifications.NotifyBoth(booking.ClientID, booking.ArtistID,
		models.NotificationTypeBooking,
		"The booking has been completed",
		services.NotificationRef{BookingID: &booking.ID})
}
