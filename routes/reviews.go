package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"artist-marketplace-server/database"
	"artist-marketplace-server/middleware"
	"artist-marketplace-server/models"
	"artist-marketplace-server/services"
)

// RegisterReviewRoutes sets up review routes
func RegisterReviewRoutes(router *gin.RouterGroup) {
	reviews := router.Group("/reviews")
	reviews.Use(middleware.AuthMiddleware())
	{
		reviews.POST("", createReview)
	}
}

// createReview lets the client of a completed booking rate the artist.
// One review per booking.
func createReview(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.ReviewCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": "Invalid review data",
			"details": err.Error(),
		})
		return
	}

	var booking models.Booking
	if err := database.DB.First(&booking, req.BookingID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Booking not found"})
		return
	}

	if booking.ClientID != userID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Only the booking's client can leave a review"})
		return
	}
	if booking.Status != models.BookingStatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Only completed bookings can be reviewed"})
		return
	}

	var existing models.Review
	if err := database.DB.Where("booking_id = ?", req.BookingID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "This booking has already been reviewed"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		renderError(c, err)
		return
	}

	review := models.Review{
		BookingID: req.BookingID,
		ClientID:  userID,
		ArtistID:  booking.ArtistID,
		Stars:     req.Stars,
		Comment:   middleware.SanitizeInput(req.Comment),
	}
	if err := database.DB.Create(&review).Error; err != nil {
		renderError(c, err)
		return
	}

	notificationService.Notify(booking.ArtistID, models.NotificationTypeReview,
		"You received a new review", services.NotificationRef{BookingID: &booking.ID})

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": review})
}
