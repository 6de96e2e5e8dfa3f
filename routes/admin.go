package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"artist-marketplace-server/database"
	"artist-marketplace-server/middleware"
	"artist-marketplace-server/models"
	"artist-marketplace-server/services"
)

// RegisterAdminRoutes sets up the admin surface
func RegisterAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	{
		admin.POST("/login", adminLogin)

		protected := admin.Group("")
		protected.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAdmin))
		{
			protected.GET("/stats", getAdminStats)
			protected.GET("/users", listUsers)
			protected.PATCH("/users/:id/status", setUserStatus)
			protected.PATCH("/artists/:id/verify", verifyArtist)
		}
	}
}

// adminLogin is a role-gated login: valid credentials on a non-admin
// account still fail.
func adminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": "Invalid login data"})
		return
	}

	var user models.User
	if err := database.DB.Where("email = ? AND role = ?", req.Email, models.RoleAdmin).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid admin credentials"})
		return
	}

	if !jwtService.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid admin credentials"})
		return
	}

	tokens, err := jwtService.GenerateTokenPair(&user, req.DeviceID, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"user": user, "tokens": tokens}})
}

func getAdminStats(c *gin.Context) {
	var stats struct {
		Users, Artists, VerifiedArtists       int64
		Bookings, ActiveBookings, Completed   int64
		PendingCancellations, Conversations   int64
	}

	database.DB.Model(&models.User{}).Count(&stats.Users)
	database.DB.Model(&models.ArtistProfile{}).Count(&stats.Artists)
	database.DB.Model(&models.ArtistProfile{}).Where("is_verified = ?", true).Count(&stats.VerifiedArtists)
	database.DB.Model(&models.Booking{}).Count(&stats.Bookings)
	database.DB.Model(&models.Booking{}).
		Where("status IN ?", []models.BookingStatus{models.BookingStatusAccepted, models.BookingStatusBooked}).
		Count(&stats.ActiveBookings)
	database.DB.Model(&models.Booking{}).
		Where("status = ?", models.BookingStatusCompleted).
		Count(&stats.Completed)
	database.DB.Model(&models.Booking{}).
		Where("status IN ?", []models.BookingStatus{
			models.BookingStatusCancellationRequestedByClient,
			models.BookingStatusCancellationRequestedByArtist,
		}).
		Count(&stats.PendingCancellations)
	database.DB.Model(&models.Conversation{}).Count(&stats.Conversations)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"users":                 stats.Users,
			"artists":               stats.Artists,
			"verified_artists":      stats.VerifiedArtists,
			"bookings":              stats.Bookings,
			"active_bookings":       stats.ActiveBookings,
			"completed_bookings":    stats.Completed,
			"pending_cancellations": stats.PendingCancellations,
			"conversations":         stats.Conversations,
		},
	})
}

func listUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	query := database.DB.Model(&models.User{}).Preload("ArtistProfile")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error; err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    users,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// setUserStatus activates or deactivates an account. Deactivated users
// cannot log in.
func setUserStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": "Invalid user id"})
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": "is_active is required"})
		return
	}

	result := database.DB.Model(&models.User{}).
		Where("id = ? AND role != ?", uint(id), models.RoleAdmin).
		Update("is_active", *req.IsActive)
	if result.Error != nil {
		renderError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User status updated"})
}

// verifyArtist resolves an artist's KYC review.
func verifyArtist(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": "Invalid artist id"})
		return
	}

	var req struct {
		IsVerified *bool `json:"is_verified" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": "is_verified is required"})
		return
	}

	var profile models.ArtistProfile
	if err := database.DB.Where("user_id = ?", uint(id)).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Artist profile not found"})
		return
	}

	if err := database.DB.Model(&profile).Update("is_verified", *req.IsVerified).Error; err != nil {
		renderError(c, err)
		return
	}

	message := "Your artist profile has been verified"
	if !*req.IsVerified {
		message = "Your artist profile verification was revoked"
	}
	notificationService.Notify(profile.UserID, models.NotificationTypeBooking,
		message, services.NotificationRef{ArtistID: &profile.UserID})

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Artist verification updated"})
}
