package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"artist-marketplace-server/middleware"
	"artist-marketplace-server/models"
	"artist-marketplace-server/services"
)

// BookingCreateRequest is the client's booking request payload. Times are
// RFC 3339.
type BookingCreateRequest struct {
	ArtistID     uint      `json:"artist_id" binding:"required"`
	EventDate    time.Time `json:"event_date" binding:"required"`
	StartTime    time.Time `json:"start_time" binding:"required"`
	EndTime      time.Time `json:"end_time" binding:"required"`
	Location     string    `json:"location" binding:"required,max=500"`
	LocationLat  *float64  `json:"location_lat"`
	LocationLng  *float64  `json:"location_lng"`
	ContactPhone string    `json:"contact_phone" binding:"max=20"`
	Notes        *string   `json:"notes"`
}

// BookingStatusRequest carries the artist's accept/reject decision.
type BookingStatusRequest struct {
	Status models.BookingStatus `json:"status" binding:"required"`
}

// ScheduleUpdateRequest moves a pending booking to a new window.
type ScheduleUpdateRequest struct {
	EventDate time.Time `json:"event_date" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

// CancellationRequest starts the two-phase cancellation protocol.
type CancellationRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
	Notes  string `json:"notes" binding:"max=1000"`
}

// RegisterBookingRoutes sets up the booking ledger routes
func RegisterBookingRoutes(router *gin.RouterGroup) {
	bookings := router.Group("/bookings")
	bookings.Use(middleware.AuthMiddleware())
	{
		bookings.POST("", createBooking)
		bookings.GET("/my-bookings", listMyBookings)
		bookings.GET("/:id", getBooking)
		bookings.PUT("/:id/status", updateBookingStatus)
		bookings.PUT("/:id/schedule", updateBookingSchedule)
		bookings.PATCH("/:id/request-cancel", requestCancellation)
		bookings.PATCH("/:id/approve-cancel", approveCancellation)
		bookings.PATCH("/:id/decline-cancel", declineCancellation)
		bookings.POST("/:id/complete", completeBooking)

		bookings.GET("/:id/contract", getContract)
		bookings.POST("/:id/contract/document", attachContractDocument)
		bookings.POST("/:id/contract/sign", signContract)
		bookings.POST("/:id/contract/reject", rejectContract)
	}
}

func bookingID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": "Invalid booking id"})
		return 0, false
	}
	return uint(id), true
}

func createBooking(c *gin.Context) {
	userID := c.GetUint("user_id")
	if c.GetString("user_role") != string(models.RoleClient) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Only clients create bookings"})
		return
	}

	var req BookingCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": "Invalid booking data",
			"details": err.Error(),
		})
		return
	}

	booking, err := bookingService.CreateBooking(userID, services.CreateBookingInput{
		ArtistID:     req.ArtistID,
		EventDate:    req.EventDate,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Location:     middleware.SanitizeInput(req.Location),
		LocationLat:  req.LocationLat,
		LocationLng:  req.LocationLng,
		ContactPhone: middleware.SanitizeInput(req.ContactPhone),
		Notes:        req.Notes,
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": booking})
}

func listMyBookings(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := models.UserRole(c.GetString("user_role"))

	bookings, err := bookingService.ListBookings(userID, role, services.ListFilter{
		Status:    c.Query("status"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    bookings,
		"count":   len(bookings),
	})
}

func getBooking(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	booking, err := bookingService.GetBooking(id, c.GetUint("user_id"))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": booking})
}

func updateBookingStatus(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req BookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": "Status is required"})
		return
	}

	booking, err := bookingService.UpdateStatus(id, c.GetUint("user_id"), req.Status)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": booking})
}

func updateBookingSchedule(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req ScheduleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": "Invalid schedule data"})
		return
	}

	booking, err := bookingService.UpdateSchedule(id, c.GetUint("user_id"), req.EventDate, req.StartTime, req.EndTime)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": booking})
}

func requestCancellation(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req CancellationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": "Cancellation reason is required"})
		return
	}

	booking, err := bookingService.RequestCancellation(id, c.GetUint("user_id"),
		middleware.SanitizeInput(req.Reason), middleware.SanitizeInput(req.Notes))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": booking})
}

func approveCancellation(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	booking, err := bookingService.ApproveCancellation(id, c.GetUint("user_id"))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": booking})
}

func declineCancellation(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	booking, err := bookingService.DeclineCancellation(id, c.GetUint("user_id"))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": booking})
}

func completeBooking(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	booking, err := bookingService.Complete(id, c.GetUint("user_id"))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": booking})
}

func getContract(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	contract, err := contractService.Get(id, c.GetUint("user_id"))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": contract})
}

func attachContractDocument(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": "Document file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		renderError(c, err)
		return
	}
	defer file.Close()

	contract, err := contractService.AttachDocument(id, c.GetUint("user_id"), file, fileHeader.Filename)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": contract})
}

func signContract(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	contract, err := contractService.Sign(id, c.GetUint("user_id"))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": contract})
}

func rejectContract(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	contract, err := contractService.Reject(id, c.GetUint("user_id"))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": contract})
}
