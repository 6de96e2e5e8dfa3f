package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"artist-marketplace-server/services"
	"artist-marketplace-server/types"
	ws "artist-marketplace-server/websocket"
)

// Shared service instances for all route handlers, wired once at startup.
var (
	chatHub             *ws.Hub
	presenceService     *services.PresenceService
	jwtService          *services.JWTService
	uploadService       *services.UploadService
	notificationService *services.NotificationService
	bookingService      *services.BookingService
	contractService     *services.ContractService
	paymentService      *services.PaymentService
)

// Init wires the services the route handlers share. Must run before any
// Register* function.
func Init(hub *ws.Hub, presence *services.PresenceService) {
	chatHub = hub
	presenceService = presence
	jwtService = services.NewJWTService()
	uploadService = services.NewUploadService()
	notificationService = services.NewNotificationService(hub)
	bookingService = services.NewBookingService(notificationService)
	contractService = services.NewContractService(uploadService, notificationService)
	paymentService = services.NewPaymentService(bookingService, contractService, notificationService)
}

// renderError maps a service error onto the wire. Tagged AppErrors carry
// their own status; anything else is a 500.
func renderError(c *gin.Context, err error) {
	if appErr, ok := types.AsAppError(err); ok {
		body := gin.H{"success": false, "message": appErr.Message}
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}
		c.JSON(appErr.HTTPStatus(), body)
		return
	}

	log.Printf("❌ %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": "Internal server error",
	})
}
