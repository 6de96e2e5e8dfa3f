package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"artist-marketplace-server/middleware"
	"artist-marketplace-server/services"
)

// RegisterPaymentRoutes sets up the payment intake route
func RegisterPaymentRoutes(router *gin.RouterGroup) {
	payments := router.Group("/payments")
	payments.Use(middleware.AuthMiddleware())
	{
		payments.POST("/confirm", confirmPayment)
	}
}

func confirmPayment(c *gin.Context) {
	var req services.ConfirmPaymentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": "Invalid payment data",
			"details": err.Error(),
		})
		return
	}

	payment, err := paymentService.Confirm(c.GetUint("user_id"), req)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": payment})
}
