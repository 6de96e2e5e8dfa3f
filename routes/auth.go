package routes

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"artist-marketplace-server/database"
	"artist-marketplace-server/middleware"
	"artist-marketplace-server/models"
)

// SignupRequest is the registration payload. Artists additionally carry
// their public profile.
type SignupRequest struct {
	FullName string `json:"full_name" binding:"required,min=2,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=client artist"`

	// Artist profile (required when role == artist)
	StageName  string   `json:"stage_name"`
	Category   string   `json:"category"`
	Bio        string   `json:"bio"`
	HourlyWage float64  `json:"hourly_wage"`
	City       string   `json:"city"`
	BaseLat    *float64 `json:"base_lat"`
	BaseLng    *float64 `json:"base_lng"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	DeviceID string `json:"device_id"`
}

// RefreshRequest is the token refresh payload.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RegisterAuthRoutes sets up authentication routes
func RegisterAuthRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/signup", signup)
		auth.POST("/login", login)
		auth.POST("/refresh", refreshToken)
		auth.POST("/logout", logout)
	}
}

func signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": "Invalid signup data",
			"details": err.Error(),
		})
		return
	}

	if !middleware.ValidateEmail(req.Email) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": "Invalid email format"})
		return
	}
	if ok, problems := middleware.ValidatePasswordStrength(req.Password); !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": "Password is too weak",
			"details": problems,
		})
		return
	}

	role := models.UserRole(req.Role)
	if role == models.RoleArtist && (req.StageName == "" || req.Category == "" || req.HourlyWage <= 0) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": "Artists must provide stage name, category and hourly wage",
		})
		return
	}

	var existing models.User
	if err := database.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Email already registered"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		renderError(c, err)
		return
	}

	hash, err := jwtService.HashPassword(req.Password)
	if err != nil {
		renderError(c, err)
		return
	}

	user := models.User{
		FullName:     middleware.SanitizeInput(req.FullName),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if role == models.RoleArtist {
			profile := models.ArtistProfile{
				UserID:     user.ID,
				StageName:  middleware.SanitizeInput(req.StageName),
				Category:   middleware.SanitizeInput(req.Category),
				Bio:        middleware.SanitizeInput(req.Bio),
				HourlyWage: req.HourlyWage,
				City:       middleware.SanitizeInput(req.City),
				BaseLat:    req.BaseLat,
				BaseLng:    req.BaseLng,
			}
			return tx.Create(&profile).Error
		}
		return nil
	})
	if err != nil {
		renderError(c, err)
		return
	}

	tokens, err := jwtService.GenerateTokenPair(&user, "", c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		renderError(c, err)
		return
	}

	log.Printf("✅ New %s registered: %s (id %d)", role, user.Email, user.ID)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Account created",
		"data": gin.H{
			"user":   user,
			"tokens": tokens,
		},
	})
}

func login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": "Invalid login data"})
		return
	}

	var user models.User
	if err := database.DB.Preload("ArtistProfile").Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
		return
	}

	if !jwtService.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Account is deactivated"})
		return
	}

	tokens, err := jwtService.GenerateTokenPair(&user, req.DeviceID, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user":   user,
			"tokens": tokens,
		},
	})
}

func refreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": "Refresh token is required"})
		return
	}

	tokens, err := jwtService.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"tokens": tokens}})
}

func logout(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": "Refresh token is required"})
		return
	}

	if err := jwtService.RevokeRefreshToken(req.RefreshToken); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}
