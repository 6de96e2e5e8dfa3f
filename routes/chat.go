package routes

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"artist-marketplace-server/database"
	"artist-marketplace-server/middleware"
	"artist-marketplace-server/models"
	ws "artist-marketplace-server/websocket"
)

// ConversationRequest opens (or finds) the conversation with another user.
type ConversationRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// RegisterChatRoutes sets up chat and websocket routes
func RegisterChatRoutes(router *gin.RouterGroup) {
	chat := router.Group("/chat")
	{
		// WebSocket connections authenticate via query token since browser
		// websocket clients cannot set headers.
		chat.GET("/ws", middleware.WebSocketAuthMiddleware(), handleWebSocketConnection)

		chat.GET("/online-users", middleware.AuthMiddleware(), getOnlineUsers)
		chat.GET("/:conversationId", middleware.AuthMiddleware(), getMessages)
		chat.POST("/:conversationId/messages", middleware.AuthMiddleware(), sendMessage)
		chat.DELETE("/message/:id", middleware.AuthMiddleware(), deleteMessage)
	}

	router.POST("/conversation", middleware.AuthMiddleware(), getOrCreateConversation)
	router.GET("/conversations", middleware.AuthMiddleware(), listConversations)
}

func handleWebSocketConnection(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := c.GetString("user_role")

	ws.ServeWebSocket(chatHub, c.Writer, c.Request, userID, role)
}

// getOrCreateConversation returns the unique conversation between the
// caller and the target user, creating it on first contact. The member
// pair is normalized so call order never produces duplicates.
func getOrCreateConversation(c *gin.Context) {
	callerID := c.GetUint("user_id")
	callerRole := models.UserRole(c.GetString("user_role"))

	var req ConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": "user_id is required"})
		return
	}
	if req.UserID == callerID {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": "Cannot open a conversation with yourself"})
		return
	}

	var other models.User
	if err := database.DB.First(&other, req.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	userA, roleA, userB, roleB := models.NormalizeMemberPair(callerID, callerRole, other.ID, other.Role)

	var conversation models.Conversation
	err := database.DB.
		Where("user_a_id = ? AND user_b_id = ?", userA, userB).
		First(&conversation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		conversation = models.Conversation{
			UserAID: userA,
			RoleA:   roleA,
			UserBID: userB,
			RoleB:   roleB,
		}
		if err := database.DB.Create(&conversation).Error; err != nil {
			// A concurrent first contact may have won the unique index race.
			if lookupErr := database.DB.
				Where("user_a_id = ? AND user_b_id = ?", userA, userB).
				First(&conversation).Error; lookupErr != nil {
				renderError(c, err)
				return
			}
		}
	} else if err != nil {
		renderError(c, err)
		return
	}

	database.DB.Preload("UserA").Preload("UserB").First(&conversation, conversation.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": conversation})
}

func listConversations(c *gin.Context) {
	userID := c.GetUint("user_id")

	var conversations []models.Conversation
	err := database.DB.
		Preload("UserA").
		Preload("UserB").
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("last_message_at DESC NULLS LAST").
		Find(&conversations).Error
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": conversations})
}

func loadConversationForMember(c *gin.Context) (*models.Conversation, bool) {
	id, err := strconv.ParseUint(c.Param("conversationId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": "Invalid conversation id"})
		return nil, false
	}

	var conversation models.Conversation
	if err := database.DB.First(&conversation, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Conversation not found"})
		return nil, false
	}

	if !conversation.HasMember(c.GetUint("user_id")) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You are not a member of this conversation"})
		return nil, false
	}

	return &conversation, true
}

func getMessages(c *gin.Context) {
	conversation, ok := loadConversationForMember(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	var messages []models.Message
	err := database.DB.
		Where("conversation_id = ?", conversation.ID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    messages,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
		},
	})
}

// sendMessage accepts either a JSON body {"text": ...} or a multipart form
// with a text field and/or an image file. At least one of text/image must
// be present.
func sendMessage(c *gin.Context) {
	conversation, ok := loadConversationForMember(c)
	if !ok {
		return
	}

	senderID := c.GetUint("user_id")
	receiverID := conversation.OtherMember(senderID)

	var text, imageURL string

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		text = strings.TrimSpace(c.PostForm("text"))
		if fileHeader, err := c.FormFile("image"); err == nil {
			file, err := fileHeader.Open()
			if err != nil {
				renderError(c, err)
				return
			}
			defer file.Close()

			imageURL, err = uploadService.UploadImage(file, fileHeader.Filename)
			if err != nil {
				log.Printf("❌ Chat image upload failed: %v", err)
				renderError(c, err)
				return
			}
		}
	} else {
		var body struct {
			Text string `json:"text"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": "Invalid message data"})
			return
		}
		text = strings.TrimSpace(body.Text)
	}

	if text == "" && imageURL == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": "Message needs text or an image"})
		return
	}

	message := models.Message{
		ConversationID: conversation.ID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Text:           middleware.SanitizeInput(text),
		ImageURL:       imageURL,
	}
	if err := database.DB.Create(&message).Error; err != nil {
		renderError(c, err)
		return
	}

	now := time.Now()
	preview := message.Text
	if preview == "" {
		preview = "📷 Image"
	}
	database.DB.Model(conversation).Updates(map[string]interface{}{
		"last_message_at":   now,
		"last_message_text": preview,
	})

	// Live delivery to the receiver, plus an echo so the sender's other
	// devices converge without a re-fetch.
	chatHub.EmitToUser(receiverID, "receiveMessage", message)
	chatHub.EmitToUser(senderID, "messageSent", message)

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": message})
}

// deleteMessage hard-deletes a message; only the sender may do it. The
// deletion is not propagated live.
func deleteMessage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": "Invalid message id"})
		return
	}

	var message models.Message
	if err := database.DB.First(&message, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Message not found"})
		return
	}

	if message.SenderID != c.GetUint("user_id") {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Only the sender can delete a message"})
		return
	}

	if err := database.DB.Delete(&message).Error; err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Message deleted"})
}

func getOnlineUsers(c *gin.Context) {
	users, err := presenceService.GetOnlineUsers()
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"online_users": users}})
}
