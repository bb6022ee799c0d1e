// File: /controllers/chat_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"injoy-api/services"
)

type ChatController struct {
	chat *services.ChatService
}

func NewChatController(chat *services.ChatService) *ChatController {
	return &ChatController{chat: chat}
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// SendMessage forwards a message to the AI itinerary assistant and returns
// its reply with optional suggestion chips.
func (cc *ChatController) SendMessage(c *gin.Context) {
	userID := c.GetString("user_id")

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user_id or message"})
		return
	}

	reply, err := cc.chat.SendMessage(c.Request.Context(), userID, req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, reply)
}
