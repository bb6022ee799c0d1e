// File: /controllers/comment_controller.go
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"injoy-api/models"
)

type CommentController struct {
	db *gorm.DB
}

func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{db: db}
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// CreateComment adds a comment to a trip and bumps the trip's denormalized
// comment counter. The counter update is fire-and-forget.
func (cc *CommentController) CreateComment(c *gin.Context) {
	userID := c.GetString("user_id")
	tripID := c.Param("id")

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var trip models.Trip
	if err := cc.db.First(&trip, "id = ?", tripID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}

	comment := models.TripComment{
		ID:        uuid.New().String(),
		TripID:    tripID,
		UserID:    userID,
		Text:      req.Text,
		CreatedAt: time.Now(),
	}

	if err := cc.db.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	cc.db.Model(&models.Trip{}).Where("id = ?", tripID).UpdateColumn("comments", gorm.Expr("comments + ?", 1))

	c.JSON(http.StatusCreated, comment)
}

// GetComments lists a trip's comments oldest first.
func (cc *CommentController) GetComments(c *gin.Context) {
	tripID := c.Param("id")

	var comments []models.TripComment
	if err := cc.db.Preload("User").Where("trip_id = ?", tripID).Order("created_at ASC").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}
	c.JSON(http.StatusOK, comments)
}
