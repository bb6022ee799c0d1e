// File: /controllers/like_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"injoy-api/models"
)

type LikeController struct {
	db *gorm.DB
}

func NewLikeController(db *gorm.DB) *LikeController {
	return &LikeController{db: db}
}

// LikeTrip records a like keyed by (trip, user) and bumps the trip's
// denormalized likes counter. Liking an already-liked trip is a no-op.
func (lc *LikeController) LikeTrip(c *gin.Context) {
	userID := c.GetString("user_id")
	tripID := c.Param("id")

	var trip models.Trip
	if err := lc.db.First(&trip, "id = ?", tripID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}

	var existing models.TripLike
	err := lc.db.Where("trip_id = ? AND user_id = ?", tripID, userID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"liked": true, "likes": trip.Likes})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to like trip"})
		return
	}

	like := models.TripLike{TripID: tripID, UserID: userID}
	if err := lc.db.Create(&like).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to like trip"})
		return
	}

	lc.db.Model(&models.Trip{}).Where("id = ?", tripID).UpdateColumn("likes", gorm.Expr("likes + ?", 1))

	c.JSON(http.StatusOK, gin.H{"liked": true, "likes": trip.Likes + 1})
}

// UnlikeTrip removes the caller's like and drops the counter.
func (lc *LikeController) UnlikeTrip(c *gin.Context) {
	userID := c.GetString("user_id")
	tripID := c.Param("id")

	result := lc.db.Where("trip_id = ? AND user_id = ?", tripID, userID).Delete(&models.TripLike{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unlike trip"})
		return
	}
	if result.RowsAffected > 0 {
		lc.db.Model(&models.Trip{}).Where("id = ? AND likes > 0", tripID).UpdateColumn("likes", gorm.Expr("likes - ?", 1))
	}

	c.JSON(http.StatusOK, gin.H{"liked": false})
}

// GetLikeStatus reports whether the caller has liked the trip.
func (lc *LikeController) GetLikeStatus(c *gin.Context) {
	userID := c.GetString("user_id")
	tripID := c.Param("id")

	var count int64
	lc.db.Model(&models.TripLike{}).Where("trip_id = ? AND user_id = ?", tripID, userID).Count(&count)

	c.JSON(http.StatusOK, gin.H{"liked": count > 0})
}
