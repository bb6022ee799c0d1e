// File: /controllers/trip_controller.go
package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"injoy-api/models"
	"injoy-api/utils"
)

type TripController struct {
	db          *gorm.DB
	botUsername string
}

func NewTripController(db *gorm.DB, botUsername string) *TripController {
	return &TripController{db: db, botUsername: botUsername}
}

// GetFeed lists non-draft trips, newest first. With mine=true only the
// caller's trips are returned; otherwise only public ones.
func (tc *TripController) GetFeed(c *gin.Context) {
	userID := c.GetString("user_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := tc.db.Model(&models.Trip{}).Where("is_draft = ?", false)
	if c.Query("mine") == "true" {
		query = query.Where("user_id = ?", userID)
	} else {
		query = query.Where("is_public = ?", true)
	}

	if country := c.Query("country"); country != "" {
		query = query.Where("country = ?", country)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trips"})
		return
	}

	var trips []models.Trip
	if err := query.Preload("User").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&trips).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trips"})
		return
	}

	c.JSON(http.StatusOK, utils.PaginatedResponse{
		Data: gin.H{
			"trips":       trips,
			"card_photos": tc.cardPhotos(trips),
		},
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	})
}

// cardPhotos batches the first point photo for each trip on the page, so
// feed cards can show it without a per-trip round trip.
func (tc *TripController) cardPhotos(trips []models.Trip) map[string]string {
	photos := make(map[string]string, len(trips))
	if len(trips) == 0 {
		return photos
	}

	tripIDs := make([]string, 0, len(trips))
	for _, trip := range trips {
		tripIDs = append(tripIDs, trip.ID)
	}

	var rows []struct {
		TripID   string
		ImageURL string
	}
	err := tc.db.Model(&models.PointImage{}).
		Select("points.trip_id, point_images.image_url").
		Joins("JOIN points ON points.id = point_images.point_id").
		Where("points.trip_id IN ?", tripIDs).
		Order("points.trip_id, points.`order` ASC, point_images.`order` ASC").
		Scan(&rows).Error
	if err != nil {
		return photos
	}

	for _, row := range rows {
		if _, seen := photos[row.TripID]; !seen {
			photos[row.TripID] = row.ImageURL
		}
	}
	return photos
}

// GetTrip returns a trip with its points in display order and each
// point's images in upload order.
func (tc *TripController) GetTrip(c *gin.Context) {
	tripID := c.Param("id")

	var trip models.Trip
	err := tc.db.Preload("User").
		Preload("Points", func(db *gorm.DB) *gorm.DB {
			return db.Order("`order` ASC")
		}).
		Preload("Points.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("`order` ASC")
		}).
		First(&trip, "id = ?", tripID).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}

	c.JSON(http.StatusOK, trip)
}

// DeleteTrip removes a trip owned by the caller.
func (tc *TripController) DeleteTrip(c *gin.Context) {
	userID := c.GetString("user_id")
	tripID := c.Param("id")

	var trip models.Trip
	if err := tc.db.First(&trip, "id = ? AND user_id = ?", tripID, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found or access denied"})
		return
	}

	if err := tc.db.Delete(&trip).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete trip"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted"})
}

type RatePointRequest struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

// RatePoint writes a 1-5 rating on a point of a trip.
func (tc *TripController) RatePoint(c *gin.Context) {
	tripID := c.Param("id")
	pointID := c.Param("pointId")

	var req RatePointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := tc.db.Model(&models.Point{}).
		Where("id = ? AND trip_id = ?", pointID, tripID).
		Update("rating", req.Rating)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rate point"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Point not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rating saved"})
}

// GetShareLink returns the public share payload plus the Telegram deep
// link carrying the trip_<id> start parameter.
func (tc *TripController) GetShareLink(c *gin.Context) {
	tripID := c.Param("id")

	var trip models.Trip
	if err := tc.db.Preload("User").First(&trip, "id = ? AND is_public = ?", tripID, true).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trip":       trip,
		"share_link": fmt.Sprintf("https://t.me/%s/app?startapp=trip_%s", tc.botUsername, trip.ID),
	})
}
