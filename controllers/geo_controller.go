// File: /controllers/geo_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"injoy-api/services"
)

type GeoController struct {
	geo *services.GeoService
}

func NewGeoController(geo *services.GeoService) *GeoController {
	return &GeoController{geo: geo}
}

// Search proxies free-text place search for the map overlay.
func (gc *GeoController) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing search query"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	places, err := gc.geo.Search(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": places})
}

// Reverse proxies coordinate-to-place resolution.
func (gc *GeoController) Reverse(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coordinates"})
		return
	}

	place, err := gc.geo.Reverse(c.Request.Context(), lat, lon)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Reverse geocoding failed"})
		return
	}
	c.JSON(http.StatusOK, place)
}
