// File: /routes/routes.go
package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"injoy-api/config"
	"injoy-api/controllers"
	"injoy-api/middleware"
	"injoy-api/services"
)

func SetupCORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
}

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, wizard *services.WizardService, log *logrus.Logger) {
	// Services
	identityService := services.NewIdentityService(cfg.TelegramBotToken, db)
	chatService := services.NewChatService(db, cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.ChatHistorySize, log)
	geoService := services.NewGeoService(cfg.NominatimURL)

	// Controllers
	authController := controllers.NewAuthController(identityService, cfg.JWTSecret)
	tripController := controllers.NewTripController(db, cfg.BotUsername)
	commentController := controllers.NewCommentController(db)
	likeController := controllers.NewLikeController(db)
	draftController := controllers.NewDraftController(wizard, cfg.MaxPhotoSize)
	chatController := controllers.NewChatController(chatService)
	geoController := controllers.NewGeoController(geoService)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// API version 1
	v1 := r.Group("/api/v1")

	// Session bootstrap (public)
	auth := v1.Group("/auth")
	{
		auth.POST("/session", authController.CreateSession)
	}

	// Public share payload for link previews
	v1.GET("/share/:id", tripController.GetShareLink)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		// Feed / detail / social surface
		trips := protected.Group("/trips")
		{
			trips.GET("", tripController.GetFeed)
			trips.GET("/:id", tripController.GetTrip)
			trips.DELETE("/:id", tripController.DeleteTrip)
			trips.PUT("/:id/points/:pointId/rating", tripController.RatePoint)
			trips.GET("/:id/comments", commentController.GetComments)
			trips.POST("/:id/comments", commentController.CreateComment)
			trips.POST("/:id/like", likeController.LikeTrip)
			trips.DELETE("/:id/like", likeController.UnlikeTrip)
			trips.GET("/:id/like", likeController.GetLikeStatus)
		}

		// Trip-creation wizard
		draft := protected.Group("/draft")
		{
			draft.GET("", draftController.GetDraft)
			draft.DELETE("", draftController.ResetDraft)
			draft.PUT("/trip", draftController.SubmitTripForm)
			draft.POST("/trip/photo", draftController.AttachMainPhoto)
			draft.DELETE("/trip/photo", draftController.RemoveMainPhoto)
			draft.POST("/points", draftController.AddPoint)
			draft.POST("/points/:index/select", draftController.SelectPoint)
			draft.POST("/back", draftController.Back)
			draft.PUT("/points/:index", draftController.UpdatePoint)
			draft.DELETE("/points/:index", draftController.RemovePoint)
			draft.POST("/points/:index/photos", draftController.AttachPointPhoto)
			draft.DELETE("/points/:index/photos/:photoIndex", draftController.RemovePointPhoto)
			draft.POST("/map/stage", draftController.StageLocation)
			draft.POST("/map/confirm", draftController.ConfirmLocation)
			draft.POST("/map/cancel", draftController.CancelLocation)
			draft.GET("/map/markers", draftController.GetMarkers)
			draft.POST("/save", draftController.SaveDraft)
		}

		// AI itinerary assistant, rate limited per user
		chat := protected.Group("/chat")
		chat.Use(middleware.RateLimit(20, 5))
		{
			chat.POST("", chatController.SendMessage)
		}

		// Geocoding proxy for the map overlay
		geo := protected.Group("/geo")
		geo.Use(middleware.RateLimit(60, 10))
		{
			geo.GET("/search", geoController.Search)
			geo.GET("/reverse", geoController.Reverse)
		}
	}
}
