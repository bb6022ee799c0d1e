// File: /database/database.go
package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"injoy-api/models"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// Auto migrate all models
	err := db.AutoMigrate(
		&models.User{},
		&models.Trip{},
		&models.Point{},
		&models.PointImage{},
		&models.TripComment{},
		&models.TripLike{},
		&models.ChatMessage{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := addCustomIndexes(db); err != nil {
		return fmt.Errorf("failed to add custom indexes: %w", err)
	}

	return nil
}

func addCustomIndexes(db *gorm.DB) error {
	// Composite indexes for the hot query paths

	// Feed: non-draft trips by owner and recency
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_trips_user_created ON trips(user_id, created_at DESC)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for trips: %v\n", err)
	}

	// Detail: points of a trip in display order
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_points_trip_order ON points(trip_id, `order`)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for points: %v\n", err)
	}

	// Images of a point in display order
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_point_images_point_order ON point_images(point_id, `order`)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for point_images: %v\n", err)
	}

	// Like toggle lookup
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_trip_likes_trip_user ON trip_likes(trip_id, user_id)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for trip_likes: %v\n", err)
	}

	// Comments of a trip in posting order
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_trip_comments_trip_created ON trip_comments(trip_id, created_at)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for trip_comments: %v\n", err)
	}

	// Trailing chat window per user
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_chat_messages_user_created ON chat_messages(user_id, created_at)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for chat_messages: %v\n", err)
	}

	return nil
}
