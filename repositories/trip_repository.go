// File: /repositories/trip_repository.go
package repositories

import (
	"context"

	"gorm.io/gorm"

	"injoy-api/models"
)

// TripRepository is the write side of the staged commit: one insert per
// trip, point, and point image.
type TripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) *TripRepository {
	return &TripRepository{db: db}
}

func (r *TripRepository) CreateTrip(ctx context.Context, trip *models.Trip) error {
	return r.db.WithContext(ctx).Create(trip).Error
}

func (r *TripRepository) CreatePoint(ctx context.Context, point *models.Point) error {
	return r.db.WithContext(ctx).Create(point).Error
}

func (r *TripRepository) CreatePointImage(ctx context.Context, image *models.PointImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}
