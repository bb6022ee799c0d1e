package models

import (
	"time"
)

type Trip struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;index"`
	Title     string    `json:"title" gorm:"not null;size:255"`
	Country   *string   `json:"country" gorm:"size:100"`
	Location  *string   `json:"location" gorm:"size:255"`
	Lat       *float64  `json:"lat"`
	Lng       *float64  `json:"lng"`
	Budget    int       `json:"budget"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	PhotoURL  *string   `json:"photo_url" gorm:"size:500"`
	IsDraft   bool      `json:"is_draft" gorm:"default:false"`
	IsPublic  bool      `json:"is_public" gorm:"default:true"`
	Likes     int       `json:"likes" gorm:"default:0"`
	Comments  int       `json:"comments" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User   User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Points []Point `json:"points,omitempty" gorm:"foreignKey:TripID"`
}

type Point struct {
	ID          string   `json:"id" gorm:"primaryKey;size:191"`
	TripID      string   `json:"trip_id" gorm:"not null;size:191;index"`
	Name        string   `json:"name" gorm:"not null;size:255"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	HowToGet    string   `json:"how_to_get" gorm:"type:text"`
	Impressions string   `json:"impressions" gorm:"type:text"`
	// Order is the zero-based position within the trip, assigned from the
	// draft sequence at commit time.
	Order     int       `json:"order" gorm:"not null"`
	Rating    *int      `json:"rating"`
	CreatedAt time.Time `json:"created_at"`

	Trip   Trip         `json:"trip,omitempty" gorm:"foreignKey:TripID"`
	Images []PointImage `json:"images,omitempty" gorm:"foreignKey:PointID"`
}

type PointImage struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	PointID   string    `json:"point_id" gorm:"not null;size:191;index"`
	ImageURL  string    `json:"image_url" gorm:"not null;size:500"`
	Order     int       `json:"order" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`

	Point Point `json:"point,omitempty" gorm:"foreignKey:PointID"`
}
