package models

import (
	"time"
)

type TripComment struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	TripID    string    `json:"trip_id" gorm:"not null;size:191;index"`
	UserID    string    `json:"user_id" gorm:"not null;size:191"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`

	Trip Trip `json:"trip,omitempty" gorm:"foreignKey:TripID"`
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

type TripLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TripID    string    `json:"trip_id" gorm:"not null;size:191"`
	UserID    string    `json:"user_id" gorm:"not null;size:191"`
	CreatedAt time.Time `json:"created_at"`

	Trip Trip `json:"trip,omitempty" gorm:"foreignKey:TripID"`
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
