package models

import (
	"time"
)

type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:191"`
	TelegramID   *int64    `json:"telegram_id" gorm:"uniqueIndex"`
	FirstName    string    `json:"first_name" gorm:"size:255"`
	LastName     string    `json:"last_name" gorm:"size:255"`
	Username     string    `json:"username" gorm:"size:255"`
	LanguageCode string    `json:"language_code" gorm:"size:10"`
	PhotoURL     *string   `json:"photo_url" gorm:"size:500"`
	IsAnonymous  bool      `json:"is_anonymous" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Trips []Trip `json:"trips,omitempty" gorm:"foreignKey:UserID"`
}

// DisplayName returns the best available human-readable name for a user.
func (u *User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	if u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return "traveler"
}
