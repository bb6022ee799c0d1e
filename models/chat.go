package models

import (
	"time"
)

// ChatMessage is one turn of an AI assistant conversation. Role is either
// "user" or "assistant".
type ChatMessage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;index"`
	Role      string    `json:"role" gorm:"not null;size:20"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}
