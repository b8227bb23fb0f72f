package models

import (
	"time"
)

// Notification defines an in-app message based on the 'notifications' table
type Notification struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	UserID    int64     `json:"userId" db:"user_id" example:"5"`     // Recipient user ID
	Message   string    `json:"message" db:"message"`                // Notification text
	IsRead    bool      `json:"isRead" db:"is_read" example:"false"` // Whether the recipient has seen it
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
