package models

import (
	"time"
)

// PushSubscription defines a browser push endpoint based on the
// 'push_subscriptions' table. Endpoint plus the two client keys are exactly
// what the Web Push protocol needs to address one browser. Unique per
// (user, endpoint).
type PushSubscription struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	UserID    int64     `json:"userId" db:"user_id" example:"5"`
	Endpoint  string    `json:"endpoint" db:"endpoint"` // Push service URL issued by the browser
	P256dh    string    `json:"p256dh" db:"p256dh"`     // Client public encryption key
	Auth      string    `json:"auth" db:"auth"`         // Client auth secret
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
