package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles all repository instances for dependency wiring
type Repositories struct {
	UserRepository               *UserRepository
	ClearanceRepository          *ClearanceRepository
	NotificationRepository       *NotificationRepository
	PushSubscriptionRepository   *PushSubscriptionRepository
	PasswordResetTokenRepository *PasswordResetTokenRepository
}

// NewRepositories creates all repositories sharing one connection pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:               NewUserRepository(db),
		ClearanceRepository:          NewClearanceRepository(db),
		NotificationRepository:       NewNotificationRepository(db),
		PushSubscriptionRepository:   NewPushSubscriptionRepository(db),
		PasswordResetTokenRepository: NewPasswordResetTokenRepository(db),
	}
}
