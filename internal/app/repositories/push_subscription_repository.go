package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/cleartrack/internal/app/models"
	"github.com/yigit/cleartrack/internal/pkg/apperrors"
	"github.com/yigit/cleartrack/internal/pkg/dberrors"
)

// IPushSubscriptionRepository defines the interface for Web Push subscriptions
type IPushSubscriptionRepository interface {
	Create(ctx context.Context, sub *models.PushSubscription) error
	ListByUser(ctx context.Context, userID int64) ([]models.PushSubscription, error)
	DeleteByEndpoint(ctx context.Context, userID int64, endpoint string) error
	Exists(ctx context.Context, userID int64, endpoint string) (bool, error)
}

// PushSubscriptionRepository handles push subscription persistence on PostgreSQL
type PushSubscriptionRepository struct {
	db *pgxpool.Pool
}

// NewPushSubscriptionRepository creates a new PushSubscriptionRepository
func NewPushSubscriptionRepository(db *pgxpool.Pool) *PushSubscriptionRepository {
	return &PushSubscriptionRepository{db: db}
}

// Create inserts a new subscription. Registering the same endpoint twice
// for a user returns apperrors.ErrConflict.
func (r *PushSubscriptionRepository) Create(ctx context.Context, sub *models.PushSubscription) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO push_subscriptions (user_id, endpoint, p256dh, auth)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		sub.UserID, sub.Endpoint, sub.P256dh, sub.Auth).Scan(&sub.ID, &sub.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("error creating push subscription: %w", err)
	}
	return nil
}

// ListByUser retrieves every subscription registered by a user
func (r *PushSubscriptionRepository) ListByUser(ctx context.Context, userID int64) ([]models.PushSubscription, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, endpoint, p256dh, auth, created_at
		FROM push_subscriptions
		WHERE user_id = $1
		ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing push subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []models.PushSubscription
	for rows.Next() {
		var s models.PushSubscription
		if err := rows.Scan(&s.ID, &s.UserID, &s.Endpoint, &s.P256dh, &s.Auth, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning push subscription: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// DeleteByEndpoint removes a user's subscription for the given endpoint.
// Returns apperrors.ErrResourceNotFound when no such subscription exists.
func (r *PushSubscriptionRepository) DeleteByEndpoint(ctx context.Context, userID int64, endpoint string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM push_subscriptions WHERE user_id = $1 AND endpoint = $2`,
		userID, endpoint)
	if err != nil {
		return fmt.Errorf("error deleting push subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// Exists reports whether the user already registered the endpoint
func (r *PushSubscriptionRepository) Exists(ctx context.Context, userID int64, endpoint string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM push_subscriptions WHERE user_id = $1 AND endpoint = $2)`,
		userID, endpoint).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking push subscription: %w", err)
	}
	return exists, nil
}
