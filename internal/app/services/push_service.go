package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/cleartrack/internal/app/models"
	"github.com/yigit/cleartrack/internal/app/models/dto"
	"github.com/yigit/cleartrack/internal/app/repositories"
	"github.com/yigit/cleartrack/internal/pkg/apperrors"
)

// PushService manages browser push subscriptions
type PushService struct {
	pushRepo  repositories.IPushSubscriptionRepository
	publicKey string
	logger    zerolog.Logger
}

// NewPushService creates a new PushService. publicKey is the VAPID public
// key handed to clients at subscribe time.
func NewPushService(pushRepo repositories.IPushSubscriptionRepository, publicKey string, logger zerolog.Logger) *PushService {
	return &PushService{
		pushRepo:  pushRepo,
		publicKey: publicKey,
		logger:    logger,
	}
}

// PublicKey returns the VAPID public key
func (s *PushService) PublicKey() string {
	return s.publicKey
}

// SaveSubscription registers a browser endpoint for the user. Registering
// the same endpoint again is a no-op, not an error; browsers re-send the
// subscription on every page load.
func (s *PushService) SaveSubscription(ctx context.Context, userID int64, req *dto.SaveSubscriptionRequest) error {
	sub := &models.PushSubscription{
		UserID:   userID,
		Endpoint: req.Endpoint,
		P256dh:   req.Keys.P256dh,
		Auth:     req.Keys.Auth,
	}
	if err := s.pushRepo.Create(ctx, sub); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil
		}
		return err
	}

	s.logger.Debug().Int64("user_id", userID).Msg("Push subscription saved")
	return nil
}

// DeleteSubscription removes one of the user's endpoints
func (s *PushService) DeleteSubscription(ctx context.Context, userID int64, endpoint string) error {
	return s.pushRepo.DeleteByEndpoint(ctx, userID, endpoint)
}
