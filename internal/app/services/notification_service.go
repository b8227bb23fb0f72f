package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/cleartrack/internal/app/models"
	"github.com/yigit/cleartrack/internal/app/repositories"
)

// NotificationService exposes a user's in-app inbox
type NotificationService struct {
	notificationRepo repositories.INotificationRepository
	logger           zerolog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo repositories.INotificationRepository, logger zerolog.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// ListMine returns the user's notifications newest first, plus the unread
// count before the list is considered seen.
func (s *NotificationService) ListMine(ctx context.Context, userID int64) ([]models.Notification, int64, error) {
	unread, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	notifications, err := s.notificationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return notifications, unread, nil
}

// MarkAllRead marks the whole inbox as read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
