package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/cleartrack/internal/app/models"
	"github.com/yigit/cleartrack/internal/app/repositories"
	"github.com/yigit/cleartrack/internal/pkg/email"
	"github.com/yigit/cleartrack/internal/pkg/webpush"
)

// NewRequestMessage is the notification text an officer receives when a
// student submits a clearance request. DecideRecord matches on this exact
// text to mark the officer's copy read, so it must stay deterministic.
func NewRequestMessage(studentName string) string {
	return fmt.Sprintf("New clearance request from student %s", studentName)
}

// DecisionMessage is the notification text a student receives when a
// department records a decision.
func DecisionMessage(department string, status models.ClearanceStatusType, comment string) string {
	msg := fmt.Sprintf("Your clearance request was %s by %s", status, department)
	if comment != "" {
		msg += ": " + comment
	}
	return msg
}

// Notifier fans a message out over every delivery channel a user has. The
// in-app notification is the source of truth and is written first; push and
// email are best effort and never fail the triggering operation.
type Notifier struct {
	notificationRepo repositories.INotificationRepository
	pushRepo         repositories.IPushSubscriptionRepository
	pushSender       webpush.Sender
	emailSender      email.Sender
	logger           zerolog.Logger
}

// NewNotifier creates a new Notifier
func NewNotifier(
	notificationRepo repositories.INotificationRepository,
	pushRepo repositories.IPushSubscriptionRepository,
	pushSender webpush.Sender,
	emailSender email.Sender,
	logger zerolog.Logger,
) *Notifier {
	return &Notifier{
		notificationRepo: notificationRepo,
		pushRepo:         pushRepo,
		pushSender:       pushSender,
		emailSender:      emailSender,
		logger:           logger,
	}
}

// Notify delivers a message to one user. Returns an error only when the
// in-app notification cannot be stored; push and email failures are logged
// and swallowed so one dead endpoint cannot block a decision.
func (n *Notifier) Notify(ctx context.Context, user *models.User, title, message string) error {
	notification := &models.Notification{
		UserID:  user.ID,
		Message: message,
	}
	if err := n.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	n.sendPush(ctx, user.ID, title, message)
	n.sendEmail(user, title, message)
	return nil
}

func (n *Notifier) sendPush(ctx context.Context, userID int64, title, message string) {
	subs, err := n.pushRepo.ListByUser(ctx, userID)
	if err != nil {
		n.logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to load push subscriptions")
		return
	}

	payload := webpush.Payload{Title: title, Body: message}
	for _, sub := range subs {
		wpSub := webpush.Subscription{
			Endpoint: sub.Endpoint,
			P256dh:   sub.P256dh,
			Auth:     sub.Auth,
		}
		if err := n.pushSender.Send(wpSub, payload); err != nil {
			n.logger.Warn().Err(err).
				Int64("user_id", userID).
				Str("endpoint", sub.Endpoint).
				Msg("Push delivery failed")
		}
	}
}

func (n *Notifier) sendEmail(user *models.User, title, message string) {
	if user.Email == nil || *user.Email == "" {
		return
	}
	if err := n.emailSender.Send(*user.Email, title, message); err != nil {
		n.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("Email delivery failed")
	}
}
