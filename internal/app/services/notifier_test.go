package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/cleartrack/internal/app/models"
)

func TestNotifyStoresInAppFirst(t *testing.T) {
	notificationRepo := &fakeNotificationRepo{}
	pushRepo := &fakePushRepo{}
	pushSender := &fakePushSender{failEndpoints: map[string]bool{}}
	emailSender := &fakeEmailSender{}
	notifier := NewNotifier(notificationRepo, pushRepo, pushSender, emailSender, zerolog.Nop())

	user := &models.User{ID: 7, Email: strPtr("student@school.edu")}
	require.NoError(t, notifier.Notify(context.Background(), user, "Clearance update", "approved by Accounts"))

	inbox, err := notificationRepo.ListByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, "approved by Accounts", inbox[0].Message)
	assert.False(t, inbox[0].IsRead)

	require.Len(t, emailSender.sent, 1)
	assert.Equal(t, "student@school.edu", emailSender.sent[0].to)
}

func TestNotifyFailsWhenStoreFails(t *testing.T) {
	notificationRepo := &fakeNotificationRepo{createErr: errors.New("connection lost")}
	notifier := NewNotifier(notificationRepo, &fakePushRepo{}, &fakePushSender{}, &fakeEmailSender{}, zerolog.Nop())

	err := notifier.Notify(context.Background(), &models.User{ID: 1}, "t", "m")
	assert.Error(t, err)
}

func TestNotifyPushFailureIsIsolated(t *testing.T) {
	notificationRepo := &fakeNotificationRepo{}
	pushRepo := &fakePushRepo{}
	require.NoError(t, pushRepo.Create(context.Background(), &models.PushSubscription{UserID: 7, Endpoint: "https://push/dead"}))
	require.NoError(t, pushRepo.Create(context.Background(), &models.PushSubscription{UserID: 7, Endpoint: "https://push/alive"}))

	pushSender := &fakePushSender{failEndpoints: map[string]bool{"https://push/dead": true}}
	notifier := NewNotifier(notificationRepo, pushRepo, pushSender, &fakeEmailSender{}, zerolog.Nop())

	user := &models.User{ID: 7}
	require.NoError(t, notifier.Notify(context.Background(), user, "title", "body"))

	// The dead endpoint did not stop delivery to the healthy one.
	require.Len(t, pushSender.sent, 1)
	assert.Equal(t, "https://push/alive", pushSender.sent[0].endpoint)
	assert.Equal(t, "title", pushSender.sent[0].payload.Title)
}

func TestNotifyEmailFailureIsIsolated(t *testing.T) {
	notificationRepo := &fakeNotificationRepo{}
	emailSender := &fakeEmailSender{err: errors.New("smtp down")}
	notifier := NewNotifier(notificationRepo, &fakePushRepo{}, &fakePushSender{}, emailSender, zerolog.Nop())

	user := &models.User{ID: 3, Email: strPtr("x@school.edu")}
	require.NoError(t, notifier.Notify(context.Background(), user, "t", "m"))

	inbox, err := notificationRepo.ListByUser(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, inbox, 1)
}

func TestNotifySkipsEmailWithoutAddress(t *testing.T) {
	emailSender := &fakeEmailSender{}
	notifier := NewNotifier(&fakeNotificationRepo{}, &fakePushRepo{}, &fakePushSender{}, emailSender, zerolog.Nop())

	require.NoError(t, notifier.Notify(context.Background(), &models.User{ID: 4}, "t", "m"))
	assert.Empty(t, emailSender.sent)
}
