// Package webpush delivers browser push notifications over the Web Push
// protocol with VAPID authentication.
package webpush

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	wp "github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog"
)

// Payload is the JSON message shown by the service worker.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Subscription identifies one browser endpoint and its client keys.
type Subscription struct {
	Endpoint string
	P256dh   string
	Auth     string
}

// Sender defines the interface for push delivery. A returned error covers
// both transport failures and protocol-level rejections (e.g. an expired
// endpoint); callers log it and move on.
type Sender interface {
	Send(sub Subscription, payload Payload) error
}

// VAPIDConfig holds the server keys for Web Push.
type VAPIDConfig struct {
	PublicKey  string
	PrivateKey string
	Subscriber string // mailto: contact required by the push services
}

// WebPushSender implements Sender using the webpush-go client.
type WebPushSender struct {
	config VAPIDConfig
	logger zerolog.Logger
}

// NewWebPushSender creates a new WebPushSender
func NewWebPushSender(config VAPIDConfig, logger zerolog.Logger) *WebPushSender {
	return &WebPushSender{
		config: config,
		logger: logger,
	}
}

// Send pushes the payload to a single subscription.
func (s *WebPushSender) Send(sub Subscription, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode push payload: %w", err)
	}

	resp, err := wp.SendNotification(body, &wp.Subscription{
		Endpoint: sub.Endpoint,
		Keys: wp.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &wp.Options{
		Subscriber:      s.config.Subscriber,
		VAPIDPublicKey:  s.config.PublicKey,
		VAPIDPrivateKey: s.config.PrivateKey,
		TTL:             int((12 * time.Hour).Seconds()),
	})
	if err != nil {
		return fmt.Errorf("push delivery failed: %w", err)
	}
	defer resp.Body.Close()

	// 404/410 mean the endpoint is gone; other 4xx/5xx are rejections too.
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("push service rejected notification: status %d", resp.StatusCode)
	}

	return nil
}
