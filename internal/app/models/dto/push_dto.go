package dto

// SubscriptionKeys are the client keys from PushSubscription.toJSON().
type SubscriptionKeys struct {
	P256dh string `json:"p256dh" binding:"required"`
	Auth   string `json:"auth" binding:"required"`
}

// SaveSubscriptionRequest registers a browser push subscription.
type SaveSubscriptionRequest struct {
	Endpoint string           `json:"endpoint" binding:"required,url"`
	Keys     SubscriptionKeys `json:"keys" binding:"required"`
}

// DeleteSubscriptionRequest removes a subscription by endpoint.
type DeleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// PublicKeyResponse exposes the VAPID public key to clients.
type PublicKeyResponse struct {
	PublicKey string `json:"publicKey"`
}
