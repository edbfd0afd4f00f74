package entity

import "time"

// WebhookEvent registro de un evento de la pasarela ya procesado (deduplicación de reenvíos).
type WebhookEvent struct {
	EventID         string
	EventType       string
	PaymentIntentID string
	ReceivedAt      time.Time
}
