package dto

import "github.com/shopspring/decimal"

// PlanResponse un plan del catálogo.
type PlanResponse struct {
	Key         string          `json:"key"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
}

// PlansResponse catálogo de precios + clave pública de la pasarela para el checkout.
type PlansResponse struct {
	Plans          []PlanResponse `json:"plans"`
	PublishableKey string         `json:"publishable_key"`
}

// CreateIntentRequest body para POST /api/payments/intent.
type CreateIntentRequest struct {
	Plan string `json:"plan"`
}

// CreateIntentResponse datos para que el cliente confirme el pago con Stripe.js.
type CreateIntentResponse struct {
	ClientSecret    string          `json:"client_secret"`
	PaymentIntentID string          `json:"payment_intent_id"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	PublishableKey  string          `json:"publishable_key"`
}

// ConfirmPaymentRequest body para POST /api/payments/confirm.
type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id"`
	BusinessName    string `json:"business_name"`
	BusinessAddress string `json:"business_address"`
}

// ConfirmPaymentResponse orden conciliada. Created=false cuando la orden ya existía.
type ConfirmPaymentResponse struct {
	Order   OrderResponse `json:"order"`
	Created bool          `json:"created"`
}

// WebhookResponse acuse de recibo al webhook de la pasarela.
type WebhookResponse struct {
	Status string `json:"status"` // processed | duplicate | ignored
}
