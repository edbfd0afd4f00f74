package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// Estados de un PaymentIntent tal como los reporta la pasarela.
const (
	IntentStatusSucceeded  = "succeeded"
	IntentStatusProcessing = "processing"
	IntentStatusCanceled   = "canceled"
)

// Tipos de evento de webhook que la conciliación atiende.
const (
	EventPaymentIntentSucceeded = "payment_intent.succeeded"
	EventPaymentIntentFailed    = "payment_intent.payment_failed"
)

// IntentRequest datos para crear un intento de cobro. Amount va en unidad mayor
// (ej. 29.99); el adaptador lo convierte a unidades menores.
type IntentRequest struct {
	Amount       decimal.Decimal
	Currency     string
	Description  string
	CustomerID   string
	ReceiptEmail string
	Metadata     map[string]string
}

// IntentRef referencia al intento creado en la pasarela.
type IntentRef struct {
	ID           string
	ClientSecret string
}

// IntentState estado actual de un intento en la pasarela.
type IntentState struct {
	ID       string
	Status   string
	ChargeID string
	Amount   decimal.Decimal
	Currency string
}

// WebhookEvent evento de la pasarela ya autenticado por firma.
type WebhookEvent struct {
	ID       string
	Type     string
	IntentID string
	ChargeID string
}

// PaymentGateway puerto de salida hacia el procesador de pagos externo.
// Los errores de red o rechazo se devuelven como *domain.GatewayError; una firma
// de webhook inválida como domain.ErrSignatureInvalid.
type PaymentGateway interface {
	CreateCustomer(ctx context.Context, email, name string) (string, error)
	CreateIntent(ctx context.Context, req IntentRequest) (*IntentRef, error)
	RetrieveIntent(ctx context.Context, intentID string) (*IntentState, error)
	// VerifyWebhook autentica rawBody contra la cabecera de firma antes de interpretar
	// el contenido. rawBody debe ser el cuerpo exacto recibido, sin parsear.
	VerifyWebhook(rawBody []byte, signatureHeader string) (*WebhookEvent, error)
}
