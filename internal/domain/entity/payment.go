package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pago. pending → succeeded | failed; los dos últimos son terminales.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

// Payment representa un intento de cobro en la pasarela (Stripe PaymentIntent).
type Payment struct {
	ID                    int64
	UserID                string
	StripePaymentIntentID string // único
	StripeChargeID        string // vacío hasta que la pasarela confirma el cargo
	Amount                decimal.Decimal
	Currency              string
	Status                string
	Description           string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// IsTerminal indica si el pago ya no puede cambiar de estado.
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentStatusSucceeded || p.Status == PaymentStatusFailed
}
