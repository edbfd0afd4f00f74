package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderResponse orden en respuestas.
type OrderResponse struct {
	ID              string          `json:"id"`
	BusinessName    string          `json:"business_name"`
	BusinessAddress string          `json:"business_address"`
	Status          string          `json:"status"`
	Price           decimal.Decimal `json:"price"`
	PaymentID       *int64          `json:"payment_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
