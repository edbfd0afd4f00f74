package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de análisis.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusFailed    = "failed"
)

// Order representa un análisis de reseñas comprado para un negocio.
type Order struct {
	ID              string
	UserID          string
	BusinessName    string
	BusinessAddress string
	Status          string
	Price           decimal.Decimal
	PaymentID       *int64 // nil hasta la conciliación
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
