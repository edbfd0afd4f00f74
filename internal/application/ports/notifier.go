package ports

import (
	"context"

	"github.com/jhoicas/review-analyzer-api/internal/domain/entity"
)

// Notifier avisa al cliente de eventos de su compra. Es best effort: un fallo
// se registra pero nunca revierte la conciliación.
type Notifier interface {
	OrderConfirmed(ctx context.Context, user *entity.User, order *entity.Order) error
}
