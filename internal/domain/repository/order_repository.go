package repository

import (
	"context"

	"github.com/jhoicas/review-analyzer-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order.
type OrderRepository interface {
	// Create inserta la orden. Si ya existe una orden para el mismo pago devuelve domain.ErrConflict.
	Create(ctx context.Context, order *entity.Order) error
	FindByID(ctx context.Context, id string) (*entity.Order, error)
	FindByPaymentID(ctx context.Context, paymentID int64) (*entity.Order, error)
	// ListByUser lista las órdenes del usuario, más recientes primero.
	ListByUser(ctx context.Context, userID string) ([]*entity.Order, error)
}
