package repository

import (
	"context"

	"github.com/jhoicas/review-analyzer-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Las búsquedas por email normalizan a minúsculas antes de consultar.
// Un usuario inexistente se devuelve como (nil, nil).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Exists(ctx context.Context, email string) (bool, error)
	UpdateStripeCustomer(ctx context.Context, userID, customerID string) error
}
