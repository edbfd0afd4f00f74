package repository

import (
	"context"

	"github.com/jhoicas/review-analyzer-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para Payment.
type PaymentRepository interface {
	// Create inserta el pago y asigna payment.ID.
	Create(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id int64) (*entity.Payment, error)
	FindByIntentID(ctx context.Context, intentID string) (*entity.Payment, error)
	// FindByIntentIDForUpdate igual que FindByIntentID pero bloquea la fila (solo dentro de una tx).
	FindByIntentIDForUpdate(ctx context.Context, intentID string) (*entity.Payment, error)
	// TransitionStatus cambia el estado solo si el actual es "pending" (check-and-set atómico).
	// Devuelve true si esta llamada hizo la transición; false si otro la hizo antes.
	TransitionStatus(ctx context.Context, intentID, to, chargeID string) (bool, error)
}
