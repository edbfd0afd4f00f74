package payment

import (
	"context"

	"github.com/jhoicas/review-analyzer-api/internal/domain/repository"
)

// ReconciliationTxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
// Si fn devuelve error se hace rollback de todo lo escrito.
type ReconciliationTxRunner interface {
	RunReconciliation(ctx context.Context, fn func(
		payments repository.PaymentRepository,
		orders repository.OrderRepository,
		events repository.WebhookEventRepository,
	) error) error
}
