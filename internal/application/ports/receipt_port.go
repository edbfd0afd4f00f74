package ports

import (
	"context"

	"github.com/jhoicas/review-analyzer-api/internal/domain/entity"
)

// ReceiptGenerator genera el comprobante (PDF) de una orden pagada.
type ReceiptGenerator interface {
	GenerateOrderReceipt(ctx context.Context, user *entity.User, order *entity.Order, payment *entity.Payment) ([]byte, error)
}
