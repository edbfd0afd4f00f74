package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/review-analyzer-api/internal/domain/entity"
)

func TestGenerateOrderReceipt_DevuelvePDF(t *testing.T) {
	paymentID := int64(7)
	user := &entity.User{ID: "u1", Name: "Ann", Email: "ann@example.com"}
	order := &entity.Order{
		ID:              "3f2b8c1e-0000-4000-8000-000000000001",
		UserID:          "u1",
		BusinessName:    "Café Ann",
		BusinessAddress: "Calle 1 #2-3",
		Status:          entity.OrderStatusCompleted,
		Price:           decimal.RequireFromString("29.99"),
		PaymentID:       &paymentID,
		CreatedAt:       time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	payment := &entity.Payment{
		ID:                    paymentID,
		StripePaymentIntentID: "pi_123",
		StripeChargeID:        "ch_9",
		Amount:                order.Price,
		Currency:              "usd",
		Status:                entity.PaymentStatusSucceeded,
		Description:           "Plan Basic Analysis",
	}

	out, err := NewReceiptGenerator().GenerateOrderReceipt(context.Background(), user, order, payment)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un PDF")
}

func TestShortIDYEstado(t *testing.T) {
	assert.Equal(t, "#3F2B8C1E", shortID("3f2b8c1e-0000-4000-8000-000000000001"))
	assert.Equal(t, "#AB", shortID("ab"))
	assert.Equal(t, "Pagado", statusLabel(entity.OrderStatusCompleted))
	assert.Equal(t, "Pendiente", statusLabel(entity.OrderStatusPending))
}
