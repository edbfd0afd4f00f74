package order_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/review-analyzer-api/internal/application/order"
	"github.com/jhoicas/review-analyzer-api/internal/domain"
	"github.com/jhoicas/review-analyzer-api/internal/domain/entity"
	"github.com/jhoicas/review-analyzer-api/internal/infrastructure/memory"
)

type stubReceipts struct {
	calls int
}

func (s *stubReceipts) GenerateOrderReceipt(_ context.Context, _ *entity.User, o *entity.Order, p *entity.Payment) ([]byte, error) {
	s.calls++
	return []byte("%PDF-" + o.ID + "-" + p.StripePaymentIntentID), nil
}

func seedOrder(t *testing.T, store *memory.Store, userID, id string, created time.Time, withPayment bool) {
	t.Helper()
	ctx := context.Background()
	o := &entity.Order{
		ID:              id,
		UserID:          userID,
		BusinessName:    "Negocio " + id,
		BusinessAddress: "Calle " + id,
		Status:          entity.OrderStatusCompleted,
		Price:           decimal.RequireFromString("29.99"),
		CreatedAt:       created,
		UpdatedAt:       created,
	}
	if withPayment {
		p := &entity.Payment{
			UserID:                userID,
			StripePaymentIntentID: "pi_" + id,
			Amount:                o.Price,
			Currency:              "usd",
			Status:                entity.PaymentStatusSucceeded,
		}
		require.NoError(t, store.Payments().Create(ctx, p))
		o.PaymentID = &p.ID
	}
	require.NoError(t, store.Orders().Create(ctx, o))
}

func TestListForUser_MasRecientesPrimero(t *testing.T) {
	store := memory.NewStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	seedOrder(t, store, "u1", "o1", base, true)
	seedOrder(t, store, "u1", "o2", base.Add(time.Hour), true)
	seedOrder(t, store, "u2", "o3", base.Add(2*time.Hour), true)

	uc := order.NewOrderUseCase(store.Orders(), store.Payments(), &stubReceipts{})
	list, err := uc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "o2", list[0].ID)
	assert.Equal(t, "o1", list[1].ID)
}

func TestDashboard_UsuarioYOrdenes(t *testing.T) {
	store := memory.NewStore()
	seedOrder(t, store, "u1", "o1", time.Now(), true)
	uc := order.NewOrderUseCase(store.Orders(), store.Payments(), &stubReceipts{})

	res, err := uc.Dashboard(context.Background(), &entity.User{ID: "u1", Name: "Ann", Email: "ann@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", res.User.Email)
	assert.Len(t, res.Orders, 1)

	empty, err := uc.Dashboard(context.Background(), &entity.User{ID: "u9"})
	require.NoError(t, err)
	assert.NotNil(t, empty.Orders)
	assert.Empty(t, empty.Orders)

	_, err = uc.Dashboard(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestReceipt_SoloDelPropietario(t *testing.T) {
	store := memory.NewStore()
	seedOrder(t, store, "u1", "o1", time.Now(), true)
	seedOrder(t, store, "u1", "o-sin-pago", time.Now(), false)
	receipts := &stubReceipts{}
	uc := order.NewOrderUseCase(store.Orders(), store.Payments(), receipts)
	ctx := context.Background()

	pdf, err := uc.Receipt(ctx, &entity.User{ID: "u1"}, "o1")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-o1-pi_o1", string(pdf))

	_, err = uc.Receipt(ctx, &entity.User{ID: "u2"}, "o1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Receipt(ctx, &entity.User{ID: "u1"}, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Receipt(ctx, &entity.User{ID: "u1"}, "o-sin-pago")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 1, receipts.calls)
}
