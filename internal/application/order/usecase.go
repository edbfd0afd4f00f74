package order

import (
	"context"
	"strings"

	"github.com/jhoicas/review-analyzer-api/internal/application/auth"
	"github.com/jhoicas/review-analyzer-api/internal/application/dto"
	"github.com/jhoicas/review-analyzer-api/internal/application/ports"
	"github.com/jhoicas/review-analyzer-api/internal/domain"
	"github.com/jhoicas/review-analyzer-api/internal/domain/entity"
	"github.com/jhoicas/review-analyzer-api/internal/domain/repository"
)

// OrderUseCase consultas del cliente sobre sus órdenes.
type OrderUseCase struct {
	orders   repository.OrderRepository
	payments repository.PaymentRepository
	receipts ports.ReceiptGenerator
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(orders repository.OrderRepository, payments repository.PaymentRepository, receipts ports.ReceiptGenerator) *OrderUseCase {
	return &OrderUseCase{orders: orders, payments: payments, receipts: receipts}
}

// ListForUser órdenes del usuario, más recientes primero.
func (uc *OrderUseCase) ListForUser(ctx context.Context, userID string) ([]dto.OrderResponse, error) {
	list, err := uc.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *ToOrderResponse(o))
	}
	return out, nil
}

// Dashboard usuario actual y sus órdenes.
func (uc *OrderUseCase) Dashboard(ctx context.Context, user *entity.User) (*dto.DashboardResponse, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	orders, err := uc.ListForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.DashboardResponse{User: *auth.ToUserResponse(user), Orders: orders}, nil
}

// Receipt genera el PDF del comprobante de una orden completada del usuario.
// Orden inexistente, ajena o sin pago conciliado: domain.ErrNotFound.
func (uc *OrderUseCase) Receipt(ctx context.Context, user *entity.User, orderID string) ([]byte, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, domain.ErrNotFound
	}
	o, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil || o.UserID != user.ID || o.PaymentID == nil || o.Status != entity.OrderStatusCompleted {
		return nil, domain.ErrNotFound
	}
	p, err := uc.payments.FindByID(ctx, *o.PaymentID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return uc.receipts.GenerateOrderReceipt(ctx, user, o, p)
}

// ToOrderResponse convierte la entidad a DTO.
func ToOrderResponse(o *entity.Order) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	return &dto.OrderResponse{
		ID:              o.ID,
		BusinessName:    o.BusinessName,
		BusinessAddress: o.BusinessAddress,
		Status:          o.Status,
		Price:           o.Price,
		PaymentID:       o.PaymentID,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
