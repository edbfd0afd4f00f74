package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/review-analyzer-api/internal/domain"
	"github.com/jhoicas/review-analyzer-api/internal/domain/entity"
	"github.com/jhoicas/review-analyzer-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, user_id, business_name, business_address, status, price, payment_id, created_at, updated_at`

// Create inserta la orden. orders.payment_id es UNIQUE: una segunda orden para el mismo pago es domain.ErrConflict.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	query := `
		INSERT INTO orders (id, user_id, business_name, business_address, status, price, payment_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.UserID, order.BusinessName, order.BusinessAddress, order.Status,
		order.Price, order.PaymentID, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return persistErr("insert order", err)
	}
	return nil
}

func (r *OrderRepo) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.findOne(ctx, "get order by id", `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

func (r *OrderRepo) FindByPaymentID(ctx context.Context, paymentID int64) (*entity.Order, error) {
	return r.findOne(ctx, "get order by payment", `SELECT `+orderColumns+` FROM orders WHERE payment_id = $1`, paymentID)
}

// ListByUser órdenes del usuario, más recientes primero.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, persistErr("list orders", err)
	}
	defer rows.Close()
	list := make([]*entity.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, persistErr("scan order", err)
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list orders", err)
	}
	return list, nil
}

func (r *OrderRepo) findOne(ctx context.Context, op, query string, arg any) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, persistErr(op, err)
	}
	return o, nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.BusinessName, &o.BusinessAddress, &o.Status,
		&o.Price, &o.PaymentID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
