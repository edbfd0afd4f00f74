package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/review-analyzer-api/internal/domain"
	"github.com/jhoicas/review-analyzer-api/internal/domain/entity"
	"github.com/jhoicas/review-analyzer-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository sobre PostgreSQL (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `id, user_id, stripe_payment_intent_id, COALESCE(stripe_charge_id, ''), amount, currency, status, description, created_at, updated_at`

// Create inserta el pago y asigna payment.ID (bigserial).
func (r *PaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (user_id, stripe_payment_intent_id, stripe_charge_id, amount, currency, status, description, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		payment.UserID, payment.StripePaymentIntentID, payment.StripeChargeID, payment.Amount,
		payment.Currency, payment.Status, payment.Description, payment.CreatedAt, payment.UpdatedAt,
	).Scan(&payment.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return persistErr("insert payment", err)
	}
	return nil
}

func (r *PaymentRepo) FindByID(ctx context.Context, id int64) (*entity.Payment, error) {
	return r.findOne(ctx, "get payment by id", `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
}

func (r *PaymentRepo) FindByIntentID(ctx context.Context, intentID string) (*entity.Payment, error) {
	return r.findOne(ctx, "get payment by intent", `SELECT `+paymentColumns+` FROM payments WHERE stripe_payment_intent_id = $1`, intentID)
}

// FindByIntentIDForUpdate bloquea la fila hasta el fin de la transacción. Fuera de una tx no bloquea nada.
func (r *PaymentRepo) FindByIntentIDForUpdate(ctx context.Context, intentID string) (*entity.Payment, error) {
	return r.findOne(ctx, "lock payment by intent", `SELECT `+paymentColumns+` FROM payments WHERE stripe_payment_intent_id = $1 FOR UPDATE`, intentID)
}

// TransitionStatus UPDATE condicional sobre status = 'pending': solo un llamador gana.
func (r *PaymentRepo) TransitionStatus(ctx context.Context, intentID, to, chargeID string) (bool, error) {
	query := `
		UPDATE payments
		SET status = $2, stripe_charge_id = COALESCE(NULLIF($3, ''), stripe_charge_id), updated_at = now()
		WHERE stripe_payment_intent_id = $1 AND status = $4`
	tag, err := r.q.Exec(ctx, query, intentID, to, chargeID, entity.PaymentStatusPending)
	if err != nil {
		return false, persistErr("transition payment", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PaymentRepo) findOne(ctx context.Context, op, query string, arg any) (*entity.Payment, error) {
	var p entity.Payment
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.UserID, &p.StripePaymentIntentID, &p.StripeChargeID, &p.Amount,
		&p.Currency, &p.Status, &p.Description, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, persistErr(op, err)
	}
	return &p, nil
}
