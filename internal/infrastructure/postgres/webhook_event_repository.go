package postgres

import (
	"context"

	"github.com/jhoicas/review-analyzer-api/internal/domain/entity"
	"github.com/jhoicas/review-analyzer-api/internal/domain/repository"
)

var _ repository.WebhookEventRepository = (*WebhookEventRepo)(nil)

// WebhookEventRepo registro de eventos de la pasarela (deduplicación de reenvíos).
type WebhookEventRepo struct {
	q Querier
}

// NewWebhookEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWebhookEventRepository(q Querier) *WebhookEventRepo {
	return &WebhookEventRepo{q: q}
}

// Record inserta el evento; false si event_id ya existía.
func (r *WebhookEventRepo) Record(ctx context.Context, event *entity.WebhookEvent) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		INSERT INTO webhook_events (event_id, event_type, payment_intent_id, received_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id) DO NOTHING`,
		event.EventID, event.EventType, event.PaymentIntentID, event.ReceivedAt,
	)
	if err != nil {
		return false, persistErr("insert webhook event", err)
	}
	return tag.RowsAffected() == 1, nil
}
