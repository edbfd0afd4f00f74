package repository

import (
	"context"

	"github.com/jhoicas/review-analyzer-api/internal/domain/entity"
)

// WebhookEventRepository registra eventos de la pasarela ya recibidos.
type WebhookEventRepository interface {
	// Record guarda el evento. Devuelve false si el event_id ya estaba registrado (reenvío).
	Record(ctx context.Context, event *entity.WebhookEvent) (bool, error)
}
