package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/review-analyzer-api/internal/application/dto"
	"github.com/jhoicas/review-analyzer-api/internal/application/payment"
	"github.com/jhoicas/review-analyzer-api/pkg/logger"
)

// StripeSignatureHeader cabecera con la firma del webhook.
const StripeSignatureHeader = "Stripe-Signature"

// WebhookHandler recibe los eventos de la pasarela.
type WebhookHandler struct {
	uc  *payment.ReconciliationUseCase
	log *logger.Logger
}

// NewWebhookHandler construye el handler.
func NewWebhookHandler(uc *payment.ReconciliationUseCase, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{uc: uc, log: log}
}

// Stripe godoc
// @Summary      Webhook de Stripe
// @Description  Cuerpo crudo firmado. Firma inválida → 400 sin procesar nada. Un 5xx hace que Stripe reintente.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        Stripe-Signature  header  string  true  "t=...,v1=..."
// @Success      200  {object}  dto.WebhookResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /webhook/stripe [post]
func (h *WebhookHandler) Stripe(c *fiber.Ctx) error {
	// c.Body() es el cuerpo exacto recibido: la firma se calcula sobre esos bytes.
	result, err := h.uc.HandleWebhook(c.UserContext(), c.Body(), c.Get(StripeSignatureHeader))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.WebhookResponse{Status: result})
}
