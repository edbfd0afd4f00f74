package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/review-analyzer-api/internal/application/dto"
	"github.com/jhoicas/review-analyzer-api/internal/application/payment"
	"github.com/jhoicas/review-analyzer-api/pkg/logger"
)

// PaymentHandler checkout: catálogo, creación del intento y confirmación.
type PaymentHandler struct {
	uc  *payment.ReconciliationUseCase
	log *logger.Logger
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *payment.ReconciliationUseCase, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{uc: uc, log: log}
}

// Plans godoc
// @Summary      Catálogo de planes
// @Tags         payments
// @Produce      json
// @Success      200  {object}  dto.PlansResponse
// @Router       /api/plans [get]
func (h *PaymentHandler) Plans(c *fiber.Ctx) error {
	return c.JSON(h.uc.Plans())
}

// CreateIntent godoc
// @Summary      Crear intento de pago
// @Description  Crea el PaymentIntent del plan y devuelve el client_secret para Stripe.js.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateIntentRequest  false  "plan (basic por defecto)"
// @Success      201   {object}  dto.CreateIntentResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/payments/intent [post]
func (h *PaymentHandler) CreateIntent(c *fiber.Ctx) error {
	var in dto.CreateIntentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.CreateIntent(c.UserContext(), CurrentUser(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Confirm godoc
// @Summary      Confirmar pago y crear la orden
// @Description  Idempotente: si la orden ya existe se devuelve con created=false.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConfirmPaymentRequest  true  "payment_intent_id, business_name, business_address"
// @Success      200   {object}  dto.ConfirmPaymentResponse
// @Success      201   {object}  dto.ConfirmPaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      402   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/payments/confirm [post]
func (h *PaymentHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ConfirmPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Confirm(c.UserContext(), CurrentUser(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	status := fiber.StatusOK
	if out.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(out)
}
