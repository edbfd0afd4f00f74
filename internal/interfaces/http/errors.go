package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/review-analyzer-api/internal/application/dto"
	"github.com/jhoicas/review-analyzer-api/internal/domain"
	"github.com/jhoicas/review-analyzer-api/pkg/logger"
)

// Mensajes genéricos: el detalle de errores internos solo va a los logs.
const (
	msgUnauthorized = "no autenticado"
	msgRetryLater   = "error interno, intente más tarde"
	msgGatewayDown  = "el servicio de pagos no está disponible, intente más tarde"
)

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: msgUnauthorized})
}

// writeError traduce errores de dominio a respuestas HTTP. Nunca expone err.Error().
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: verr.Message,
			Fields:  map[string]string{verr.Field: verr.Message},
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrSignatureInvalid):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_SIGNATURE", Message: "firma inválida"})
	case errors.Is(err, domain.ErrUnauthorized):
		return unauthorized(c)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_CREDENTIALS", Message: "email o contraseña inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "el recurso ya existe"})
	case errors.Is(err, domain.ErrPaymentNotCompleted):
		return c.Status(fiber.StatusPaymentRequired).JSON(dto.ErrorResponse{Code: "PAYMENT_NOT_COMPLETED", Message: "el pago aún no se ha completado"})
	case errors.Is(err, domain.ErrPaymentFailed):
		return c.Status(fiber.StatusPaymentRequired).JSON(dto.ErrorResponse{Code: "PAYMENT_FAILED", Message: "el pago fue rechazado"})
	case errors.Is(err, domain.ErrGateway):
		log.Error().Err(err).Str("path", c.Path()).Msg("pasarela de pagos")
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "GATEWAY_UNAVAILABLE", Message: msgGatewayDown})
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: msgRetryLater})
	}
}
