package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/review-analyzer-api/internal/application/order"
	"github.com/jhoicas/review-analyzer-api/pkg/logger"
)

// OrderHandler órdenes del cliente (protegido).
type OrderHandler struct {
	uc  *order.OrderUseCase
	log *logger.Logger
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *order.OrderUseCase, log *logger.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, log: log}
}

// Dashboard godoc
// @Summary      Panel del cliente
// @Tags         orders
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/dashboard [get]
func (h *OrderHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.UserContext(), CurrentUser(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar órdenes
// @Tags         orders
// @Produce      json
// @Success      200  {array}   dto.OrderResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.ListForUser(c.UserContext(), CurrentUser(c).ID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(list)
}

// Receipt godoc
// @Summary      Comprobante PDF de una orden
// @Tags         orders
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {file}    binary
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	pdf, err := h.uc.Receipt(c.UserContext(), CurrentUser(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="comprobante-`+c.Params("id")+`.pdf"`)
	return c.Send(pdf)
}
