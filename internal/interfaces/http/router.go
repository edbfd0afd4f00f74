package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/review-analyzer-api/internal/application/auth"
	"github.com/jhoicas/review-analyzer-api/internal/application/order"
	"github.com/jhoicas/review-analyzer-api/internal/application/payment"
	"github.com/jhoicas/review-analyzer-api/pkg/config"
	"github.com/jhoicas/review-analyzer-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	Identity  *auth.IdentityResolver
	PaymentUC *payment.ReconciliationUseCase
	OrderUC   *order.OrderUseCase
	Cookie    config.CookieConfig
	Log       *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Webhook: sin sesión, autenticado por firma.
	webhookHandler := NewWebhookHandler(deps.PaymentUC, deps.Log)
	app.Post("/webhook/stripe", webhookHandler.Stripe)

	api := app.Group("/api", SessionMiddleware(deps.Identity, deps.Cookie.Name))
	requireAuth := RequireAuth()

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, deps.Cookie, deps.Log)
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", authHandler.Signup)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	// Checkout
	paymentHandler := NewPaymentHandler(deps.PaymentUC, deps.Log)
	api.Get("/plans", paymentHandler.Plans)
	payments := api.Group("/payments")
	payments.Post("/intent", requireAuth, paymentHandler.CreateIntent)
	payments.Post("/confirm", requireAuth, paymentHandler.Confirm)

	// Órdenes (protegido)
	orderHandler := NewOrderHandler(deps.OrderUC, deps.Log)
	api.Get("/dashboard", requireAuth, orderHandler.Dashboard)
	api.Get("/orders", requireAuth, orderHandler.List)
	api.Get("/orders/:id/receipt", requireAuth, orderHandler.Receipt)
}
