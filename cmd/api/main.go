package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/review-analyzer-api/internal/application/auth"
	"github.com/jhoicas/review-analyzer-api/internal/application/order"
	"github.com/jhoicas/review-analyzer-api/internal/application/payment"
	"github.com/jhoicas/review-analyzer-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/review-analyzer-api/internal/infrastructure/pdf"
	"github.com/jhoicas/review-analyzer-api/internal/infrastructure/postgres"
	infrastripe "github.com/jhoicas/review-analyzer-api/internal/infrastructure/stripe"
	httpRouter "github.com/jhoicas/review-analyzer-api/internal/interfaces/http"
	"github.com/jhoicas/review-analyzer-api/pkg/config"
	"github.com/jhoicas/review-analyzer-api/pkg/jwt"
	"github.com/jhoicas/review-analyzer-api/pkg/logger"

	_ "github.com/jhoicas/review-analyzer-api/docs"
)

// @title        AI Review Analyzer API
// @version      1.0
// @description  Registro, checkout con Stripe y órdenes de análisis de reseñas.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})

	usedPlaceholder, err := cfg.Validate()
	if err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	if usedPlaceholder {
		log.Warn().Msg("JWT_SECRET vacío: usando secreto de desarrollo, no apto para producción")
	}

	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	tokens, err := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL())
	if err != nil {
		log.Fatal().Err(err).Msg("gestor de tokens")
	}

	gateway := infrastripe.NewGateway(infrastripe.Config{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		Timeout:       cfg.Stripe.Timeout,
	}, log.Named("stripe"))
	mailer := notify.NewSendGridMailer(cfg.SendGrid, log.Named("sendgrid"))

	authUC := auth.NewAuthUseCase(userRepo, tokens)
	identity := auth.NewIdentityResolver(tokens, userRepo, log.Named("auth"))
	paymentUC := payment.NewReconciliationUseCase(
		userRepo, paymentRepo, orderRepo, txRunner,
		gateway, mailer, cfg.Stripe.PublishableKey, log.Named("payments"),
	)
	orderUC := order.NewOrderUseCase(orderRepo, paymentRepo, infrapdf.NewReceiptGenerator())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI: http://localhost:<port>/docs
	if cfg.App.DocsEnabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "AI Review Analyzer API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			log.Error().Err(err).Msg("health: base de datos")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		Identity:  identity,
		PaymentUC: paymentUC,
		OrderUC:   orderUC,
		Cookie:    cfg.Cookie,
		Log:       log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
