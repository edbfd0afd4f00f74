// Package stripe adapta la pasarela de pagos Stripe al puerto ports.PaymentGateway.
package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	stripesdk "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/jhoicas/review-analyzer-api/internal/application/ports"
	"github.com/jhoicas/review-analyzer-api/internal/domain"
	"github.com/jhoicas/review-analyzer-api/internal/domain/pricing"
	"github.com/jhoicas/review-analyzer-api/pkg/logger"
)

const (
	defaultTimeout = 10 * time.Second
	// Tolerancia de la marca de tiempo en la cabecera Stripe-Signature.
	signatureTolerance = 5 * time.Minute
)

// Config parámetros del adaptador.
type Config struct {
	SecretKey     string
	WebhookSecret string
	Timeout       time.Duration // por llamada saliente
	// BaseURL reemplaza https://api.stripe.com (tests, stripe-mock).
	BaseURL string
	// MaxRetries reintentos de red del SDK; nil usa el valor por defecto del SDK.
	MaxRetries *int64
}

// Gateway implementa ports.PaymentGateway con stripe-go.
type Gateway struct {
	api           *client.API
	webhookSecret string
	timeout       time.Duration
	log           *logger.Logger
}

var _ ports.PaymentGateway = (*Gateway)(nil)

// NewGateway construye el cliente de Stripe con su propio backend (sin estado global del SDK).
func NewGateway(cfg Config, log *logger.Logger) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	backendCfg := &stripesdk.BackendConfig{
		HTTPClient:        &http.Client{Timeout: timeout},
		LeveledLogger:     &leveledLogger{log: log},
		MaxNetworkRetries: cfg.MaxRetries,
	}
	if cfg.BaseURL != "" {
		backendCfg.URL = stripesdk.String(cfg.BaseURL)
	}
	backend := stripesdk.GetBackendWithConfig(stripesdk.APIBackend, backendCfg)
	api := client.New(cfg.SecretKey, &stripesdk.Backends{API: backend, Connect: backend, Uploads: backend})
	return &Gateway{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
		timeout:       timeout,
		log:           log,
	}
}

// CreateCustomer crea el customer de Stripe del usuario.
func (g *Gateway) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripesdk.CustomerParams{
		Email: stripesdk.String(email),
	}
	if name != "" {
		params.Name = stripesdk.String(name)
	}
	params.Context = ctx
	c, err := g.api.Customers.New(params)
	if err != nil {
		return "", g.wrap("create_customer", err)
	}
	return c.ID, nil
}

// CreateIntent crea el PaymentIntent. El monto se envía en unidades menores (redondeo half-up).
func (g *Gateway) CreateIntent(ctx context.Context, req ports.IntentRequest) (*ports.IntentRef, error) {
	amount, err := pricing.ToMinorUnits(req.Amount)
	if err != nil {
		return nil, domain.NewValidationError("amount", err.Error())
	}
	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = pricing.DefaultCurrency
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripesdk.PaymentIntentParams{
		Amount:   stripesdk.Int64(amount),
		Currency: stripesdk.String(currency),
		AutomaticPaymentMethods: &stripesdk.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripesdk.Bool(true),
		},
	}
	if req.Description != "" {
		params.Description = stripesdk.String(req.Description)
	}
	if req.CustomerID != "" {
		params.Customer = stripesdk.String(req.CustomerID)
	}
	if req.ReceiptEmail != "" {
		params.ReceiptEmail = stripesdk.String(req.ReceiptEmail)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, g.wrap("create_intent", err)
	}
	return &ports.IntentRef{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// RetrieveIntent consulta el estado actual del PaymentIntent.
func (g *Gateway) RetrieveIntent(ctx context.Context, intentID string) (*ports.IntentState, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripesdk.PaymentIntentParams{}
	params.Context = ctx
	pi, err := g.api.PaymentIntents.Get(intentID, params)
	if err != nil {
		return nil, g.wrap("retrieve_intent", err)
	}
	return intentState(pi), nil
}

// VerifyWebhook valida la cabecera Stripe-Signature (HMAC-SHA256, comparación en tiempo constante
// dentro del SDK) antes de decodificar el evento.
func (g *Gateway) VerifyWebhook(rawBody []byte, signatureHeader string) (*ports.WebhookEvent, error) {
	if g.webhookSecret == "" || signatureHeader == "" {
		return nil, domain.ErrSignatureInvalid
	}
	event, err := webhook.ConstructEventWithOptions(rawBody, signatureHeader, g.webhookSecret, webhook.ConstructEventOptions{
		Tolerance:                signatureTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSignatureInvalid, err)
	}

	out := &ports.WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if strings.HasPrefix(out.Type, "payment_intent.") && event.Data != nil {
		var pi stripesdk.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, domain.NewValidationError("data", "objeto payment_intent ilegible")
		}
		st := intentState(&pi)
		out.IntentID = st.ID
		out.ChargeID = st.ChargeID
	}
	return out, nil
}

func intentState(pi *stripesdk.PaymentIntent) *ports.IntentState {
	st := &ports.IntentState{
		ID:       pi.ID,
		Status:   string(pi.Status),
		Amount:   pricing.FromMinorUnits(pi.Amount),
		Currency: string(pi.Currency),
	}
	if pi.LatestCharge != nil {
		st.ChargeID = pi.LatestCharge.ID
	}
	return st
}

// wrap convierte errores del SDK en *domain.GatewayError y los registra con el detalle de Stripe.
func (g *Gateway) wrap(op string, err error) error {
	ev := g.log.Warn().Err(err).Str("op", op)
	var serr *stripesdk.Error
	if errors.As(err, &serr) {
		ev = ev.Str("stripe_type", string(serr.Type)).Str("stripe_code", string(serr.Code)).Int("http_status", serr.HTTPStatusCode)
	}
	ev.Msg("stripe")
	return &domain.GatewayError{Op: op, Err: err}
}
