package stripe_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/review-analyzer-api/internal/application/ports"
	"github.com/jhoicas/review-analyzer-api/internal/domain"
	"github.com/jhoicas/review-analyzer-api/internal/infrastructure/stripe"
	"github.com/jhoicas/review-analyzer-api/pkg/logger"
)

const testWebhookSecret = "whsec_test_secret"

func noRetries() *int64 {
	n := int64(0)
	return &n
}

func newGateway(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *stripe.Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return stripe.NewGateway(stripe.Config{
		SecretKey:     "sk_test_123",
		WebhookSecret: testWebhookSecret,
		Timeout:       timeout,
		BaseURL:       srv.URL,
		MaxRetries:    noRetries(),
	}, logger.Nop())
}

// sign arma la cabecera Stripe-Signature: t=<ts>,v1=hex(HMAC-SHA256(secret, "<ts>.<payload>")).
func sign(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestCreateIntent_EnviaCentavosYMetadata(t *testing.T) {
	var form map[string]string
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		form = map[string]string{
			"amount":   r.PostForm.Get("amount"),
			"currency": r.PostForm.Get("currency"),
			"customer": r.PostForm.Get("customer"),
			"receipt":  r.PostForm.Get("receipt_email"),
			"user_id":  r.PostForm.Get("metadata[user_id]"),
			"apm":      r.PostForm.Get("automatic_payment_methods[enabled]"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_123","object":"payment_intent","client_secret":"pi_123_secret_abc","status":"requires_payment_method","amount":3000,"currency":"usd"}`))
	}, time.Second)

	ref, err := gw.CreateIntent(context.Background(), ports.IntentRequest{
		Amount:       decimal.RequireFromString("29.995"),
		Currency:     "USD",
		CustomerID:   "cus_1",
		ReceiptEmail: "ann@example.com",
		Metadata:     map[string]string{"user_id": "u1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_123", ref.ID)
	assert.Equal(t, "pi_123_secret_abc", ref.ClientSecret)

	assert.Equal(t, "3000", form["amount"], "29.995 redondea hacia arriba")
	assert.Equal(t, "usd", form["currency"])
	assert.Equal(t, "cus_1", form["customer"])
	assert.Equal(t, "ann@example.com", form["receipt"])
	assert.Equal(t, "u1", form["user_id"])
	assert.Equal(t, "true", form["apm"])
}

func TestRetrieveIntent_EstadoYCargo(t *testing.T) {
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment_intents/pi_123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_123","object":"payment_intent","status":"succeeded","amount":2999,"currency":"usd","latest_charge":"ch_9"}`))
	}, time.Second)

	st, err := gw.RetrieveIntent(context.Background(), "pi_123")
	require.NoError(t, err)
	assert.Equal(t, ports.IntentStatusSucceeded, st.Status)
	assert.Equal(t, "ch_9", st.ChargeID)
	assert.True(t, decimal.RequireFromString("29.99").Equal(st.Amount))
}

func TestGateway_RechazoEsGatewayError(t *testing.T) {
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`))
	}, time.Second)

	_, err := gw.CreateIntent(context.Background(), ports.IntentRequest{Amount: decimal.NewFromInt(10), Currency: "usd"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGateway)
	var gerr *domain.GatewayError
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, "create_intent", gerr.Op)
}

func TestGateway_TimeoutEsGatewayError(t *testing.T) {
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, 50*time.Millisecond)

	start := time.Now()
	_, err := gw.RetrieveIntent(context.Background(), "pi_lento")
	assert.ErrorIs(t, err, domain.ErrGateway)
	assert.Less(t, time.Since(start), time.Second)
}

func TestCreateIntent_MontoNegativoNoLlamaAStripe(t *testing.T) {
	called := false
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) { called = true }, time.Second)

	_, err := gw.CreateIntent(context.Background(), ports.IntentRequest{Amount: decimal.NewFromInt(-1), Currency: "usd"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.False(t, called)
}

func webhookPayload(eventType string) []byte {
	return []byte(fmt.Sprintf(`{"id":"evt_1","object":"event","api_version":"2020-08-27","type":%q,"data":{"object":{"id":"pi_123","object":"payment_intent","status":"succeeded","amount":2999,"currency":"usd","latest_charge":"ch_9"}}}`, eventType))
}

func TestVerifyWebhook_FirmaValida(t *testing.T) {
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {}, time.Second)
	payload := webhookPayload(ports.EventPaymentIntentSucceeded)

	ev, err := gw.VerifyWebhook(payload, sign(payload, testWebhookSecret, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, "evt_1", ev.ID)
	assert.Equal(t, ports.EventPaymentIntentSucceeded, ev.Type)
	assert.Equal(t, "pi_123", ev.IntentID)
	assert.Equal(t, "ch_9", ev.ChargeID)
}

func TestVerifyWebhook_RechazaAntesDeParsear(t *testing.T) {
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {}, time.Second)
	payload := webhookPayload(ports.EventPaymentIntentSucceeded)

	cases := []struct {
		name   string
		body   []byte
		header string
	}{
		{"sin cabecera", payload, ""},
		{"secreto equivocado", payload, sign(payload, "whsec_otro", time.Now())},
		{"cuerpo alterado", append([]byte(" "), payload...), sign(payload, testWebhookSecret, time.Now())},
		{"marca de tiempo vieja", payload, sign(payload, testWebhookSecret, time.Now().Add(-time.Hour))},
		{"cuerpo basura", []byte("no es json"), "t=1,v1=00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev, err := gw.VerifyWebhook(tc.body, tc.header)
			assert.ErrorIs(t, err, domain.ErrSignatureInvalid)
			assert.Nil(t, ev)
		})
	}
}

func TestVerifyWebhook_SinSecretoConfigurado(t *testing.T) {
	gw := stripe.NewGateway(stripe.Config{SecretKey: "sk_test_123"}, logger.Nop())
	payload := webhookPayload(ports.EventPaymentIntentSucceeded)

	_, err := gw.VerifyWebhook(payload, sign(payload, "", time.Now()))
	assert.ErrorIs(t, err, domain.ErrSignatureInvalid)
}
