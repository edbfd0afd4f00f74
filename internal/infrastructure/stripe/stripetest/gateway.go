// Package stripetest ofrece una pasarela de pagos falsa para tests.
package stripetest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jhoicas/review-analyzer-api/internal/application/ports"
	"github.com/jhoicas/review-analyzer-api/internal/domain"
)

// ValidSignature única cabecera de firma que VerifyWebhook acepta.
const ValidSignature = "t=1,v1=test"

// Gateway implementa ports.PaymentGateway en memoria.
// Los intentos nacen en "requires_payment_method"; Succeed/Fail los mueven.
type Gateway struct {
	mu        sync.Mutex
	intents   map[string]*ports.IntentState
	seq       int
	Customers []string

	// Errores inyectables por operación.
	CustomerErr error
	CreateErr   error
	RetrieveErr error
	// LastRequest último IntentRequest recibido.
	LastRequest ports.IntentRequest
}

var _ ports.PaymentGateway = (*Gateway)(nil)

// New crea la pasarela falsa.
func New() *Gateway {
	return &Gateway{intents: make(map[string]*ports.IntentState)}
}

func (g *Gateway) CreateCustomer(_ context.Context, email, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.CustomerErr != nil {
		return "", &domain.GatewayError{Op: "create_customer", Err: g.CustomerErr}
	}
	g.seq++
	id := fmt.Sprintf("cus_test_%d", g.seq)
	g.Customers = append(g.Customers, email)
	return id, nil
}

func (g *Gateway) CreateIntent(_ context.Context, req ports.IntentRequest) (*ports.IntentRef, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.LastRequest = req
	if g.CreateErr != nil {
		return nil, &domain.GatewayError{Op: "create_intent", Err: g.CreateErr}
	}
	g.seq++
	id := fmt.Sprintf("pi_test_%d", g.seq)
	g.intents[id] = &ports.IntentState{
		ID:       id,
		Status:   "requires_payment_method",
		Amount:   req.Amount,
		Currency: req.Currency,
	}
	return &ports.IntentRef{ID: id, ClientSecret: id + "_secret"}, nil
}

func (g *Gateway) RetrieveIntent(_ context.Context, intentID string) (*ports.IntentState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.RetrieveErr != nil {
		return nil, &domain.GatewayError{Op: "retrieve_intent", Err: g.RetrieveErr}
	}
	st, ok := g.intents[intentID]
	if !ok {
		return nil, &domain.GatewayError{Op: "retrieve_intent", Err: fmt.Errorf("no such payment_intent: %s", intentID)}
	}
	cp := *st
	return &cp, nil
}

// Succeed marca el intento como cobrado, con un id de cargo.
func (g *Gateway) Succeed(intentID string) {
	g.setStatus(intentID, ports.IntentStatusSucceeded, "ch_"+intentID)
}

// Fail marca el intento como cancelado.
func (g *Gateway) Fail(intentID string) {
	g.setStatus(intentID, ports.IntentStatusCanceled, "")
}

func (g *Gateway) setStatus(intentID, status, chargeID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if st, ok := g.intents[intentID]; ok {
		st.Status = status
		st.ChargeID = chargeID
	}
}

// VerifyWebhook acepta solo ValidSignature; el cuerpo es un ports.WebhookEvent en JSON.
func (g *Gateway) VerifyWebhook(rawBody []byte, signatureHeader string) (*ports.WebhookEvent, error) {
	if signatureHeader != ValidSignature {
		return nil, domain.ErrSignatureInvalid
	}
	var ev ports.WebhookEvent
	if err := json.Unmarshal(rawBody, &ev); err != nil {
		return nil, domain.ErrSignatureInvalid
	}
	return &ev, nil
}

// Event serializa un evento en el formato que entiende VerifyWebhook.
func Event(id, typ, intentID string) []byte {
	b, _ := json.Marshal(ports.WebhookEvent{ID: id, Type: typ, IntentID: intentID, ChargeID: "ch_" + intentID})
	return b
}
