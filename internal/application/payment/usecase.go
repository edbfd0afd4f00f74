package payment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/review-analyzer-api/internal/application/dto"
	"github.com/jhoicas/review-analyzer-api/internal/application/order"
	"github.com/jhoicas/review-analyzer-api/internal/application/ports"
	"github.com/jhoicas/review-analyzer-api/internal/domain"
	"github.com/jhoicas/review-analyzer-api/internal/domain/entity"
	"github.com/jhoicas/review-analyzer-api/internal/domain/pricing"
	"github.com/jhoicas/review-analyzer-api/internal/domain/repository"
	"github.com/jhoicas/review-analyzer-api/pkg/logger"
)

// Resultados de HandleWebhook (van en el acuse al gateway).
const (
	WebhookProcessed = "processed"
	WebhookDuplicate = "duplicate"
	WebhookIgnored   = "ignored"
)

const maxBusinessFieldLen = 255

// ReconciliationUseCase máquina de estados pago → orden.
// Una orden se crea exactamente una vez por pago, aunque confirmación y webhook corran a la vez.
type ReconciliationUseCase struct {
	users          repository.UserRepository
	payments       repository.PaymentRepository
	orders         repository.OrderRepository
	txRunner       ReconciliationTxRunner
	gateway        ports.PaymentGateway
	notifier       ports.Notifier
	publishableKey string
	log            *logger.Logger
	now            func() time.Time
}

// NewReconciliationUseCase construye el caso de uso. notifier puede ser nil.
func NewReconciliationUseCase(
	users repository.UserRepository,
	payments repository.PaymentRepository,
	orders repository.OrderRepository,
	txRunner ReconciliationTxRunner,
	gateway ports.PaymentGateway,
	notifier ports.Notifier,
	publishableKey string,
	log *logger.Logger,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		users:          users,
		payments:       payments,
		orders:         orders,
		txRunner:       txRunner,
		gateway:        gateway,
		notifier:       notifier,
		publishableKey: publishableKey,
		log:            log,
		now:            time.Now,
	}
}

// Plans catálogo de precios para el checkout.
func (uc *ReconciliationUseCase) Plans() *dto.PlansResponse {
	out := &dto.PlansResponse{PublishableKey: uc.publishableKey}
	for _, p := range pricing.Plans() {
		out.Plans = append(out.Plans, dto.PlanResponse{
			Key:         p.Key,
			Name:        p.Name,
			Price:       p.Price,
			Currency:    pricing.DefaultCurrency,
			Description: p.Description,
		})
	}
	return out
}

// CreateIntent crea el PaymentIntent del plan elegido y guarda el Payment en pending.
// Si la pasarela falla no se escribe nada.
func (uc *ReconciliationUseCase) CreateIntent(ctx context.Context, user *entity.User, in dto.CreateIntentRequest) (*dto.CreateIntentResponse, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	plan := pricing.LookupPlan(in.Plan)

	customerID := uc.ensureCustomer(ctx, user)
	ref, err := uc.gateway.CreateIntent(ctx, ports.IntentRequest{
		Amount:       plan.Price,
		Currency:     pricing.DefaultCurrency,
		Description:  "Análisis de reseñas con IA - plan " + plan.Name,
		CustomerID:   customerID,
		ReceiptEmail: user.Email,
		Metadata: map[string]string{
			"user_id": user.ID,
			"plan":    plan.Key,
		},
	})
	if err != nil {
		uc.log.Error().Err(err).Str("user_id", user.ID).Str("plan", plan.Key).Msg("crear payment intent")
		return nil, err
	}

	now := uc.now()
	p := &entity.Payment{
		UserID:                user.ID,
		StripePaymentIntentID: ref.ID,
		Amount:                plan.Price,
		Currency:              pricing.DefaultCurrency,
		Status:                entity.PaymentStatusPending,
		Description:           "Plan " + plan.Name,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := uc.payments.Create(ctx, p); err != nil {
		// El intento queda huérfano en la pasarela; nunca se cobra sin un Payment local que lo concilie.
		uc.log.Error().Err(err).Str("intent_id", ref.ID).Msg("guardar payment")
		return nil, err
	}
	uc.log.Info().Str("intent_id", ref.ID).Int64("payment_id", p.ID).Str("plan", plan.Key).Msg("payment intent creado")

	return &dto.CreateIntentResponse{
		ClientSecret:    ref.ClientSecret,
		PaymentIntentID: ref.ID,
		Amount:          plan.Price,
		Currency:        pricing.DefaultCurrency,
		PublishableKey:  uc.publishableKey,
	}, nil
}

// ensureCustomer devuelve el customer de la pasarela del usuario, creándolo si falta.
// Es best effort: sin customer el cobro sigue funcionando.
func (uc *ReconciliationUseCase) ensureCustomer(ctx context.Context, user *entity.User) string {
	if user.StripeCustomerID != "" {
		return user.StripeCustomerID
	}
	id, err := uc.gateway.CreateCustomer(ctx, user.Email, user.Name)
	if err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("crear customer en pasarela")
		return ""
	}
	if err := uc.users.UpdateStripeCustomer(ctx, user.ID, id); err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("guardar customer de pasarela")
	}
	user.StripeCustomerID = id
	return id
}

// Confirm concilia el pago confirmado por el cliente y crea su orden.
// Es idempotente: si la orden ya existe la devuelve con Created=false.
func (uc *ReconciliationUseCase) Confirm(ctx context.Context, user *entity.User, in dto.ConfirmPaymentRequest) (*dto.ConfirmPaymentResponse, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	intentID := strings.TrimSpace(in.PaymentIntentID)
	if intentID == "" {
		return nil, domain.NewValidationError("payment_intent_id", "el identificador del pago es requerido")
	}

	p, err := uc.payments.FindByIntentID(ctx, intentID)
	if err != nil {
		return nil, err
	}
	// Un intento de otro usuario es indistinguible de uno inexistente.
	if p == nil || p.UserID != user.ID {
		return nil, domain.ErrNotFound
	}
	if p.Status == entity.PaymentStatusFailed {
		return nil, domain.ErrPaymentFailed
	}
	existing, err := uc.orders.FindByPaymentID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &dto.ConfirmPaymentResponse{Order: *order.ToOrderResponse(existing), Created: false}, nil
	}

	name, address, err := validateBusiness(in.BusinessName, in.BusinessAddress)
	if err != nil {
		return nil, err
	}

	chargeID := p.StripeChargeID
	if p.Status == entity.PaymentStatusPending {
		state, err := uc.gateway.RetrieveIntent(ctx, intentID)
		if err != nil {
			uc.log.Warn().Err(err).Str("intent_id", intentID).Msg("consultar payment intent")
			return nil, err
		}
		if state.Status != ports.IntentStatusSucceeded {
			return nil, domain.ErrPaymentNotCompleted
		}
		chargeID = state.ChargeID
	}

	var (
		reconciled *entity.Order
		created    bool
	)
	err = uc.txRunner.RunReconciliation(ctx, func(payments repository.PaymentRepository, orders repository.OrderRepository, _ repository.WebhookEventRepository) error {
		locked, err := payments.FindByIntentIDForUpdate(ctx, intentID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		if locked.Status == entity.PaymentStatusFailed {
			return domain.ErrPaymentFailed
		}
		prev, err := orders.FindByPaymentID(ctx, locked.ID)
		if err != nil {
			return err
		}
		if prev != nil {
			reconciled = prev
			return nil
		}
		if locked.Status == entity.PaymentStatusPending {
			won, err := payments.TransitionStatus(ctx, intentID, entity.PaymentStatusSucceeded, chargeID)
			if err != nil {
				return err
			}
			if !won {
				uc.log.Debug().Str("intent_id", intentID).Msg("transición ya hecha por el webhook")
			}
		}

		now := uc.now()
		paymentID := locked.ID
		o := &entity.Order{
			ID:              uuid.New().String(),
			UserID:          user.ID,
			BusinessName:    name,
			BusinessAddress: address,
			Status:          entity.OrderStatusCompleted,
			Price:           locked.Amount,
			PaymentID:       &paymentID,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := orders.Create(ctx, o); err != nil {
			return err
		}
		reconciled, created = o, true
		return nil
	})
	if errors.Is(err, domain.ErrConflict) {
		// Otra confirmación ganó la carrera sobre la restricción única.
		prev, ferr := uc.orders.FindByPaymentID(ctx, p.ID)
		if ferr == nil && prev != nil {
			return &dto.ConfirmPaymentResponse{Order: *order.ToOrderResponse(prev), Created: false}, nil
		}
	}
	if err != nil {
		return nil, err
	}

	if created {
		uc.log.Info().Str("order_id", reconciled.ID).Str("intent_id", intentID).Msg("orden creada")
		uc.notifyOrder(ctx, user, reconciled)
	}
	return &dto.ConfirmPaymentResponse{Order: *order.ToOrderResponse(reconciled), Created: created}, nil
}

func (uc *ReconciliationUseCase) notifyOrder(ctx context.Context, user *entity.User, o *entity.Order) {
	if uc.notifier == nil {
		return
	}
	if err := uc.notifier.OrderConfirmed(ctx, user, o); err != nil {
		uc.log.Warn().Err(err).Str("order_id", o.ID).Msg("enviar confirmación de orden")
	}
}

// HandleWebhook procesa un evento firmado de la pasarela. La firma se verifica antes de
// leer el contenido; un reenvío del mismo evento es un no-op.
// El webhook solo transiciona el pago: la orden necesita los datos del negocio y la crea Confirm.
func (uc *ReconciliationUseCase) HandleWebhook(ctx context.Context, rawBody []byte, signature string) (string, error) {
	event, err := uc.gateway.VerifyWebhook(rawBody, signature)
	if err != nil {
		uc.log.Warn().Err(err).Msg("webhook rechazado")
		return "", err
	}

	var to string
	switch event.Type {
	case ports.EventPaymentIntentSucceeded:
		to = entity.PaymentStatusSucceeded
	case ports.EventPaymentIntentFailed:
		to = entity.PaymentStatusFailed
	default:
		uc.log.Debug().Str("event_id", event.ID).Str("type", event.Type).Msg("webhook ignorado")
		return WebhookIgnored, nil
	}

	result := WebhookProcessed
	err = uc.txRunner.RunReconciliation(ctx, func(payments repository.PaymentRepository, _ repository.OrderRepository, events repository.WebhookEventRepository) error {
		fresh, err := events.Record(ctx, &entity.WebhookEvent{
			EventID:         event.ID,
			EventType:       event.Type,
			PaymentIntentID: event.IntentID,
			ReceivedAt:      uc.now(),
		})
		if err != nil {
			return err
		}
		if !fresh {
			result = WebhookDuplicate
			return nil
		}
		p, err := payments.FindByIntentIDForUpdate(ctx, event.IntentID)
		if err != nil {
			return err
		}
		if p == nil {
			uc.log.Warn().Str("event_id", event.ID).Str("intent_id", event.IntentID).Msg("webhook de un intento desconocido")
			result = WebhookIgnored
			return nil
		}
		won, err := payments.TransitionStatus(ctx, event.IntentID, to, event.ChargeID)
		if err != nil {
			return err
		}
		if !won {
			uc.log.Debug().Str("intent_id", event.IntentID).Str("status", p.Status).Msg("pago ya conciliado")
		}
		return nil
	})
	if err != nil {
		uc.log.Error().Err(err).Str("event_id", event.ID).Msg("procesar webhook")
		return "", err
	}
	uc.log.Info().Str("event_id", event.ID).Str("type", event.Type).Str("result", result).Msg("webhook")
	return result, nil
}

func validateBusiness(name, address string) (string, string, error) {
	name = strings.TrimSpace(name)
	address = strings.TrimSpace(address)
	if name == "" {
		return "", "", domain.NewValidationError("business_name", "ingrese el nombre del negocio")
	}
	if len(name) > maxBusinessFieldLen {
		return "", "", domain.NewValidationError("business_name", "el nombre del negocio es demasiado largo")
	}
	if address == "" {
		return "", "", domain.NewValidationError("business_address", "ingrese la dirección del negocio")
	}
	if len(address) > maxBusinessFieldLen {
		return "", "", domain.NewValidationError("business_address", "la dirección del negocio es demasiado larga")
	}
	return name, address, nil
}
