package payment_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/review-analyzer-api/internal/application/dto"
	"github.com/jhoicas/review-analyzer-api/internal/application/payment"
	"github.com/jhoicas/review-analyzer-api/internal/application/ports"
	"github.com/jhoicas/review-analyzer-api/internal/domain"
	"github.com/jhoicas/review-analyzer-api/internal/domain/entity"
	"github.com/jhoicas/review-analyzer-api/internal/infrastructure/memory"
	"github.com/jhoicas/review-analyzer-api/internal/infrastructure/stripe/stripetest"
	"github.com/jhoicas/review-analyzer-api/pkg/logger"
)

type recordingNotifier struct {
	mu     sync.Mutex
	orders []string
	err    error
}

func (n *recordingNotifier) OrderConfirmed(_ context.Context, _ *entity.User, o *entity.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orders = append(n.orders, o.ID)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.orders)
}

var _ ports.Notifier = (*recordingNotifier)(nil)

type fixture struct {
	store    *memory.Store
	gw       *stripetest.Gateway
	notifier *recordingNotifier
	uc       *payment.ReconciliationUseCase
	ann      *entity.User
	bob      *entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: memory.NewStore(), gw: stripetest.New(), notifier: &recordingNotifier{}}
	f.uc = payment.NewReconciliationUseCase(
		f.store.Users(), f.store.Payments(), f.store.Orders(), f.store,
		f.gw, f.notifier, "pk_test_123", logger.Nop(),
	)
	ctx := context.Background()
	f.ann = &entity.User{ID: "user-ann", Name: "Ann", Email: "ann@example.com"}
	f.bob = &entity.User{ID: "user-bob", Name: "Bob", Email: "bob@example.com"}
	require.NoError(t, f.store.Users().Create(ctx, f.ann))
	require.NoError(t, f.store.Users().Create(ctx, f.bob))
	return f
}

func (f *fixture) createIntent(t *testing.T, user *entity.User, plan string) string {
	t.Helper()
	res, err := f.uc.CreateIntent(context.Background(), user, dto.CreateIntentRequest{Plan: plan})
	require.NoError(t, err)
	return res.PaymentIntentID
}

func (f *fixture) payment(t *testing.T, intentID string) *entity.Payment {
	t.Helper()
	p, err := f.store.Payments().FindByIntentID(context.Background(), intentID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func confirmReq(intentID string) dto.ConfirmPaymentRequest {
	return dto.ConfirmPaymentRequest{PaymentIntentID: intentID, BusinessName: "Café Ann", BusinessAddress: "Calle 1 #2-3"}
}

func TestCreateIntent_GuardaPagoPendiente(t *testing.T) {
	f := newFixture(t)
	res, err := f.uc.CreateIntent(context.Background(), f.ann, dto.CreateIntentRequest{Plan: "basic"})
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("29.99").Equal(res.Amount))
	assert.Equal(t, "usd", res.Currency)
	assert.Equal(t, "pk_test_123", res.PublishableKey)
	assert.NotEmpty(t, res.ClientSecret)

	p := f.payment(t, res.PaymentIntentID)
	assert.Equal(t, entity.PaymentStatusPending, p.Status)
	assert.Equal(t, f.ann.ID, p.UserID)
	assert.True(t, decimal.RequireFromString("29.99").Equal(p.Amount))

	// Customer creado una vez y guardado en el usuario.
	stored, err := f.store.Users().FindByID(context.Background(), f.ann.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.StripeCustomerID)
	assert.Equal(t, stored.StripeCustomerID, f.gw.LastRequest.CustomerID)
	assert.Equal(t, "ann@example.com", f.gw.LastRequest.ReceiptEmail)

	f.createIntent(t, f.ann, "pro")
	assert.Len(t, f.gw.Customers, 1)
	assert.True(t, decimal.RequireFromString("79.99").Equal(f.gw.LastRequest.Amount))
}

func TestCreateIntent_PlanDesconocidoUsaBasic(t *testing.T) {
	f := newFixture(t)
	res, err := f.uc.CreateIntent(context.Background(), f.ann, dto.CreateIntentRequest{Plan: "gold"})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("29.99").Equal(res.Amount))
}

func TestCreateIntent_ErrorDePasarelaNoGuardaPago(t *testing.T) {
	f := newFixture(t)
	f.gw.CreateErr = errors.New("connection reset")

	_, err := f.uc.CreateIntent(context.Background(), f.ann, dto.CreateIntentRequest{Plan: "basic"})
	assert.ErrorIs(t, err, domain.ErrGateway)
	assert.Zero(t, f.store.PaymentCount())
}

func TestCreateIntent_SinCustomerSigue(t *testing.T) {
	f := newFixture(t)
	f.gw.CustomerErr = errors.New("boom")

	res, err := f.uc.CreateIntent(context.Background(), f.ann, dto.CreateIntentRequest{})
	require.NoError(t, err)
	assert.Empty(t, f.gw.LastRequest.CustomerID)
	assert.Equal(t, entity.PaymentStatusPending, f.payment(t, res.PaymentIntentID).Status)
}

func TestConfirm_CreaOrdenUnaSolaVez(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	intentID := f.createIntent(t, f.ann, "basic")
	f.gw.Succeed(intentID)

	first, err := f.uc.Confirm(ctx, f.ann, confirmReq(intentID))
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, entity.OrderStatusCompleted, first.Order.Status)
	assert.Equal(t, "Café Ann", first.Order.BusinessName)
	assert.True(t, decimal.RequireFromString("29.99").Equal(first.Order.Price))

	p := f.payment(t, intentID)
	assert.Equal(t, entity.PaymentStatusSucceeded, p.Status)
	assert.Equal(t, "ch_"+intentID, p.StripeChargeID)
	require.NotNil(t, first.Order.PaymentID)
	assert.Equal(t, p.ID, *first.Order.PaymentID)

	second, err := f.uc.Confirm(ctx, f.ann, confirmReq(intentID))
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Order.ID, second.Order.ID)
	assert.Equal(t, 1, f.store.OrderCount())
	assert.Equal(t, entity.PaymentStatusSucceeded, f.payment(t, intentID).Status)
	assert.Equal(t, 1, f.notifier.count())
}

func TestConfirm_PagoNoCompletado(t *testing.T) {
	f := newFixture(t)
	intentID := f.createIntent(t, f.ann, "basic")

	_, err := f.uc.Confirm(context.Background(), f.ann, confirmReq(intentID))
	assert.ErrorIs(t, err, domain.ErrPaymentNotCompleted)
	assert.Equal(t, entity.PaymentStatusPending, f.payment(t, intentID).Status)
	assert.Zero(t, f.store.OrderCount())
}

func TestConfirm_ErrorDePasarelaDejaPendiente(t *testing.T) {
	f := newFixture(t)
	intentID := f.createIntent(t, f.ann, "basic")
	f.gw.Succeed(intentID)
	f.gw.RetrieveErr = context.DeadlineExceeded

	_, err := f.uc.Confirm(context.Background(), f.ann, confirmReq(intentID))
	assert.ErrorIs(t, err, domain.ErrGateway)
	assert.Equal(t, entity.PaymentStatusPending, f.payment(t, intentID).Status)
	assert.Zero(t, f.store.OrderCount())
}

func TestConfirm_IntentoDeOtroUsuarioEsNotFound(t *testing.T) {
	f := newFixture(t)
	intentID := f.createIntent(t, f.ann, "basic")
	f.gw.Succeed(intentID)

	_, errAjeno := f.uc.Confirm(context.Background(), f.bob, confirmReq(intentID))
	_, errDesconocido := f.uc.Confirm(context.Background(), f.bob, confirmReq("pi_no_existe"))
	assert.ErrorIs(t, errAjeno, domain.ErrNotFound)
	assert.ErrorIs(t, errDesconocido, domain.ErrNotFound)
	assert.Equal(t, errDesconocido.Error(), errAjeno.Error())
	assert.Equal(t, entity.PaymentStatusPending, f.payment(t, intentID).Status)
}

func TestConfirm_ValidaCamposDelNegocio(t *testing.T) {
	f := newFixture(t)
	intentID := f.createIntent(t, f.ann, "basic")
	f.gw.Succeed(intentID)

	_, err := f.uc.Confirm(context.Background(), f.ann, dto.ConfirmPaymentRequest{PaymentIntentID: intentID, BusinessAddress: "x"})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "business_name", verr.Field)

	_, err = f.uc.Confirm(context.Background(), f.ann, dto.ConfirmPaymentRequest{PaymentIntentID: intentID, BusinessName: "x", BusinessAddress: "  "})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "business_address", verr.Field)

	assert.Equal(t, entity.PaymentStatusPending, f.payment(t, intentID).Status)
}

func TestConfirm_FallaDelNotificadorNoAfecta(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("smtp caído")
	intentID := f.createIntent(t, f.ann, "basic")
	f.gw.Succeed(intentID)

	res, err := f.uc.Confirm(context.Background(), f.ann, confirmReq(intentID))
	require.NoError(t, err)
	assert.True(t, res.Created)
}

func TestHandleWebhook_FirmaInvalidaNoToca(t *testing.T) {
	f := newFixture(t)
	intentID := f.createIntent(t, f.ann, "basic")

	_, err := f.uc.HandleWebhook(context.Background(), stripetest.Event("evt_1", ports.EventPaymentIntentSucceeded, intentID), "t=1,v1=falsa")
	assert.ErrorIs(t, err, domain.ErrSignatureInvalid)
	assert.Equal(t, entity.PaymentStatusPending, f.payment(t, intentID).Status)
}

func TestHandleWebhook_ExitoMarcaPagoYConfirmCreaOrden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	intentID := f.createIntent(t, f.ann, "basic")

	res, err := f.uc.HandleWebhook(ctx, stripetest.Event("evt_1", ports.EventPaymentIntentSucceeded, intentID), stripetest.ValidSignature)
	require.NoError(t, err)
	assert.Equal(t, payment.WebhookProcessed, res)
	assert.Equal(t, entity.PaymentStatusSucceeded, f.payment(t, intentID).Status)
	assert.Zero(t, f.store.OrderCount(), "el webhook no crea órdenes")

	// Reenvío del mismo evento.
	res, err = f.uc.HandleWebhook(ctx, stripetest.Event("evt_1", ports.EventPaymentIntentSucceeded, intentID), stripetest.ValidSignature)
	require.NoError(t, err)
	assert.Equal(t, payment.WebhookDuplicate, res)

	// Con el pago ya conciliado Confirm no consulta la pasarela.
	f.gw.RetrieveErr = errors.New("no debería llamarse")
	conf, err := f.uc.Confirm(ctx, f.ann, confirmReq(intentID))
	require.NoError(t, err)
	assert.True(t, conf.Created)
	assert.Equal(t, 1, f.store.OrderCount())
}

func TestHandleWebhook_PagoFallido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	intentID := f.createIntent(t, f.ann, "basic")

	res, err := f.uc.HandleWebhook(ctx, stripetest.Event("evt_f", ports.EventPaymentIntentFailed, intentID), stripetest.ValidSignature)
	require.NoError(t, err)
	assert.Equal(t, payment.WebhookProcessed, res)
	assert.Equal(t, entity.PaymentStatusFailed, f.payment(t, intentID).Status)

	// Terminal: un éxito posterior no lo cambia.
	_, err = f.uc.HandleWebhook(ctx, stripetest.Event("evt_s", ports.EventPaymentIntentSucceeded, intentID), stripetest.ValidSignature)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusFailed, f.payment(t, intentID).Status)

	_, err = f.uc.Confirm(ctx, f.ann, confirmReq(intentID))
	assert.ErrorIs(t, err, domain.ErrPaymentFailed)
	assert.Zero(t, f.store.OrderCount())
}

func TestHandleWebhook_EventosIgnorados(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.uc.HandleWebhook(ctx, stripetest.Event("evt_x", "charge.refunded", "pi_x"), stripetest.ValidSignature)
	require.NoError(t, err)
	assert.Equal(t, payment.WebhookIgnored, res)

	res, err = f.uc.HandleWebhook(ctx, stripetest.Event("evt_y", ports.EventPaymentIntentSucceeded, "pi_desconocido"), stripetest.ValidSignature)
	require.NoError(t, err)
	assert.Equal(t, payment.WebhookIgnored, res)
}

func TestConciliacion_CarreraConfirmYWebhook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const rounds = 25
	for i := 0; i < rounds; i++ {
		intentID := f.createIntent(t, f.ann, "basic")
		f.gw.Succeed(intentID)

		var wg sync.WaitGroup
		errs := make(chan error, 3)
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, err := f.uc.Confirm(ctx, f.ann, confirmReq(intentID))
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := f.uc.Confirm(ctx, f.ann, confirmReq(intentID))
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := f.uc.HandleWebhook(ctx, stripetest.Event("evt_"+intentID, ports.EventPaymentIntentSucceeded, intentID), stripetest.ValidSignature)
			errs <- err
		}()
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		assert.Equal(t, i+1, f.store.OrderCount(), "una sola orden por pago")
		assert.Equal(t, entity.PaymentStatusSucceeded, f.payment(t, intentID).Status)
	}
	assert.Equal(t, rounds, f.notifier.count())
}

func TestPlans_Catalogo(t *testing.T) {
	f := newFixture(t)
	plans := f.uc.Plans()
	require.Len(t, plans.Plans, 3)
	assert.Equal(t, "basic", plans.Plans[0].Key)
	assert.Equal(t, "pk_test_123", plans.PublishableKey)
}
