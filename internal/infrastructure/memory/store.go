// Package memory implementa los puertos de repositorio en memoria.
// Lo usan los tests de casos de uso y de HTTP; la semántica (email normalizado,
// check-and-set del estado del pago, un pedido por pago) es la misma que en postgres.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/review-analyzer-api/internal/domain"
	"github.com/jhoicas/review-analyzer-api/internal/domain/entity"
	"github.com/jhoicas/review-analyzer-api/internal/domain/repository"
)

// Store agrupa los datos de todos los repositorios.
type Store struct {
	mu sync.Mutex
	// txMu serializa RunReconciliation, equivalente al bloqueo de fila de postgres.
	txMu sync.Mutex

	users    map[string]entity.User
	orders   map[string]entity.Order
	payments map[int64]entity.Payment
	events   map[string]entity.WebhookEvent
	nextPay  int64
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		users:    make(map[string]entity.User),
		orders:   make(map[string]entity.Order),
		payments: make(map[int64]entity.Payment),
		events:   make(map[string]entity.WebhookEvent),
	}
}

func (s *Store) Users() *UserRepository                 { return &UserRepository{s: s} }
func (s *Store) Orders() *OrderRepository               { return &OrderRepository{s: s} }
func (s *Store) Payments() *PaymentRepository           { return &PaymentRepository{s: s} }
func (s *Store) WebhookEvents() *WebhookEventRepository { return &WebhookEventRepository{s: s} }

// RunReconciliation ejecuta fn en exclusión mutua; si fn falla se restaura el estado previo.
func (s *Store) RunReconciliation(ctx context.Context, fn func(
	payments repository.PaymentRepository,
	orders repository.OrderRepository,
	events repository.WebhookEventRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapOrders := cloneMap(s.orders)
	snapPayments := cloneMap(s.payments)
	snapEvents := cloneMap(s.events)
	s.mu.Unlock()

	if err := fn(s.Payments(), s.Orders(), s.WebhookEvents()); err != nil {
		s.mu.Lock()
		s.orders, s.payments, s.events = snapOrders, snapPayments, snapEvents
		s.mu.Unlock()
		return err
	}
	return nil
}

// OrderCount número de órdenes guardadas (para aserciones en tests).
func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// PaymentCount número de pagos guardados (para aserciones en tests).
func (s *Store) PaymentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payments)
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// UserRepository implementación en memoria de repository.UserRepository.
type UserRepository struct{ s *Store }

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user.Email = entity.NormalizeEmail(user.Email)
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return domain.ErrConflict
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email = entity.NormalizeEmail(email)
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) Exists(ctx context.Context, email string) (bool, error) {
	u, err := r.FindByEmail(ctx, email)
	return u != nil, err
}

func (r *UserRepository) UpdateStripeCustomer(_ context.Context, userID, customerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.StripeCustomerID = customerID
	r.s.users[userID] = u
	return nil
}

// OrderRepository implementación en memoria de repository.OrderRepository.
type OrderRepository struct{ s *Store }

var _ repository.OrderRepository = (*OrderRepository)(nil)

func (r *OrderRepository) Create(_ context.Context, order *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[order.ID]; ok {
		return domain.ErrConflict
	}
	if order.PaymentID != nil {
		for _, o := range r.s.orders {
			if o.PaymentID != nil && *o.PaymentID == *order.PaymentID {
				return domain.ErrConflict
			}
		}
	}
	r.s.orders[order.ID] = *order
	return nil
}

func (r *OrderRepository) FindByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *OrderRepository) FindByPaymentID(_ context.Context, paymentID int64) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		if o.PaymentID != nil && *o.PaymentID == paymentID {
			return &o, nil
		}
	}
	return nil, nil
}

func (r *OrderRepository) ListByUser(_ context.Context, userID string) ([]*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Order, 0)
	for _, o := range r.s.orders {
		if o.UserID == userID {
			o := o
			out = append(out, &o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return strings.Compare(out[i].ID, out[j].ID) > 0
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// PaymentRepository implementación en memoria de repository.PaymentRepository.
type PaymentRepository struct{ s *Store }

var _ repository.PaymentRepository = (*PaymentRepository)(nil)

func (r *PaymentRepository) Create(_ context.Context, payment *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.payments {
		if p.StripePaymentIntentID == payment.StripePaymentIntentID {
			return domain.ErrConflict
		}
	}
	r.s.nextPay++
	payment.ID = r.s.nextPay
	r.s.payments[payment.ID] = *payment
	return nil
}

func (r *PaymentRepository) FindByID(_ context.Context, id int64) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PaymentRepository) FindByIntentID(_ context.Context, intentID string) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.payments {
		if p.StripePaymentIntentID == intentID {
			return &p, nil
		}
	}
	return nil, nil
}

// FindByIntentIDForUpdate el bloqueo lo aporta txMu en RunReconciliation.
func (r *PaymentRepository) FindByIntentIDForUpdate(ctx context.Context, intentID string) (*entity.Payment, error) {
	return r.FindByIntentID(ctx, intentID)
}

func (r *PaymentRepository) TransitionStatus(_ context.Context, intentID, to, chargeID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, p := range r.s.payments {
		if p.StripePaymentIntentID != intentID {
			continue
		}
		if p.Status != entity.PaymentStatusPending {
			return false, nil
		}
		p.Status = to
		if chargeID != "" {
			p.StripeChargeID = chargeID
		}
		r.s.payments[id] = p
		return true, nil
	}
	return false, nil
}

// WebhookEventRepository implementación en memoria de repository.WebhookEventRepository.
type WebhookEventRepository struct{ s *Store }

var _ repository.WebhookEventRepository = (*WebhookEventRepository)(nil)

func (r *WebhookEventRepository) Record(_ context.Context, event *entity.WebhookEvent) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[event.EventID]; ok {
		return false, nil
	}
	r.s.events[event.EventID] = *event
	return true, nil
}
