// Package notify envía correos transaccionales al cliente.
package notify

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/jhoicas/review-analyzer-api/internal/application/ports"
	"github.com/jhoicas/review-analyzer-api/internal/domain"
	"github.com/jhoicas/review-analyzer-api/internal/domain/entity"
	"github.com/jhoicas/review-analyzer-api/internal/domain/pricing"
	"github.com/jhoicas/review-analyzer-api/pkg/config"
	"github.com/jhoicas/review-analyzer-api/pkg/logger"
)

const sendTimeout = 10 * time.Second

// Sender lo que el mailer usa del cliente de SendGrid.
type Sender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridMailer implementa ports.Notifier con SendGrid.
// Sin API key queda deshabilitado y no envía nada.
type SendGridMailer struct {
	client Sender
	from   *mail.Email
	log    *logger.Logger
}

var _ ports.Notifier = (*SendGridMailer)(nil)

// NewSendGridMailer construye el mailer desde la configuración.
func NewSendGridMailer(cfg config.SendGridConfig, log *logger.Logger) *SendGridMailer {
	var client Sender
	if cfg.APIKey != "" {
		client = sendgrid.NewSendClient(cfg.APIKey)
	} else {
		log.Warn().Msg("SENDGRID_API_KEY vacío: correos de confirmación deshabilitados")
	}
	return NewSendGridMailerWithSender(client, cfg.FromName, cfg.FromEmail, log)
}

// NewSendGridMailerWithSender permite inyectar el cliente (tests).
func NewSendGridMailerWithSender(client Sender, fromName, fromEmail string, log *logger.Logger) *SendGridMailer {
	return &SendGridMailer{client: client, from: mail.NewEmail(fromName, fromEmail), log: log}
}

// Enabled indica si hay cliente configurado.
func (m *SendGridMailer) Enabled() bool { return m.client != nil }

// OrderConfirmed avisa al cliente que su orden quedó pagada y en proceso.
func (m *SendGridMailer) OrderConfirmed(ctx context.Context, user *entity.User, order *entity.Order) error {
	if m.client == nil {
		return nil
	}
	subject, plain, htmlBody := orderConfirmedContent(user, order)
	msg := mail.NewSingleEmail(m.from, subject, mail.NewEmail(user.Name, user.Email), plain, htmlBody)

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return &domain.GatewayError{Op: "sendgrid_send", Err: err}
	}
	if resp.StatusCode >= 300 {
		return &domain.GatewayError{Op: "sendgrid_send", Err: fmt.Errorf("status %d: %s", resp.StatusCode, resp.Body)}
	}
	m.log.Info().Str("order_id", order.ID).Int("status", resp.StatusCode).Msg("correo de confirmación enviado")
	return nil
}

func orderConfirmedContent(user *entity.User, order *entity.Order) (subject, plain, htmlBody string) {
	amount := pricing.FormatAmount(order.Price, pricing.DefaultCurrency)
	subject = "Recibimos tu pago: análisis de " + order.BusinessName
	plain = fmt.Sprintf(`Hola %s,

Recibimos tu pago de %s. Ya estamos analizando las reseñas de:

  %s
  %s

Orden: %s

Te avisaremos cuando el informe esté listo.
`, user.Name, amount, order.BusinessName, order.BusinessAddress, order.ID)
	htmlBody = fmt.Sprintf(`<p>Hola %s,</p>
<p>Recibimos tu pago de <strong>%s</strong>. Ya estamos analizando las reseñas de:</p>
<p><strong>%s</strong><br>%s</p>
<p>Orden: <code>%s</code></p>
<p>Te avisaremos cuando el informe esté listo.</p>`,
		html.EscapeString(user.Name), html.EscapeString(amount),
		html.EscapeString(order.BusinessName), html.EscapeString(order.BusinessAddress),
		html.EscapeString(order.ID))
	return subject, plain, htmlBody
}
