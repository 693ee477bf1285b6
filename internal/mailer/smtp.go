package mailer

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"practice-booking-server/internal/config"
	"practice-booking-server/internal/scheduling"
)

// SMTPMailer implements scheduling.Mailer over an SMTP relay. Each template
// kind has a fixed audience: the patient address from the mail data, the
// configured staff address, or both.
type SMTPMailer struct {
	dialer     *gomail.Dialer
	from       string
	staffEmail string
	log        *zap.Logger
}

// New creates an SMTPMailer from the mailer configuration.
func New(cfg config.MailerConfig, log *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer:     gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:       cfg.DefaultFrom,
		staffEmail: cfg.StaffEmail,
		log:        log,
	}
}

// Send renders the template for kind and dispatches it. A single attempt,
// no retries; the caller treats failures as delivery warnings.
func (m *SMTPMailer) Send(kind scheduling.TemplateKind, data scheduling.MailData) error {
	tmpl, ok := templates[kind]
	if !ok {
		return fmt.Errorf("unknown mail template %q", kind)
	}

	body, err := tmpl.render(data)
	if err != nil {
		return fmt.Errorf("failed to render template %q: %w", kind, err)
	}

	var recipients []string
	switch tmpl.audience {
	case toPatient:
		recipients = []string{data.PatientEmail}
	case toStaff:
		recipients = []string{m.staffEmail}
	case toBoth:
		recipients = []string{data.PatientEmail, m.staffEmail}
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipients...)
	msg.SetHeader("Subject", tmpl.subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send failed for %q: %w", kind, err)
	}

	m.log.Debug("email sent",
		zap.String("template", string(kind)),
		zap.Strings("to", recipients))
	return nil
}
