package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Alert is what gets sent for one new monitor finding.
type Alert struct {
	Company   string
	Text      string
	NewsTitle string
	SourceURL string
}

// Notifier delivers alerts to people.
type Notifier interface {
	Notify(ctx context.Context, a Alert) error
}

// Nop drops every alert.
type Nop struct{}

func (Nop) Notify(context.Context, Alert) error { return nil }

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	To       []string
}

// sendFunc matches (*email.Email).Send so tests can capture messages.
type sendFunc func(e *email.Email, addr string, auth smtp.Auth) error

// Mailer sends alerts over SMTP.
type Mailer struct {
	cfg    SMTPConfig
	logger *logrus.Logger
	send   sendFunc
}

// New returns a Mailer, or Nop when SMTP is not configured.
func New(cfg SMTPConfig, logger *logrus.Logger) Notifier {
	if cfg.Host == "" || len(cfg.To) == 0 {
		return Nop{}
	}
	return &Mailer{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

func (m *Mailer) Notify(_ context.Context, a Alert) error {
	e := email.NewEmail()
	e.From = m.cfg.From
	e.To = m.cfg.To
	e.Subject = fmt.Sprintf("[Watchlist] %s: new intelligence", a.Company)

	body := fmt.Sprintf("New intelligence for %s\n\n%s\n", a.Company, a.Text)
	if a.NewsTitle != "" {
		body += fmt.Sprintf("\nArticle: %s\n", a.NewsTitle)
	}
	if a.SourceURL != "" {
		body += fmt.Sprintf("Source: %s\n", a.SourceURL)
	}
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	if err := m.send(e, addr, auth); err != nil {
		m.logger.Errorf("Failed to send alert email for %s: %v", a.Company, err)
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	m.logger.Infof("Alert email sent for %s: %s", a.Company, e.Subject)
	return nil
}
