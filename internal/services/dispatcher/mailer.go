package dispatcher

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	User string `mapstructure:"user"`
	Pass string `mapstructure:"pass"`
	From string `mapstructure:"from"`
}

func (c SMTPConfig) addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// Mailer sends HTML mail over plain SMTP. Auth is skipped when no user is
// configured, which is what local MailHog-style relays expect.
type Mailer struct {
	cfg SMTPConfig
	log *zap.Logger
}

func NewMailer(cfg SMTPConfig, log *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&sb, "To: %s\r\n", to)
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(htmlBody)

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}

	if err := smtp.SendMail(m.cfg.addr(), auth, m.cfg.From, []string{to}, []byte(sb.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	m.log.Debug("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
