package utils

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	mail "gopkg.in/mail.v2"
)

// Mailer sends one message with a plain-text body and an HTML alternative.
type Mailer interface {
	Send(to, subject, plain, html string) error
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// Configured is false when any connection setting is missing.
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Port > 0 && c.Username != "" && c.Password != ""
}

// SMTPConfigFromEnv reads SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD, SMTP_FROM_NAME and SMTP_FROM_EMAIL.
func SMTPConfigFromEnv() SMTPConfig {
	port, _ := strconv.Atoi(EnvOrDefault("SMTP_PORT", "587"))
	user := strings.TrimSpace(EnvOrDefault("SMTP_USERNAME", ""))
	return SMTPConfig{
		Host:      strings.TrimSpace(EnvOrDefault("SMTP_HOST", "")),
		Port:      port,
		Username:  user,
		Password:  EnvOrDefault("SMTP_PASSWORD", ""),
		FromName:  EnvOrDefault("SMTP_FROM_NAME", "Ninja Park"),
		FromEmail: EnvOrDefault("SMTP_FROM_EMAIL", user),
	}
}

type SMTPMailer struct {
	cfg    SMTPConfig
	dialer *mail.Dialer
	log    *slog.Logger
}

// NewMailer returns an SMTP mailer, or a LogMailer when SMTP is not configured.
func NewMailer(cfg SMTPConfig, log *slog.Logger) Mailer {
	if !cfg.Configured() {
		log.Warn("SMTP not configured; emails will be logged only")
		return LogMailer{Log: log}
	}
	return &SMTPMailer{
		cfg:    cfg,
		dialer: mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		log:    log,
	}
}

func (m *SMTPMailer) Send(to, subject, plain, html string) error {
	msg := mail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.FromEmail, m.cfg.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", plain)
	if html != "" {
		msg.AddAlternative("text/html", html)
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.log.Error("send email failed", "to", MaskEmail(to), "subject", subject, "error", err)
		return errors.Wrapf(err, "send email to %s", to)
	}
	m.log.Info("email sent", "to", MaskEmail(to), "subject", subject)
	return nil
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	Log *slog.Logger
}

func (m LogMailer) Send(to, subject, plain, _ string) error {
	m.Log.Info("[MOCK EMAIL]", "to", to, "subject", subject, "body", plain)
	return nil
}

func safeLine(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", " ")
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&#39;")
	return r.Replace(s)
}

func formatRupees(v float64) string {
	return fmt.Sprintf("₹%.2f", v)
}
