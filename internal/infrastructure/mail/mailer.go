package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/smtp"
	"time"

	"lupain/internal/domain/service"
	"lupain/pkg/config"
	"lupain/pkg/errors"
	"lupain/pkg/logger"
)

// Mailer sends the welcome mail through the transactional provider's
// templated API when an API key is configured, and falls back to plain SMTP
// otherwise or when the provider call fails.
type Mailer struct {
	cfg        config.MailConfig
	httpClient *http.Client
}

func NewMailer(cfg config.MailConfig) *Mailer {
	return &Mailer{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

var _ service.Mailer = (*Mailer)(nil)

func (m *Mailer) SendWelcome(ctx context.Context, mail service.WelcomeMail) error {
	if m.cfg.APIKey != "" {
		err := m.sendTemplated(ctx, mail)
		if err == nil {
			return nil
		}
		logger.Warn("Templated mail failed, falling back to SMTP: %v", err)
	}
	return m.sendSMTP(mail)
}

type templatedRequest struct {
	From       string            `json:"from"`
	To         []string          `json:"to"`
	Bcc        []string          `json:"bcc,omitempty"`
	Subject    string            `json:"subject"`
	TemplateID string            `json:"template_id,omitempty"`
	Variables  map[string]string `json:"variables,omitempty"`
	HTML       string            `json:"html,omitempty"`
}

func (m *Mailer) sendTemplated(ctx context.Context, mail service.WelcomeMail) error {
	payload := templatedRequest{
		From:       m.cfg.Sender,
		To:         []string{mail.Email},
		Subject:    "Welcome to Lupain",
		TemplateID: m.cfg.TemplateID,
		Variables: map[string]string{
			"name": mail.Name,
		},
	}
	if m.cfg.BCC != "" {
		payload.Bcc = []string{m.cfg.BCC}
	}
	if m.cfg.TemplateID == "" {
		payload.HTML = welcomeBody(mail.Name)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Dependency("Failed to encode mail payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return errors.Dependency("Failed to build mail request", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return errors.Dependency("Mail provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return errors.Dependency(fmt.Sprintf("Mail provider returned %d", resp.StatusCode), nil)
	}
	return nil
}

func (m *Mailer) sendSMTP(mail service.WelcomeMail) error {
	if m.cfg.SMTPHost == "" {
		return errors.Dependency("No mail transport configured", nil)
	}

	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.cfg.SMTPHost})
	if err != nil {
		return errors.Dependency("SMTP dial failed", err)
	}

	client, err := smtp.NewClient(conn, m.cfg.SMTPHost)
	if err != nil {
		return errors.Dependency("SMTP handshake failed", err)
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	if err := client.Auth(auth); err != nil {
		return errors.Dependency("SMTP auth failed", err)
	}

	if err := client.Mail(m.cfg.Sender); err != nil {
		return errors.Dependency("SMTP sender rejected", err)
	}
	recipients := []string{mail.Email}
	if m.cfg.BCC != "" {
		recipients = append(recipients, m.cfg.BCC)
	}
	for _, rcpt := range recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return errors.Dependency("SMTP recipient rejected", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return errors.Dependency("SMTP data failed", err)
	}
	message := smtpMessage(m.cfg.Sender, mail.Email, welcomeBody(mail.Name))
	if _, err := w.Write([]byte(message)); err != nil {
		return errors.Dependency("SMTP write failed", err)
	}
	if err := w.Close(); err != nil {
		return errors.Dependency("SMTP close failed", err)
	}
	return nil
}

// smtpMessage builds the raw message with sender and recipient headers;
// envelope addresses alone leave the visible From/To blank in mail clients.
func smtpMessage(from, to, body string) string {
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Welcome to Lupain\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s",
		from, to, body,
	)
}

func welcomeBody(name string) string {
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("<p>Hi %s,</p><p>Thanks for signing up. We will keep you posted on new commercial listings.</p>", name)
}
