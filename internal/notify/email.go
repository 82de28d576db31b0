package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// EmailSender delivers a plain-text email.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPEmail sends through an unauthenticated SMTP relay
// (Mailpit-compatible, which is what development runs against).
type SMTPEmail struct {
	addr string
	from string
}

func NewSMTPEmail(host, port, from string) *SMTPEmail {
	return &SMTPEmail{addr: host + ":" + port, from: from}
}

func (s *SMTPEmail) Send(_ context.Context, to, subject, body string) error {
	msg := buildMessage(s.from, to, subject, body)
	return smtp.SendMail(s.addr, nil, s.from, []string{to}, []byte(msg))
}

func buildMessage(from, to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return b.String()
}

// LogEmail writes the email to the log instead of sending it.
type LogEmail struct {
	logger *zap.Logger
}

func NewLogEmail(logger *zap.Logger) *LogEmail {
	return &LogEmail{logger: logger}
}

func (s *LogEmail) Send(_ context.Context, to, subject, body string) error {
	s.logger.Info("email (log only)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}

// NewEmailSender picks SMTP when a host is configured and falls back
// to logging otherwise.
func NewEmailSender(host, port, from string, logger *zap.Logger) EmailSender {
	if host == "" {
		logger.Warn("email delivery not configured, magic links will be logged")
		return NewLogEmail(logger)
	}
	return NewSMTPEmail(host, port, from)
}
