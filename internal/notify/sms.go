package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// SMSSender delivers a short text message to a phone number.
// Delivery itself is an external collaborator; this package owns
// only the boundary.
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

// WebhookSMS posts the message to a provider webhook.
type WebhookSMS struct {
	url    string
	token  string
	client *http.Client
}

func NewWebhookSMS(url, token string) *WebhookSMS {
	return &WebhookSMS{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *WebhookSMS) Send(ctx context.Context, to, body string) error {
	payload, err := json.Marshal(map[string]string{"to": to, "body": body})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms webhook returned %s", resp.Status)
	}
	return nil
}

var errNoSMSProvider = errors.New("no sms provider configured")

// LogSMS writes the message to the log instead of sending it. Used
// in development so login codes show up in the server output.
type LogSMS struct {
	logger *zap.Logger
}

func NewLogSMS(logger *zap.Logger) *LogSMS {
	return &LogSMS{logger: logger}
}

func (s *LogSMS) Send(_ context.Context, to, body string) error {
	s.logger.Info("sms (log only)", zap.String("to", to), zap.String("body", body))
	return nil
}

// NewSMSSender picks the webhook sender when a URL is configured and
// falls back to logging otherwise.
func NewSMSSender(url, token string, logger *zap.Logger) SMSSender {
	if url == "" {
		logger.Warn("sms delivery not configured, codes will be logged", zap.Error(errNoSMSProvider))
		return NewLogSMS(logger)
	}
	return NewWebhookSMS(url, token)
}
