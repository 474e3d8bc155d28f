// README: Brevo transactional email API sender.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultBrevoURL = "https://api.brevo.com/v3/smtp/email"

type BrevoSender struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewBrevoSender(apiKey, endpoint string, timeout time.Duration) *BrevoSender {
	if endpoint == "" {
		endpoint = DefaultBrevoURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &BrevoSender{
		apiKey:   apiKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type brevoRequest struct {
	Sender      Identity   `json:"sender"`
	To          []Identity `json:"to"`
	ReplyTo     *Identity  `json:"replyTo,omitempty"`
	Subject     string     `json:"subject"`
	HTMLContent string     `json:"htmlContent,omitempty"`
	TextContent string     `json:"textContent,omitempty"`
}

func (s *BrevoSender) Send(ctx context.Context, msg Message) error {
	if s.apiKey == "" {
		return fmt.Errorf("%w: BREVO_API_KEY is empty", ErrNotConfigured)
	}
	if err := msg.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(brevoRequest{
		Sender:      msg.From,
		To:          msg.To,
		ReplyTo:     msg.ReplyTo,
		Subject:     msg.Subject,
		HTMLContent: msg.HTML,
		TextContent: msg.Text,
	})
	if err != nil {
		return fmt.Errorf("brevo encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("brevo request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("brevo send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("brevo send: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
