// README: SMTP sender built on gomail.
package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

type SMTPSender struct {
	host   string
	dialer *gomail.Dialer
	// send is swapped in tests.
	send func(m *gomail.Message) error
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &SMTPSender{host: cfg.Host, dialer: d, send: func(m *gomail.Message) error { return d.DialAndSend(m) }}
}

func buildMessage(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", msg.From.Email, msg.From.Name)

	to := make([]string, 0, len(msg.To))
	for _, id := range msg.To {
		to = append(to, m.FormatAddress(id.Email, id.Name))
	}
	m.SetHeader("To", to...)
	if msg.ReplyTo != nil && msg.ReplyTo.Email != "" {
		m.SetAddressHeader("Reply-To", msg.ReplyTo.Email, msg.ReplyTo.Name)
	}
	m.SetHeader("Subject", msg.Subject)

	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		m.SetBody("text/html", msg.HTML)
	default:
		m.SetBody("text/plain", msg.Text)
	}
	return m
}

// Send dials per message. gomail has no context support, so a cancelled ctx
// returns early while the dial finishes in the background.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if s.host == "" {
		return fmt.Errorf("%w: SMTP_HOST is empty", ErrNotConfigured)
	}
	if err := msg.Validate(); err != nil {
		return err
	}

	m := buildMessage(msg)
	done := make(chan error, 1)
	go func() {
		done <- s.send(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send: %w", ctx.Err())
	}
}
