// README: Outbound email contract used by inquiry and booking flows.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
)

// ErrNotConfigured means the provider is missing credentials or addresses.
// Callers surface it as a server misconfiguration, never to the end user.
var ErrNotConfigured = errors.New("notify: email provider not configured")

type Identity struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

func (i Identity) String() string {
	return (&mail.Address{Name: i.Name, Address: i.Email}).String()
}

// Message is provider-neutral. HTML is rendered by the caller; Text is the
// plain alternative.
type Message struct {
	From    Identity
	To      []Identity
	ReplyTo *Identity
	Subject string
	HTML    string
	Text    string
}

func (m Message) Validate() error {
	if m.From.Email == "" {
		return fmt.Errorf("%w: missing sender address", ErrNotConfigured)
	}
	if len(m.To) == 0 {
		return fmt.Errorf("%w: missing recipient", ErrNotConfigured)
	}
	for _, to := range m.To {
		if to.Email == "" {
			return fmt.Errorf("%w: empty recipient address", ErrNotConfigured)
		}
	}
	if m.Subject == "" {
		return errors.New("notify: empty subject")
	}
	return nil
}

// Sender delivers one message. Implementations must honor ctx.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Unconfigured fails every send with ErrNotConfigured. It lets the server
// start without email secrets and report the problem per request.
type Unconfigured struct {
	Reason string
}

func (u Unconfigured) Send(ctx context.Context, msg Message) error {
	return fmt.Errorf("%w: %s", ErrNotConfigured, u.Reason)
}
