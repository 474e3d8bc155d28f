// README: Booking service verifies a confirmation link and emails the customer.
package booking

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"ttrentals/internal/notify"
)

var ErrNotification = errors.New("booking: acceptance email failed")

const (
	DefaultPickupLocation = "5336 Golden Triangle Blvd, Fort Worth, TX 76244"
	dateLayout            = "Monday, January 2, 2006 at 3:04 PM MST"
)

type Config struct {
	BusinessName   string
	BusinessPhone  string
	PickupLocation string
	From           notify.Identity
	// ReplyTo is usually the owner mailbox.
	ReplyTo         notify.Identity
	Location        *time.Location
	OutboundTimeout time.Duration
}

type Service struct {
	signer *Signer
	sender notify.Sender
	cfg    Config
}

func NewService(signer *Signer, sender notify.Sender, cfg Config) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.OutboundTimeout <= 0 {
		cfg.OutboundTimeout = 5 * time.Second
	}
	if cfg.PickupLocation == "" {
		cfg.PickupLocation = DefaultPickupLocation
	}
	return &Service{signer: signer, sender: sender, cfg: cfg}
}

// Confirm verifies token and sends the acceptance email. The email is the
// whole point of the call, so a send failure is returned as an error.
func (s *Service) Confirm(ctx context.Context, token string) (Booking, error) {
	b, err := s.signer.Parse(token)
	if err != nil {
		return Booking{}, err
	}
	if s.sender == nil {
		return Booking{}, fmt.Errorf("%w: no email sender", ErrNotConfigured)
	}

	msg, err := s.acceptanceMessage(b)
	if err != nil {
		return Booking{}, err
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.OutboundTimeout)
	defer cancel()
	if err := s.sender.Send(sendCtx, msg); err != nil {
		log.Printf("booking %s: acceptance email to %s failed: %v", b.InquiryID, b.CustomerEmail, err)
		if errors.Is(err, notify.ErrNotConfigured) {
			return Booking{}, fmt.Errorf("%w: %v", ErrNotConfigured, err)
		}
		return Booking{}, fmt.Errorf("%w: %v", ErrNotification, err)
	}
	log.Printf("booking %s: acceptance email sent", b.InquiryID)
	return b, nil
}

type acceptanceView struct {
	Business       string
	Name           string
	Trailer        string
	Pickup         string
	Delivery       string
	PickupLocation string
	Phone          string
	PhoneDial      string
	InquiryID      string
}

func (s *Service) acceptanceMessage(b Booking) (notify.Message, error) {
	view := acceptanceView{
		Business:       s.cfg.BusinessName,
		Name:           b.CustomerName,
		Trailer:        b.Trailer,
		Pickup:         b.PickupAt.In(s.cfg.Location).Format(dateLayout),
		Delivery:       b.DeliveryAt.In(s.cfg.Location).Format(dateLayout),
		PickupLocation: s.cfg.PickupLocation,
		Phone:          s.cfg.BusinessPhone,
		PhoneDial:      dialString(s.cfg.BusinessPhone),
		InquiryID:      b.InquiryID,
	}

	var html, text bytes.Buffer
	if err := acceptanceHTML.Execute(&html, view); err != nil {
		return notify.Message{}, fmt.Errorf("render acceptance html: %w", err)
	}
	if err := acceptanceText.Execute(&text, view); err != nil {
		return notify.Message{}, fmt.Errorf("render acceptance text: %w", err)
	}

	msg := notify.Message{
		From:    s.cfg.From,
		To:      []notify.Identity{{Name: b.CustomerName, Email: b.CustomerEmail}},
		Subject: "Your Trailer Rental Request Has Been Accepted!",
		HTML:    html.String(),
		Text:    text.String(),
	}
	if s.cfg.ReplyTo.Email != "" {
		reply := s.cfg.ReplyTo
		msg.ReplyTo = &reply
	}
	return msg, nil
}

// dialString keeps digits and a leading plus, assuming a US number when no
// country code is given.
func dialString(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	switch {
	case d == "":
		return ""
	case len(d) == 10:
		return "+1" + d
	default:
		return "+" + d
	}
}
