// README: Signed booking-confirmation links carried in the owner email.
package booking

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("booking: invalid or expired confirmation link")
	ErrNotConfigured = errors.New("booking: signing secret not configured")
)

const DefaultLinkTTL = 14 * 24 * time.Hour

// Booking is what the owner accepts. It travels inside the token so the
// confirm endpoint needs no storage.
type Booking struct {
	InquiryID     string
	CustomerName  string
	CustomerEmail string
	Trailer       string
	PickupAt      time.Time
	DeliveryAt    time.Time
}

type bookingClaims struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Trailer  string `json:"trailer"`
	Pickup   int64  `json:"pickup"`
	Delivery int64  `json:"delivery"`
	jwt.RegisteredClaims
}

// Signer issues and verifies HS256 tokens for confirmation links.
type Signer struct {
	secret  []byte
	ttl     time.Duration
	siteURL string
	now     func() time.Time
}

func NewSigner(secret string, ttl time.Duration, siteURL string) *Signer {
	if ttl <= 0 {
		ttl = DefaultLinkTTL
	}
	return &Signer{
		secret:  []byte(secret),
		ttl:     ttl,
		siteURL: strings.TrimRight(siteURL, "/"),
		now:     time.Now,
	}
}

func (s *Signer) configured() bool {
	return s != nil && len(s.secret) > 0
}

func (s *Signer) Sign(b Booking) (string, error) {
	if !s.configured() {
		return "", ErrNotConfigured
	}
	now := s.now()
	claims := bookingClaims{
		Name:     b.CustomerName,
		Email:    b.CustomerEmail,
		Trailer:  b.Trailer,
		Pickup:   b.PickupAt.Unix(),
		Delivery: b.DeliveryAt.Unix(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        b.InquiryID,
			Subject:   "booking-confirmation",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign booking token: %w", err)
	}
	return token, nil
}

// Link returns the confirmation page URL for b.
func (s *Signer) Link(b Booking) (string, error) {
	token, err := s.Sign(b)
	if err != nil {
		return "", err
	}
	return s.siteURL + "/confirm-booking.html?token=" + url.QueryEscape(token), nil
}

func (s *Signer) Parse(token string) (Booking, error) {
	if !s.configured() {
		return Booking{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return Booking{}, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	var claims bookingClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return Booking{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ExpiresAt == nil {
		return Booking{}, fmt.Errorf("%w: missing expiry", ErrInvalidToken)
	}
	if claims.Name == "" || claims.Email == "" || claims.Trailer == "" || claims.Pickup == 0 || claims.Delivery == 0 {
		return Booking{}, fmt.Errorf("%w: missing booking fields", ErrInvalidToken)
	}

	return Booking{
		InquiryID:     claims.ID,
		CustomerName:  claims.Name,
		CustomerEmail: claims.Email,
		Trailer:       claims.Trailer,
		PickupAt:      time.Unix(claims.Pickup, 0).UTC(),
		DeliveryAt:    time.Unix(claims.Delivery, 0).UTC(),
	}, nil
}
