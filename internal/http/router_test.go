// README: End-to-end route tests (gates, validation, estimate, booking, CORS) over stub geocoder and sender.
package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apihttp "ttrentals/internal/http"
	"ttrentals/internal/maps"
	"ttrentals/internal/modules/booking"
	"ttrentals/internal/modules/inquiry"
	"ttrentals/internal/modules/location"
	"ttrentals/internal/modules/pricing"
	"ttrentals/internal/modules/ratelimit"
	"ttrentals/internal/notify"
	"ttrentals/internal/types"
)

type stubGeocoder struct{}

func (stubGeocoder) Geocode(_ context.Context, address string) (types.Coordinate, error) {
	switch address {
	case "Keller, TX":
		return types.Coordinate{Lat: 32.9346, Lon: -97.2517}, nil
	case "123 Main St, Keller, TX 76248":
		return types.Coordinate{Lat: 33.0346, Lon: -97.2517}, nil
	}
	return types.Coordinate{}, maps.ErrNotFound
}

type stubSender struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error
}

func (s *stubSender) Send(_ context.Context, msg notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

type testEnv struct {
	handler http.Handler
	sender  *stubSender
	signer  *booking.Signer
}

func newTestEnv(t *testing.T, max int, origins ...string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	sender := &stubSender{}
	signer := booking.NewSigner("test-secret", time.Hour, "https://example.com")
	from := notify.Identity{Name: "Texas Tough Rentals", Email: "noreply@example.com"}
	owner := notify.Identity{Email: "owner@example.com"}

	inq := inquiry.NewService(inquiry.Deps{
		Geocoder: stubGeocoder{},
		Distance: location.NewEstimator(location.DefaultRoadFactor),
		Pricing:  pricing.NewEngine(pricing.Config{}),
		Sender:   sender,
		Links:    signer,
	}, inquiry.Config{
		BusinessName:    "Texas Tough Rentals",
		BusinessAddress: "Keller, TX",
		BusinessPhone:   "(682) 233-4986",
		From:            from,
		Owner:           owner,
		Location:        time.UTC,
		OutboundTimeout: time.Second,
	})
	bk := booking.NewService(signer, sender, booking.Config{
		BusinessName:    "Texas Tough Rentals",
		BusinessPhone:   "(682) 233-4986",
		From:            from,
		ReplyTo:         owner,
		Location:        time.UTC,
		OutboundTimeout: time.Second,
	})

	limit := func() *ratelimit.Limiter {
		return ratelimit.New(ratelimit.Config{Max: max, Window: time.Minute})
	}
	srv := apihttp.NewServer(apihttp.ServerDeps{
		Inquiry:         inq,
		Booking:         bk,
		Limiter:         limit(),
		EstimateLimiter: limit(),
		BookingLimiter:  limit(),
		AllowedOrigins:  origins,
	})
	return &testEnv{handler: srv.Routes(), sender: sender, signer: signer}
}

func (e *testEnv) do(method, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func (e *testEnv) postJSON(path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	return e.do(http.MethodPost, path, "application/json", buf.String())
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func validInquiry() map[string]string {
	return map[string]string{
		"name":           "Jane Doe",
		"phone":          "(682) 555-0101",
		"email":          "jane@example.com",
		"trailer-select": "14900-lbs-dump-trailer",
		"deliveryOption": "ownTruck",
		"pickupDate":     "2025-06-01T09:00",
		"deliveryDate":   "2025-06-02T09:00",
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, 3)
	w := env.do(http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Fatalf("got %d %q", w.Code, w.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, 3)
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			w := env.do(method, "/api/submit-trailer-inquiry", "", "")
			if w.Code != http.StatusMethodNotAllowed {
				t.Fatalf("expected 405, got %d", w.Code)
			}
			if got := decode(t, w)["message"]; got != "Method Not Allowed" {
				t.Errorf("message = %v", got)
			}
		})
	}
	if len(env.sender.sent) != 0 {
		t.Errorf("sent %d emails", len(env.sender.sent))
	}
}

func TestUnsupportedMediaType(t *testing.T) {
	env := newTestEnv(t, 3)
	w := env.do(http.MethodPost, "/api/submit-trailer-inquiry", "text/plain", `{}`)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", w.Code)
	}
}

func TestSubmit_Validation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantFields []string
	}{
		{name: "empty object", body: `{}`, wantStatus: http.StatusBadRequest, wantFields: []string{"name", "email", "phone", "trailer-select", "deliveryOption", "pickupDate", "deliveryDate"}},
		{name: "empty body", body: ``, wantStatus: http.StatusBadRequest, wantFields: []string{"name", "email"}},
		{name: "malformed json", body: `{"name":`, wantStatus: http.StatusBadRequest},
		{name: "wrong type", body: `{"name": 5}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, 100)
			w := env.do(http.MethodPost, "/api/submit-trailer-inquiry", "application/json", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			out := decode(t, w)
			if out["success"] != false {
				t.Errorf("success = %v", out["success"])
			}
			fields, _ := out["errors"].(map[string]any)
			for _, f := range tt.wantFields {
				if _, ok := fields[f]; !ok {
					t.Errorf("missing error for %q in %v", f, fields)
				}
			}
			if len(env.sender.sent) != 0 {
				t.Errorf("sent %d emails", len(env.sender.sent))
			}
		})
	}
}

func TestSubmit_Success(t *testing.T) {
	env := newTestEnv(t, 3)
	w := env.postJSON("/api/submit-trailer-inquiry", validInquiry())
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	out := decode(t, w)
	if out["success"] != true || out["message"] != inquiry.MessageSubmitted {
		t.Errorf("body = %v", out)
	}
	if id, _ := out["inquiryId"].(string); id == "" {
		t.Error("missing inquiryId")
	}
	if out["deliveryStatus"] != string(inquiry.DeliveryNotRequested) {
		t.Errorf("deliveryStatus = %v", out["deliveryStatus"])
	}
	if len(env.sender.sent) != 2 {
		t.Errorf("sent %d emails, want 2", len(env.sender.sent))
	}
}

func TestSubmit_OwnerFailureIsGeneric(t *testing.T) {
	env := newTestEnv(t, 3)
	env.sender.err = errors.New("smtp: 550 mailbox unavailable")
	w := env.postJSON("/api/submit-trailer-inquiry", validInquiry())
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	out := decode(t, w)
	if out["message"] != inquiry.MessageFailed {
		t.Errorf("message = %v", out["message"])
	}
	if strings.Contains(w.Body.String(), "550") {
		t.Errorf("provider detail leaked: %s", w.Body.String())
	}
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		name         string
		body         map[string]string
		wantTotal    float64
		wantDelivery float64
		wantStatus   string
		wantMiles    bool
	}{
		{
			name:       "own truck one day",
			body:       map[string]string{"deliveryOption": "ownTruck", "pickupDate": "2025-06-01T09:00", "deliveryDate": "2025-06-02T09:00"},
			wantTotal:  140.73,
			wantStatus: string(inquiry.DeliveryNotRequested),
		},
		{
			name: "delivery resolved",
			body: map[string]string{
				"deliveryOption": "deliverPickup", "pickupDate": "2025-06-01T09:00", "deliveryDate": "2025-06-02T09:00",
				"deliveryStreet": "123 Main St", "deliveryCity": "Keller", "deliveryZipcode": "76248",
			},
			// 130 + 50 + 2*9.7 = 199.4, tax 16.4505
			wantTotal:    215.85,
			wantDelivery: 69.4,
			wantStatus:   string(inquiry.DeliveryResolved),
			wantMiles:    true,
		},
		{
			name: "delivery pending",
			body: map[string]string{
				"deliveryOption": "deliverPickup", "pickupDate": "2025-06-01T09:00", "deliveryDate": "2025-06-02T09:00",
				"deliveryStreet": "1 Nowhere Rd", "deliveryCity": "Nowhere", "deliveryZipcode": "00000",
			},
			wantTotal:  140.73,
			wantStatus: string(inquiry.DeliveryPending),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, 3)
			w := env.postJSON("/api/estimate", tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
			}
			out := decode(t, w)
			if out["total"] != tt.wantTotal {
				t.Errorf("total = %v, want %v", out["total"], tt.wantTotal)
			}
			if out["deliveryCost"] != tt.wantDelivery {
				t.Errorf("deliveryCost = %v, want %v", out["deliveryCost"], tt.wantDelivery)
			}
			if out["deliveryStatus"] != tt.wantStatus {
				t.Errorf("deliveryStatus = %v", out["deliveryStatus"])
			}
			if (out["distanceMiles"] != nil) != tt.wantMiles {
				t.Errorf("distanceMiles = %v", out["distanceMiles"])
			}
			if len(env.sender.sent) != 0 {
				t.Errorf("estimate sent %d emails", len(env.sender.sent))
			}
		})
	}
}

func TestEstimate_InvalidRange(t *testing.T) {
	env := newTestEnv(t, 3)
	w := env.postJSON("/api/estimate", map[string]string{
		"deliveryOption": "ownTruck", "pickupDate": "2025-06-02T09:00", "deliveryDate": "2025-06-01T09:00",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	fields, _ := decode(t, w)["errors"].(map[string]any)
	if _, ok := fields["deliveryDate"]; !ok {
		t.Errorf("errors = %v", fields)
	}
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, 3)
	for i := 0; i < 3; i++ {
		if w := env.postJSON("/api/submit-trailer-inquiry", map[string]string{}); w.Code != http.StatusBadRequest {
			t.Fatalf("request %d: expected 400, got %d", i+1, w.Code)
		}
	}
	w := env.postJSON("/api/submit-trailer-inquiry", validInquiry())
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
	if len(env.sender.sent) != 0 {
		t.Errorf("limited request sent %d emails", len(env.sender.sent))
	}
	if w := env.do(http.MethodGet, "/health", "", ""); w.Code != http.StatusOK {
		t.Errorf("health after limit: %d", w.Code)
	}
}

func TestRateLimit_RoutesHaveSeparateBudgets(t *testing.T) {
	env := newTestEnv(t, 3)
	estimate := map[string]string{"deliveryOption": "ownTruck", "pickupDate": "2025-06-01T09:00", "deliveryDate": "2025-06-02T09:00"}
	for i := 0; i < 3; i++ {
		if w := env.postJSON("/api/estimate", estimate); w.Code != http.StatusOK {
			t.Fatalf("estimate %d: expected 200, got %d", i+1, w.Code)
		}
	}
	if w := env.postJSON("/api/estimate", estimate); w.Code != http.StatusTooManyRequests {
		t.Fatalf("estimate over limit: expected 429, got %d", w.Code)
	}
	if w := env.postJSON("/api/confirm-booking", map[string]string{}); w.Code == http.StatusTooManyRequests {
		t.Fatal("confirm limited by estimate traffic")
	}

	w := env.postJSON("/api/submit-trailer-inquiry", validInquiry())
	if w.Code != http.StatusOK {
		t.Fatalf("submit after estimates: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(env.sender.sent) != 2 {
		t.Errorf("sent %d emails, want 2", len(env.sender.sent))
	}
}

func TestConfirmBooking(t *testing.T) {
	env := newTestEnv(t, 10)
	token, err := env.signer.Sign(booking.Booking{
		InquiryID:     "inq-1",
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		Trailer:       "14,900 lbs Dump Trailer",
		PickupAt:      time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		DeliveryAt:    time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantSent   int
	}{
		{name: "valid", token: token, wantStatus: http.StatusOK, wantSent: 1},
		{name: "garbage", token: "not-a-token", wantStatus: http.StatusBadRequest},
		{name: "missing", token: "", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.sender.sent = nil
			w := env.postJSON("/api/confirm-booking", map[string]string{"token": tt.token})
			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if len(env.sender.sent) != tt.wantSent {
				t.Errorf("sent %d emails, want %d", len(env.sender.sent), tt.wantSent)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	preflight := func(h http.Handler, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/submit-trailer-inquiry", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	env := newTestEnv(t, 3, "https://www.example.com")
	w := preflight(env.handler, "https://www.example.com")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://www.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
	if w := preflight(env.handler, "https://evil.example.net"); w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("foreign origin allowed")
	}

	closed := newTestEnv(t, 3)
	if w := preflight(closed.handler, "https://www.example.com"); w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("origin allowed with no configured origins")
	}
}

func TestOptionsWithoutPreflight(t *testing.T) {
	env := newTestEnv(t, 3, "https://www.example.com")
	tests := []struct {
		name   string
		origin string
	}{
		{name: "no origin"},
		{name: "origin without request method", origin: "https://www.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/submit-trailer-inquiry", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			env.handler.ServeHTTP(w, req)
			if w.Code != http.StatusMethodNotAllowed {
				t.Fatalf("expected 405, got %d", w.Code)
			}
			if got := decode(t, w)["message"]; got != "Method Not Allowed" {
				t.Errorf("message = %v", got)
			}
		})
	}
}
