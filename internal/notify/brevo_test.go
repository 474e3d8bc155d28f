package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testMessage() Message {
	return Message{
		From:    Identity{Name: "Texas Tough Rentals", Email: "noreply@example.com"},
		To:      []Identity{{Email: "owner@example.com"}},
		ReplyTo: &Identity{Name: "Jane Doe", Email: "jane@example.com"},
		Subject: "New Trailer Rental Inquiry",
		HTML:    "<p>hi</p>",
		Text:    "hi",
	}
}

func TestBrevoSender_Send(t *testing.T) {
	var got brevoRequest
	var apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		apiKey = r.Header.Get("api-key")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"<1@smtp-relay>"}`))
	}))
	defer srv.Close()

	s := NewBrevoSender("secret", srv.URL, time.Second)
	if err := s.Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if apiKey != "secret" {
		t.Errorf("api-key = %q", apiKey)
	}
	if got.Sender.Email != "noreply@example.com" || got.Sender.Name != "Texas Tough Rentals" {
		t.Errorf("sender = %+v", got.Sender)
	}
	if len(got.To) != 1 || got.To[0].Email != "owner@example.com" {
		t.Errorf("to = %+v", got.To)
	}
	if got.ReplyTo == nil || got.ReplyTo.Email != "jane@example.com" {
		t.Errorf("replyTo = %+v", got.ReplyTo)
	}
	if got.Subject != "New Trailer Rental Inquiry" || got.HTMLContent != "<p>hi</p>" || got.TextContent != "hi" {
		t.Errorf("content = %+v", got)
	}
}

func TestBrevoSender_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"unauthorized","message":"Key not found"}`))
	}))
	defer srv.Close()

	tests := []struct {
		name              string
		apiKey            string
		msg               func() Message
		wantNotConfigured bool
		wantContains      string
	}{
		{
			name:              "missing api key",
			apiKey:            "",
			msg:               testMessage,
			wantNotConfigured: true,
			wantContains:      "BREVO_API_KEY",
		},
		{
			name:   "missing sender",
			apiKey: "secret",
			msg: func() Message {
				m := testMessage()
				m.From.Email = ""
				return m
			},
			wantNotConfigured: true,
			wantContains:      "sender",
		},
		{
			name:   "missing recipient",
			apiKey: "secret",
			msg: func() Message {
				m := testMessage()
				m.To = nil
				return m
			},
			wantNotConfigured: true,
			wantContains:      "recipient",
		},
		{
			name:         "non-2xx response",
			apiKey:       "secret",
			msg:          testMessage,
			wantContains: "Key not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewBrevoSender(tt.apiKey, srv.URL, time.Second)
			err := s.Send(context.Background(), tt.msg())
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrNotConfigured); got != tt.wantNotConfigured {
				t.Errorf("errors.Is(ErrNotConfigured) = %v for %v", got, err)
			}
			if !strings.Contains(err.Error(), tt.wantContains) {
				t.Errorf("error %q does not mention %q", err, tt.wantContains)
			}
		})
	}
}

func TestUnconfigured_Send(t *testing.T) {
	err := Unconfigured{Reason: "no provider"}.Send(context.Background(), testMessage())
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Send() error = %v, want ErrNotConfigured", err)
	}
}

func TestIdentity_String(t *testing.T) {
	got := Identity{Name: "Jane Doe", Email: "jane@example.com"}.String()
	if got != `"Jane Doe" <jane@example.com>` {
		t.Errorf("String() = %q", got)
	}
}
