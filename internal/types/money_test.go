package types

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"130", "$130.00"},
		{"140.725", "$140.73"},
		{"10.724", "$10.72"},
		{"1234.5", "$1,234.50"},
		{"1234567.891", "$1,234,567.89"},
		{"-5.005", "-$5.01"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := FormatUSD(decimal.RequireFromString(tt.in))
			if got != tt.want {
				t.Errorf("FormatUSD(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestCents_RoundsHalfUp(t *testing.T) {
	got := Cents(decimal.RequireFromString("108.245"))
	if !got.Equal(decimal.RequireFromString("108.25")) {
		t.Errorf("Cents() = %s, want 108.25", got)
	}
}

func TestAddressString(t *testing.T) {
	tests := []struct {
		name string
		in   Address
		want string
	}{
		{"full", Address{Street: "123 Main St", City: "Keller", State: "TX", Zipcode: "76248"}, "123 Main St, Keller, TX 76248"},
		{"no street", Address{City: "Keller", State: "TX"}, "Keller, TX"},
		{"zip only", Address{Zipcode: "76248"}, "76248"},
		{"empty", Address{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
