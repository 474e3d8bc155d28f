// README: Rental price tiers and quote breakdown.
package pricing

import "github.com/shopspring/decimal"

const (
	DefaultTaxRate         = "0.0825"
	DefaultDeliveryBaseFee = 50
	DefaultDeliveryPerMile = 2
)

// Tier is a per-day rate applied when the rental lasts at least MinDays.
type Tier struct {
	MinDays int
	DayRate decimal.Decimal
}

// DefaultTiers is ordered by MinDays ascending.
var DefaultTiers = []Tier{
	{MinDays: 1, DayRate: decimal.NewFromInt(130)},
	{MinDays: 2, DayRate: decimal.NewFromInt(95)},
	{MinDays: 7, DayRate: decimal.NewFromInt(85)},
	{MinDays: 30, DayRate: decimal.NewFromInt(70)},
}

// RentalQuote is the rental portion of a quote. An invalid range is the zero
// value with Valid=false.
type RentalQuote struct {
	Days       int             `json:"days"`
	DailyRate  decimal.Decimal `json:"dailyRate"`
	RentalCost decimal.Decimal `json:"rentalCost"`
	Valid      bool            `json:"-"`
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Breakdown is an unrounded quote. Round only when presenting.
type Breakdown struct {
	RentalQuote
	DeliveryCost decimal.Decimal `json:"deliveryCost"`
	TaxRate      decimal.Decimal `json:"taxRate"`
	Totals
}

// Config overrides the engine's rates. Unset (invalid) rates fall back to
// defaults; a set zero is kept, so a tax-exempt engine is possible.
type Config struct {
	Tiers           []Tier
	TaxRate         decimal.NullDecimal
	DeliveryBaseFee decimal.NullDecimal
	DeliveryPerMile decimal.NullDecimal
}
