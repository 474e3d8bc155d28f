// README: Pricing engine computes rental, delivery and tax amounts.
package pricing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

// Engine holds rate configuration only; every method is pure.
type Engine struct {
	tiers   []Tier
	taxRate decimal.Decimal
	baseFee decimal.Decimal
	perMile decimal.Decimal
}

func NewEngine(cfg Config) *Engine {
	e := &Engine{
		tiers:   cfg.Tiers,
		taxRate: orDefault(cfg.TaxRate, decimal.RequireFromString(DefaultTaxRate)),
		baseFee: orDefault(cfg.DeliveryBaseFee, decimal.NewFromInt(DefaultDeliveryBaseFee)),
		perMile: orDefault(cfg.DeliveryPerMile, decimal.NewFromInt(DefaultDeliveryPerMile)),
	}
	if len(e.tiers) == 0 {
		e.tiers = DefaultTiers
	}
	e.tiers = append([]Tier(nil), e.tiers...)
	sort.Slice(e.tiers, func(i, j int) bool { return e.tiers[i].MinDays < e.tiers[j].MinDays })
	return e
}

func orDefault(v decimal.NullDecimal, def decimal.Decimal) decimal.Decimal {
	if v.Valid {
		return v.Decimal
	}
	return def
}

func (e *Engine) TaxRate() decimal.Decimal {
	return e.taxRate
}

// Days counts started 24h periods between pickup and delivery. It returns 0
// when delivery is not after pickup.
func Days(pickup, delivery time.Time) int {
	span := delivery.Sub(pickup)
	if span <= 0 {
		return 0
	}
	days := int(span / day)
	if span%day != 0 {
		days++
	}
	return days
}

// DailyRate returns the rate of the highest tier whose MinDays <= days.
func (e *Engine) DailyRate(days int) decimal.Decimal {
	rate := e.tiers[0].DayRate
	for _, t := range e.tiers {
		if days >= t.MinDays {
			rate = t.DayRate
		}
	}
	return rate
}

// PriceRental prices the pickup..delivery span.
func (e *Engine) PriceRental(pickup, delivery time.Time) RentalQuote {
	days := Days(pickup, delivery)
	if days == 0 {
		return RentalQuote{DailyRate: decimal.Zero, RentalCost: decimal.Zero}
	}
	rate := e.DailyRate(days)
	return RentalQuote{
		Days:       days,
		DailyRate:  rate,
		RentalCost: rate.Mul(decimal.NewFromInt(int64(days))),
		Valid:      true,
	}
}

// PriceDelivery returns the base fee plus the per-mile charge.
func (e *Engine) PriceDelivery(miles float64) decimal.Decimal {
	return e.baseFee.Add(e.perMile.Mul(decimal.NewFromFloat(miles)))
}

// ComputeTotal is unrounded.
func (e *Engine) ComputeTotal(rentalCost, deliveryCost decimal.Decimal) Totals {
	subtotal := rentalCost.Add(deliveryCost)
	tax := subtotal.Mul(e.taxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// Breakdown prices a whole inquiry. A nil miles means no delivery charge,
// either because none was requested or because the distance is unknown.
func (e *Engine) Breakdown(pickup, delivery time.Time, miles *float64) Breakdown {
	rental := e.PriceRental(pickup, delivery)
	deliveryCost := decimal.Zero
	if miles != nil {
		deliveryCost = e.PriceDelivery(*miles)
	}
	return Breakdown{
		RentalQuote:  rental,
		DeliveryCost: deliveryCost,
		TaxRate:      e.taxRate,
		Totals:       e.ComputeTotal(rental.RentalCost, deliveryCost),
	}
}
