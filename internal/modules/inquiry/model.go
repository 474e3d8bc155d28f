// README: Inquiry aggregate, processing states and validation error map.
package inquiry

import (
	"errors"
	"sort"
	"strings"
	"time"

	"ttrentals/internal/modules/location"
	"ttrentals/internal/modules/pricing"
	"ttrentals/internal/types"
)

var (
	// ErrInvalid wraps ValidationErrors; nothing was sent.
	ErrInvalid = errors.New("inquiry: invalid input")
	// ErrOwnerNotification means the business was not told about the lead.
	ErrOwnerNotification = errors.New("inquiry: owner notification failed")
	// ErrMisconfigured means email settings are missing. Details are logged,
	// never returned to the submitter.
	ErrMisconfigured = errors.New("inquiry: email not configured")
)

type DeliveryOption string

const (
	OptionOwnTruck      DeliveryOption = "ownTruck"
	OptionDeliverPickup DeliveryOption = "deliverPickup"
)

const TrailerDump14900 = "14900-lbs-dump-trailer"

var trailerLabels = map[string]string{
	TrailerDump14900: "14,900 lbs Dump Trailer",
}

// TrailerLabel returns the display name for a trailer code.
func TrailerLabel(code string) string {
	if label, ok := trailerLabels[code]; ok {
		return label
	}
	return code
}

// Rental is the part of an inquiry that determines price.
type Rental struct {
	PickupAt       time.Time
	DeliveryAt     time.Time
	DeliveryOption DeliveryOption
	// DeliveryAddress is set iff DeliveryOption is OptionDeliverPickup.
	DeliveryAddress *types.Address
}

func (r Rental) WantsDelivery() bool {
	return r.DeliveryOption == OptionDeliverPickup
}

// Input is a normalized, validated inquiry.
type Input struct {
	Rental
	Name           string
	Phone          string
	Email          string
	Company        string
	Trailer        string
	UseReason      string
	AdditionalInfo string
}

type State string

const (
	StateReceived         State = "received"
	StateValidated        State = "validated"
	StateDistanceResolved State = "distance_resolved"
	StateDistanceSkipped  State = "distance_skipped"
	StateDistanceFailed   State = "distance_failed"
	StatePriced           State = "priced"
	StateOwnerNotified    State = "owner_notified"
	StateCustomerNotified State = "customer_notified"
	StateCompleted        State = "completed"

	StateRejectedInvalid         State = "rejected_invalid"
	StateRateLimited             State = "rate_limited"
	StateOwnerNotificationFailed State = "owner_notification_failed"
	StateMisconfigured           State = "misconfigured"
)

type DeliveryStatus string

const (
	DeliveryNotRequested DeliveryStatus = "not_requested"
	DeliveryResolved     DeliveryStatus = "resolved"
	// DeliveryPending: delivery was requested but the distance is unknown, so
	// the delivery charge is excluded from the total and quoted later.
	DeliveryPending DeliveryStatus = "pending"
)

// Quote is a priced rental. Distance is nil unless DeliveryStatus is
// DeliveryResolved.
type Quote struct {
	Pricing        pricing.Breakdown
	Distance       *location.DistanceResult
	DeliveryStatus DeliveryStatus
	// DistanceState is one of the StateDistance* values.
	DistanceState State
}

type Result struct {
	ID string
	Quote
	Owner    Outcome
	Customer Outcome
	Decision Decision
	State    State
}

// ValidationErrors maps a wire field name to its first error message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return strings.Join(parts, "; ")
}

// add keeps the first message per field.
func (v ValidationErrors) add(field, msg string) {
	if _, ok := v[field]; !ok {
		v[field] = msg
	}
}
