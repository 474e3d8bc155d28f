// README: Wire request types, normalization and field validation.
package inquiry

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"ttrentals/internal/types"
)

// RentalDetails is shared by the inquiry form and the price estimate.
type RentalDetails struct {
	DeliveryOption  string `json:"deliveryOption" validate:"required,oneof=ownTruck deliverPickup"`
	DeliveryStreet  string `json:"deliveryStreet" validate:"omitempty,min=5,max=150"`
	DeliveryCity    string `json:"deliveryCity" validate:"omitempty,min=2,max=100"`
	DeliveryState   string `json:"deliveryState" validate:"omitempty,len=2,alpha"`
	DeliveryZipcode string `json:"deliveryZipcode" validate:"omitempty,numeric,len=5"`
	PickupDate      string `json:"pickupDate" validate:"required"`
	DeliveryDate    string `json:"deliveryDate" validate:"required"`
}

// Request is the inquiry form as posted by the site.
type Request struct {
	Name           string `json:"name" validate:"required,min=2,max=100"`
	Phone          string `json:"phone" validate:"required,min=7,max=30"`
	Email          string `json:"email" validate:"required,email"`
	Company        string `json:"company" validate:"omitempty,max=100"`
	Trailer        string `json:"trailer-select" validate:"required,oneof=14900-lbs-dump-trailer"`
	UseReason      string `json:"trailer-use-reason" validate:"omitempty,max=1000"`
	AdditionalInfo string `json:"additionalInfo" validate:"omitempty,max=1000"`
	RentalDetails
}

type EstimateRequest struct {
	RentalDetails
}

const DefaultState = "TX"

// messages holds the user-facing text per field and failed rule. The
// empty-tag entry is the field's fallback.
var messages = map[string]map[string]string{
	"Name": {
		"":    "Name must be at least 2 characters",
		"max": "Name must be less than 100 characters",
	},
	"Phone": {
		"":    "Please enter a valid phone number",
		"max": "Phone number is too long",
	},
	"Email":          {"": "Please enter a valid email address"},
	"Company":        {"": "Company name must be less than 100 characters"},
	"Trailer":        {"": "Invalid trailer selection."},
	"UseReason":      {"": "Intended use must be less than 1000 characters"},
	"AdditionalInfo": {"": "Additional information must be less than 1000 characters"},
	"DeliveryOption": {"": "Please select a delivery option."},
	"DeliveryStreet": {
		"":    "Street address must be at least 5 characters",
		"max": "Street address must be less than 150 characters",
	},
	"DeliveryCity": {
		"":    "City must be at least 2 characters",
		"max": "City must be less than 100 characters",
	},
	"DeliveryState":   {"": "State must be a 2-letter code"},
	"DeliveryZipcode": {"": "Zipcode must be 5 digits"},
	"PickupDate":      {"": "Pickup date/time is required"},
	"DeliveryDate":    {"": "Drop-off date/time is required"},
}

const (
	msgStreetRequired = "Street address is required when delivery is selected"
	msgCityRequired   = "City is required when delivery is selected"
	msgZipRequired    = "Valid 5-digit zipcode is required when delivery is selected"
	msgPickupFormat   = "Invalid pickup date format"
	msgDeliveryFormat = "Invalid drop-off date format"
	msgDateOrder      = "Drop-off date must be after pickup date."
)

// Layouts accepted for date inputs. Layouts without an offset are read in the
// business time zone.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var (
	validate   = validator.New()
	spaceRun   = regexp.MustCompile(`\s+`)
	phoneStrip = regexp.MustCompile(`[^0-9+().\-\s]`)
)

func collapse(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

func (d *RentalDetails) normalize() {
	d.DeliveryOption = strings.TrimSpace(d.DeliveryOption)
	d.DeliveryStreet = collapse(d.DeliveryStreet)
	d.DeliveryCity = collapse(d.DeliveryCity)
	d.DeliveryState = strings.ToUpper(collapse(d.DeliveryState))
	if d.DeliveryState == "" {
		d.DeliveryState = DefaultState
	}
	d.DeliveryZipcode = strings.TrimSpace(d.DeliveryZipcode)
	d.PickupDate = strings.TrimSpace(d.PickupDate)
	d.DeliveryDate = strings.TrimSpace(d.DeliveryDate)
}

func (r *Request) normalize() {
	r.Name = collapse(r.Name)
	r.Phone = collapse(phoneStrip.ReplaceAllString(r.Phone, ""))
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Company = collapse(r.Company)
	r.Trailer = strings.TrimSpace(r.Trailer)
	r.UseReason = collapse(r.UseReason)
	r.AdditionalInfo = collapse(r.AdditionalInfo)
	r.RentalDetails.normalize()
}

// ParseRequest normalizes req in place and converts it to an Input. Dates
// without an offset are read in loc.
func ParseRequest(req *Request, loc *time.Location) (Input, error) {
	req.normalize()
	errs := ValidationErrors{}
	structErrors(req, errs)

	rental := req.RentalDetails.toRental(loc, errs)
	if len(errs) > 0 {
		return Input{}, invalid(errs)
	}
	return Input{
		Rental:         rental,
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		Company:        req.Company,
		Trailer:        req.Trailer,
		UseReason:      req.UseReason,
		AdditionalInfo: req.AdditionalInfo,
	}, nil
}

// ParseEstimate is ParseRequest for the rental fields only.
func ParseEstimate(req *EstimateRequest, loc *time.Location) (Rental, error) {
	req.normalize()
	errs := ValidationErrors{}
	structErrors(req, errs)

	rental := req.RentalDetails.toRental(loc, errs)
	if len(errs) > 0 {
		return Rental{}, invalid(errs)
	}
	return rental, nil
}

func invalid(errs ValidationErrors) error {
	return errors.Join(ErrInvalid, errs)
}

// structErrors runs the validate tags on v and records the first failure
// per field under its JSON name.
func structErrors(v any, errs ValidationErrors) {
	err := validate.Struct(v)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.add("_", err.Error())
		return
	}
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for _, fe := range fieldErrs {
		errs.add(jsonName(t, fe.StructField()), message(fe))
	}
}

func message(fe validator.FieldError) string {
	byTag, ok := messages[fe.StructField()]
	if !ok {
		return "Invalid value"
	}
	if msg, ok := byTag[fe.Tag()]; ok {
		return msg
	}
	return byTag[""]
}

func jsonName(t reflect.Type, field string) string {
	f, ok := t.FieldByName(field)
	if !ok {
		return field
	}
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" {
		return field
	}
	return name
}

// toRental checks the conditional address rules and the date pair.
func (d RentalDetails) toRental(loc *time.Location, errs ValidationErrors) Rental {
	option := DeliveryOption(d.DeliveryOption)
	var addr *types.Address
	if option == OptionDeliverPickup {
		if d.DeliveryStreet == "" {
			errs.add("deliveryStreet", msgStreetRequired)
		}
		if d.DeliveryCity == "" {
			errs.add("deliveryCity", msgCityRequired)
		}
		if d.DeliveryZipcode == "" {
			errs.add("deliveryZipcode", msgZipRequired)
		}
		addr = &types.Address{
			Street:  d.DeliveryStreet,
			City:    d.DeliveryCity,
			State:   d.DeliveryState,
			Zipcode: d.DeliveryZipcode,
		}
	}

	var pickup, delivery time.Time
	var pickupOK, deliveryOK bool
	if d.PickupDate != "" {
		if pickup, pickupOK = parseDate(d.PickupDate, loc); !pickupOK {
			errs.add("pickupDate", msgPickupFormat)
		}
	}
	if d.DeliveryDate != "" {
		if delivery, deliveryOK = parseDate(d.DeliveryDate, loc); !deliveryOK {
			errs.add("deliveryDate", msgDeliveryFormat)
		}
	}
	if pickupOK && deliveryOK && !delivery.After(pickup) {
		errs.add("deliveryDate", msgDateOrder)
	}

	return Rental{
		PickupAt:        pickup,
		DeliveryAt:      delivery,
		DeliveryOption:  option,
		DeliveryAddress: addr,
	}
}

func parseDate(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Validate re-checks the invariants an Input must satisfy before pricing.
func (in Input) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if in.Name == "" {
		errs.add("name", messages["Name"][""])
	}
	if in.Email == "" {
		errs.add("email", messages["Email"][""])
	}
	if in.Phone == "" {
		errs.add("phone", messages["Phone"][""])
	}
	in.Rental.check(errs)
	return errs
}

func (r Rental) check(errs ValidationErrors) {
	switch r.DeliveryOption {
	case OptionOwnTruck:
		if r.DeliveryAddress != nil {
			errs.add("deliveryOption", "Delivery address given without delivery")
		}
	case OptionDeliverPickup:
		a := r.DeliveryAddress
		if a == nil || a.Street == "" {
			errs.add("deliveryStreet", msgStreetRequired)
		}
		if a == nil || a.City == "" {
			errs.add("deliveryCity", msgCityRequired)
		}
		if a == nil || a.Zipcode == "" {
			errs.add("deliveryZipcode", msgZipRequired)
		}
	default:
		errs.add("deliveryOption", messages["DeliveryOption"][""])
	}
	if r.PickupAt.IsZero() {
		errs.add("pickupDate", messages["PickupDate"][""])
	}
	if r.DeliveryAt.IsZero() {
		errs.add("deliveryDate", messages["DeliveryDate"][""])
	}
	if !r.PickupAt.IsZero() && !r.DeliveryAt.IsZero() && !r.DeliveryAt.After(r.PickupAt) {
		errs.add("deliveryDate", msgDateOrder)
	}
}
