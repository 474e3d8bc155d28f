// README: Inquiry service prices a rental, resolves delivery distance and notifies owner and customer.
package inquiry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"ttrentals/internal/modules/booking"
	"ttrentals/internal/modules/location"
	"ttrentals/internal/modules/pricing"
	"ttrentals/internal/notify"
	"ttrentals/internal/types"
)

type Geocoder interface {
	Geocode(ctx context.Context, address string) (types.Coordinate, error)
}

// LinkSigner builds the owner's booking-confirmation deep link.
type LinkSigner interface {
	Link(b booking.Booking) (string, error)
}

type Config struct {
	BusinessName    string
	BusinessAddress string
	BusinessPhone   string
	From            notify.Identity
	Owner           notify.Identity
	Location        *time.Location
	OutboundTimeout time.Duration
}

type Deps struct {
	Geocoder Geocoder
	Distance *location.Estimator
	Pricing  *pricing.Engine
	Sender   notify.Sender
	Links    LinkSigner
}

type Service struct {
	geocoder Geocoder
	distance *location.Estimator
	pricing  *pricing.Engine
	sender   notify.Sender
	links    LinkSigner
	cfg      Config
}

var newID = uuid.NewString

func NewService(deps Deps, cfg Config) *Service {
	if deps.Distance == nil {
		deps.Distance = location.NewEstimator(location.DefaultRoadFactor)
	}
	if deps.Pricing == nil {
		deps.Pricing = pricing.NewEngine(pricing.Config{})
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.OutboundTimeout <= 0 {
		cfg.OutboundTimeout = 5 * time.Second
	}
	return &Service{
		geocoder: deps.Geocoder,
		distance: deps.Distance,
		pricing:  deps.Pricing,
		sender:   deps.Sender,
		links:    deps.Links,
		cfg:      cfg,
	}
}

// Location is the zone used for dates given without an offset.
func (s *Service) Location() *time.Location {
	return s.cfg.Location
}

func (s *Service) Parse(req *Request) (Input, error) {
	return ParseRequest(req, s.cfg.Location)
}

func (s *Service) ParseEstimate(req *EstimateRequest) (Rental, error) {
	return ParseEstimate(req, s.cfg.Location)
}

// Quote prices r. A failed distance lookup never fails the quote; it leaves
// delivery out of the total and marks it pending.
func (s *Service) Quote(ctx context.Context, r Rental) (Quote, error) {
	errs := ValidationErrors{}
	r.check(errs)
	if len(errs) > 0 {
		return Quote{}, invalid(errs)
	}
	return s.quote(ctx, "", r), nil
}

func (s *Service) quote(ctx context.Context, id string, r Rental) Quote {
	q := Quote{DeliveryStatus: DeliveryNotRequested, DistanceState: StateDistanceSkipped}

	var miles *float64
	if r.WantsDelivery() {
		dist, err := s.resolveDistance(ctx, *r.DeliveryAddress)
		if err != nil {
			log.Printf("inquiry %s: delivery distance pending: %v", id, err)
			q.DeliveryStatus = DeliveryPending
			q.DistanceState = StateDistanceFailed
		} else {
			q.Distance = &dist
			q.DeliveryStatus = DeliveryResolved
			q.DistanceState = StateDistanceResolved
			miles = &dist.RoadMiles
		}
	}

	q.Pricing = s.pricing.Breakdown(r.PickupAt, r.DeliveryAt, miles)
	return q
}

type geocodeResult struct {
	coord types.Coordinate
	err   error
}

// resolveDistance geocodes the business and the delivery address in
// parallel and joins both before estimating.
func (s *Service) resolveDistance(ctx context.Context, addr types.Address) (location.DistanceResult, error) {
	if s.geocoder == nil {
		return location.DistanceResult{}, errors.New("no geocoder configured")
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.OutboundTimeout)
	defer cancel()

	originCh := make(chan geocodeResult, 1)
	destCh := make(chan geocodeResult, 1)

	go func() {
		c, err := s.geocoder.Geocode(ctx, s.cfg.BusinessAddress)
		originCh <- geocodeResult{coord: c, err: err}
	}()
	go func() {
		c, err := s.geocoder.Geocode(ctx, addr.String())
		destCh <- geocodeResult{coord: c, err: err}
	}()

	origin, dest := <-originCh, <-destCh
	if origin.err != nil {
		return location.DistanceResult{}, fmt.Errorf("business address: %w", origin.err)
	}
	if dest.err != nil {
		return location.DistanceResult{}, fmt.Errorf("delivery address: %w", dest.err)
	}
	return s.distance.Estimate(origin.coord, dest.coord), nil
}

// Process runs a validated inquiry to completion: price it, tell the owner,
// then acknowledge the customer. It runs detached from ctx cancellation so a
// client disconnect cannot leave the owner email half-sent.
func (s *Service) Process(ctx context.Context, in Input) (Result, error) {
	ctx = context.WithoutCancel(ctx)
	res := Result{ID: newID(), State: StateReceived, Owner: OutcomeSkipped, Customer: OutcomeSkipped}

	if errs := in.Validate(); len(errs) > 0 {
		res.State = StateRejectedInvalid
		res.Decision = CombineOutcomes(res.Owner, res.Customer)
		return res, invalid(errs)
	}
	res.State = StateValidated

	if err := s.checkConfig(); err != nil {
		log.Printf("inquiry %s: %v", res.ID, err)
		res.State = StateMisconfigured
		res.Decision = CombineOutcomes(res.Owner, res.Customer)
		return res, err
	}

	res.Quote = s.quote(ctx, res.ID, in.Rental)
	res.State = StatePriced

	view := s.view(res.ID, in, res.Quote, s.confirmLink(res.ID, in))

	if err := s.notifyOwner(ctx, view, in); err != nil {
		res.Owner = OutcomeFailed
		res.Decision = CombineOutcomes(res.Owner, res.Customer)
		if errors.Is(err, notify.ErrNotConfigured) {
			res.State = StateMisconfigured
			log.Printf("inquiry %s: owner email not configured: %v", res.ID, err)
			return res, fmt.Errorf("%w: %v", ErrMisconfigured, err)
		}
		res.State = StateOwnerNotificationFailed
		log.Printf("inquiry %s: owner email failed: %v", res.ID, err)
		return res, fmt.Errorf("%w: %v", ErrOwnerNotification, err)
	}
	res.Owner = OutcomeSent
	res.State = StateOwnerNotified

	if err := s.notifyCustomer(ctx, view, in); err != nil {
		res.Customer = OutcomeFailed
		log.Printf("inquiry %s: customer acknowledgement to %s failed: %v", res.ID, in.Email, err)
	} else {
		res.Customer = OutcomeSent
		res.State = StateCustomerNotified
	}

	res.Decision = CombineOutcomes(res.Owner, res.Customer)
	res.State = StateCompleted
	log.Printf("inquiry %s: completed delivery=%s total=%s degraded=%t",
		res.ID, res.DeliveryStatus, types.FormatUSD(res.Pricing.Total), res.Decision.Degraded)
	return res, nil
}

func (s *Service) checkConfig() error {
	switch {
	case s.sender == nil:
		return fmt.Errorf("%w: no email sender", ErrMisconfigured)
	case s.cfg.From.Email == "":
		return fmt.Errorf("%w: EMAIL_SENDER is empty", ErrMisconfigured)
	case s.cfg.Owner.Email == "":
		return fmt.Errorf("%w: EMAIL_RECIPIENT is empty", ErrMisconfigured)
	}
	return nil
}

// confirmLink is optional; the owner can still reply by hand without it.
func (s *Service) confirmLink(id string, in Input) string {
	if s.links == nil {
		return ""
	}
	link, err := s.links.Link(booking.Booking{
		InquiryID:     id,
		CustomerName:  in.Name,
		CustomerEmail: in.Email,
		Trailer:       TrailerLabel(in.Trailer),
		PickupAt:      in.PickupAt,
		DeliveryAt:    in.DeliveryAt,
	})
	if err != nil {
		log.Printf("inquiry %s: confirmation link omitted: %v", id, err)
		return ""
	}
	return link
}

func (s *Service) send(ctx context.Context, msg notify.Message) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.OutboundTimeout)
	defer cancel()
	return s.sender.Send(ctx, msg)
}

func (s *Service) notifyOwner(ctx context.Context, v emailView, in Input) error {
	msg, err := s.ownerMessage(v, in)
	if err != nil {
		return err
	}
	return s.send(ctx, msg)
}

func (s *Service) notifyCustomer(ctx context.Context, v emailView, in Input) error {
	msg, err := s.customerMessage(v, in)
	if err != nil {
		return err
	}
	return s.send(ctx, msg)
}
