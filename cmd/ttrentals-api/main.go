// README: Entry point; loads config, wires services and serves HTTP until SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"ttrentals/internal/config"
	httptransport "ttrentals/internal/http"
	"ttrentals/internal/infra"
	"ttrentals/internal/maps"
	"ttrentals/internal/modules/booking"
	"ttrentals/internal/modules/inquiry"
	"ttrentals/internal/modules/location"
	"ttrentals/internal/modules/pricing"
	"ttrentals/internal/modules/ratelimit"
	"ttrentals/internal/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	geocoder, closeGeocoder, err := newGeocoder(ctx, cfg)
	if err != nil {
		log.Fatalf("geocoder init: %v", err)
	}
	defer closeGeocoder()

	sender := newSender(cfg)
	from := notify.Identity{Name: cfg.Business.Name, Email: cfg.Email.Sender}
	owner := notify.Identity{Email: cfg.Email.Recipient}

	if cfg.Booking.Secret == "" {
		log.Println("TTR_BOOKING_SECRET not set; owner emails go out without a confirmation link")
	}
	signer := booking.NewSigner(cfg.Booking.Secret, cfg.Booking.LinkTTL, cfg.Business.SiteURL)

	inquirySvc := inquiry.NewService(inquiry.Deps{
		Geocoder: geocoder,
		Distance: location.NewEstimator(cfg.Pricing.RoadFactor),
		Pricing:  pricing.NewEngine(pricing.Config{TaxRate: decimal.NewNullDecimal(cfg.Pricing.TaxRate)}),
		Sender:   sender,
		Links:    signer,
	}, inquiry.Config{
		BusinessName:    cfg.Business.Name,
		BusinessAddress: cfg.Business.Address,
		BusinessPhone:   cfg.Business.Phone,
		From:            from,
		Owner:           owner,
		Location:        cfg.Business.Location,
		OutboundTimeout: cfg.OutboundTimeout,
	})

	bookingSvc := booking.NewService(signer, sender, booking.Config{
		BusinessName:    cfg.Business.Name,
		BusinessPhone:   cfg.Business.Phone,
		PickupLocation:  cfg.Business.PickupLocation,
		From:            from,
		ReplyTo:         owner,
		Location:        cfg.Business.Location,
		OutboundTimeout: cfg.OutboundTimeout,
	})

	newLimiter := func(max int) *ratelimit.Limiter {
		return ratelimit.New(ratelimit.Config{
			Max:            max,
			Window:         cfg.RateLimit.Window,
			SweepThreshold: cfg.RateLimit.SweepThreshold,
		})
	}

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Inquiry:         inquirySvc,
		Booking:         bookingSvc,
		Limiter:         newLimiter(cfg.RateLimit.Max),
		EstimateLimiter: newLimiter(cfg.RateLimit.EstimateMax),
		BookingLimiter:  newLimiter(cfg.RateLimit.BookingMax),
		AllowedOrigins:  cfg.HTTP.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s (geocoder=%s email=%s)", cfg.HTTP.Addr, cfg.Geocoder.Provider, cfg.Email.Provider)
		if err := srv.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Println("shutdown signal received")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

// newGeocoder builds the configured provider, behind the Redis cache when
// TTR_REDIS_ADDR is set. An unreachable Redis disables the cache.
func newGeocoder(ctx context.Context, cfg config.Config) (maps.Geocoder, func(), error) {
	var g maps.Geocoder
	switch cfg.Geocoder.Provider {
	case config.GeocoderGoogle:
		gg, err := maps.NewGoogleGeocoder(cfg.Geocoder.GoogleAPIKey)
		if err != nil {
			return nil, nil, err
		}
		g = gg
	default:
		g = maps.NewNominatimGeocoder(maps.NominatimConfig{
			BaseURL:           cfg.Geocoder.NominatimURL,
			UserAgent:         cfg.Geocoder.UserAgent,
			RequestsPerSecond: cfg.Geocoder.NominatimRPS,
			Timeout:           cfg.OutboundTimeout,
		})
	}

	noop := func() {}
	if cfg.Redis.Addr == "" {
		return g, noop, nil
	}
	rdb, err := infra.ConnectRedis(ctx, cfg.Redis.Addr, 2*time.Second)
	if err != nil {
		log.Printf("geocode cache disabled: %v", err)
		return g, noop, nil
	}
	closeFn := func() {
		if err := rdb.Close(); err != nil {
			log.Printf("redis close: %v", err)
		}
	}
	return maps.NewCachedGeocoder(g, rdb, cfg.Geocoder.CacheTTL), closeFn, nil
}

func newSender(cfg config.Config) notify.Sender {
	e := cfg.Email
	if e.Sender == "" || e.Recipient == "" {
		log.Println("EMAIL_SENDER or EMAIL_RECIPIENT not set; inquiries will fail until configured")
	}
	switch e.Provider {
	case config.EmailSMTP:
		if e.SMTP.Host == "" {
			return notify.Unconfigured{Reason: "SMTP_HOST not set"}
		}
		return notify.NewSMTPSender(notify.SMTPConfig{
			Host:     e.SMTP.Host,
			Port:     e.SMTP.Port,
			Username: e.SMTP.Username,
			Password: e.SMTP.Password,
		})
	default:
		if e.BrevoAPIKey == "" {
			return notify.Unconfigured{Reason: "BREVO_API_KEY not set"}
		}
		return notify.NewBrevoSender(e.BrevoAPIKey, e.BrevoURL, cfg.OutboundTimeout)
	}
}
