// README: Config loader: .env, optional config.yaml, then environment variables over defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	GeocoderNominatim = "nominatim"
	GeocoderGoogle    = "google"

	EmailBrevo = "brevo"
	EmailSMTP  = "smtp"
)

// RateLimitConfig applies Max to inquiry submissions. Estimates and booking
// confirmations share Window but count against their own maxima.
type RateLimitConfig struct {
	Max            int
	EstimateMax    int
	BookingMax     int
	Window         time.Duration
	SweepThreshold int
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

type Config struct {
	HTTP struct {
		Addr           string
		AllowedOrigins []string
	}
	Business struct {
		Name           string
		Address        string
		Phone          string
		PickupLocation string
		SiteURL        string
		Location       *time.Location
	}
	RateLimit RateLimitConfig
	Pricing   struct {
		TaxRate    decimal.Decimal
		RoadFactor float64
	}
	OutboundTimeout time.Duration
	Geocoder        struct {
		Provider     string
		NominatimURL string
		NominatimRPS float64
		UserAgent    string
		GoogleAPIKey string
		CacheTTL     time.Duration
	}
	Redis struct {
		Addr string
	}
	// Email secrets may be empty; requests fail then, startup does not.
	Email struct {
		Provider    string
		BrevoAPIKey string
		BrevoURL    string
		Sender      string
		Recipient   string
		SMTP        SMTPConfig
	}
	Booking struct {
		Secret  string
		LinkTTL time.Duration
	}
}

// key is a viper path, the environment variable bound to it and its default.
type key struct {
	path string
	env  string
	def  any
}

var keys = []key{
	{"http.addr", "TTR_HTTP_ADDR", ":8080"},
	{"http.allowed_origins", "TTR_ALLOWED_ORIGINS", "*"},
	{"business.site_url", "TTR_SITE_URL", "https://texastoughrentals.com"},
	{"business.name", "TTR_BUSINESS_NAME", "Texas Tough Rentals"},
	{"business.address", "TTR_BUSINESS_ADDRESS", "Keller, TX"},
	{"business.phone", "TTR_BUSINESS_PHONE", "(682) 233-4986"},
	{"business.pickup_location", "TTR_PICKUP_LOCATION", "5336 Golden Triangle Blvd, Fort Worth, TX 76244"},
	{"business.timezone", "TTR_TIMEZONE", "America/Chicago"},
	{"ratelimit.max", "TTR_RATE_LIMIT_MAX", 3},
	{"ratelimit.estimate_max", "TTR_ESTIMATE_RATE_LIMIT_MAX", 20},
	{"ratelimit.booking_max", "TTR_BOOKING_RATE_LIMIT_MAX", 10},
	{"ratelimit.window", "TTR_RATE_LIMIT_WINDOW", "60s"},
	{"ratelimit.sweep_threshold", "TTR_RATE_LIMIT_SWEEP_THRESHOLD", 1000},
	{"pricing.road_factor", "TTR_ROAD_FACTOR", 1.4},
	{"pricing.tax_rate", "TTR_TAX_RATE", "0.0825"},
	{"outbound_timeout", "TTR_OUTBOUND_TIMEOUT", "5s"},
	{"geocoder.provider", "TTR_GEOCODER", GeocoderNominatim},
	{"geocoder.nominatim_url", "TTR_NOMINATIM_URL", "https://nominatim.openstreetmap.org"},
	{"geocoder.nominatim_rps", "TTR_NOMINATIM_RPS", 1.0},
	{"geocoder.user_agent", "TTR_USER_AGENT", ""},
	{"geocoder.google_api_key", "GOOGLE_MAPS_API_KEY", ""},
	{"geocoder.cache_ttl", "TTR_GEOCODE_CACHE_TTL", "720h"},
	{"redis.addr", "TTR_REDIS_ADDR", ""},
	{"email.provider", "TTR_EMAIL_PROVIDER", EmailBrevo},
	{"email.brevo_api_key", "BREVO_API_KEY", ""},
	{"email.brevo_url", "TTR_BREVO_URL", "https://api.brevo.com/v3/smtp/email"},
	{"email.sender", "EMAIL_SENDER", ""},
	{"email.recipient", "EMAIL_RECIPIENT", ""},
	{"email.smtp.host", "SMTP_HOST", ""},
	{"email.smtp.port", "SMTP_PORT", 587},
	{"email.smtp.username", "SMTP_USERNAME", ""},
	{"email.smtp.password", "SMTP_PASSWORD", ""},
	{"booking.secret", "TTR_BOOKING_SECRET", ""},
	{"booking.link_ttl", "TTR_BOOKING_LINK_TTL", "336h"},
}

// Load reads a local .env if present, then config.yaml from the working
// directory if present. Environment variables win over both.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	for _, k := range keys {
		v.SetDefault(k.path, k.def)
		if err := v.BindEnv(k.path, k.env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", k.env, err)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	var err error

	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.HTTP.AllowedOrigins = splitList(v.GetString("http.allowed_origins"))

	cfg.Business.SiteURL = strings.TrimRight(v.GetString("business.site_url"), "/")
	cfg.Business.Name = v.GetString("business.name")
	cfg.Business.Address = v.GetString("business.address")
	cfg.Business.Phone = v.GetString("business.phone")
	cfg.Business.PickupLocation = v.GetString("business.pickup_location")
	if cfg.Business.Location, err = time.LoadLocation(v.GetString("business.timezone")); err != nil {
		return Config{}, fmt.Errorf("invalid TTR_TIMEZONE: %w", err)
	}

	maxima := []struct {
		dst  *int
		path string
		env  string
	}{
		{&cfg.RateLimit.Max, "ratelimit.max", "TTR_RATE_LIMIT_MAX"},
		{&cfg.RateLimit.EstimateMax, "ratelimit.estimate_max", "TTR_ESTIMATE_RATE_LIMIT_MAX"},
		{&cfg.RateLimit.BookingMax, "ratelimit.booking_max", "TTR_BOOKING_RATE_LIMIT_MAX"},
	}
	for _, m := range maxima {
		if *m.dst = v.GetInt(m.path); *m.dst <= 0 {
			return Config{}, fmt.Errorf("invalid %s: must be positive", m.env)
		}
	}
	if cfg.RateLimit.Window, err = duration(v, "ratelimit.window"); err != nil {
		return Config{}, fmt.Errorf("invalid TTR_RATE_LIMIT_WINDOW: %w", err)
	}
	cfg.RateLimit.SweepThreshold = v.GetInt("ratelimit.sweep_threshold")

	cfg.Pricing.RoadFactor = v.GetFloat64("pricing.road_factor")
	if cfg.Pricing.TaxRate, err = decimal.NewFromString(v.GetString("pricing.tax_rate")); err != nil {
		return Config{}, fmt.Errorf("invalid TTR_TAX_RATE: %w", err)
	}
	if cfg.Pricing.TaxRate.IsNegative() {
		return Config{}, errors.New("invalid TTR_TAX_RATE: must not be negative")
	}
	if cfg.OutboundTimeout, err = duration(v, "outbound_timeout"); err != nil {
		return Config{}, fmt.Errorf("invalid TTR_OUTBOUND_TIMEOUT: %w", err)
	}

	g := &cfg.Geocoder
	g.Provider = strings.ToLower(v.GetString("geocoder.provider"))
	g.NominatimURL = v.GetString("geocoder.nominatim_url")
	g.NominatimRPS = v.GetFloat64("geocoder.nominatim_rps")
	g.UserAgent = v.GetString("geocoder.user_agent")
	if g.UserAgent == "" {
		g.UserAgent = "ttrentals/1.0 (+" + cfg.Business.SiteURL + ")"
	}
	g.GoogleAPIKey = v.GetString("geocoder.google_api_key")
	if g.CacheTTL, err = duration(v, "geocoder.cache_ttl"); err != nil {
		return Config{}, fmt.Errorf("invalid TTR_GEOCODE_CACHE_TTL: %w", err)
	}
	switch g.Provider {
	case GeocoderNominatim:
	case GeocoderGoogle:
		if g.GoogleAPIKey == "" {
			return Config{}, errors.New("GOOGLE_MAPS_API_KEY is required when TTR_GEOCODER=google")
		}
	default:
		return Config{}, fmt.Errorf("invalid TTR_GEOCODER %q", g.Provider)
	}

	cfg.Redis.Addr = v.GetString("redis.addr")

	e := &cfg.Email
	e.Provider = strings.ToLower(v.GetString("email.provider"))
	if e.Provider != EmailBrevo && e.Provider != EmailSMTP {
		return Config{}, fmt.Errorf("invalid TTR_EMAIL_PROVIDER %q", e.Provider)
	}
	e.BrevoAPIKey = v.GetString("email.brevo_api_key")
	e.BrevoURL = v.GetString("email.brevo_url")
	e.Sender = v.GetString("email.sender")
	e.Recipient = v.GetString("email.recipient")
	e.SMTP = SMTPConfig{
		Host:     v.GetString("email.smtp.host"),
		Port:     v.GetInt("email.smtp.port"),
		Username: v.GetString("email.smtp.username"),
		Password: v.GetString("email.smtp.password"),
	}

	cfg.Booking.Secret = v.GetString("booking.secret")
	if cfg.Booking.LinkTTL, err = duration(v, "booking.link_ttl"); err != nil {
		return Config{}, fmt.Errorf("invalid TTR_BOOKING_LINK_TTL: %w", err)
	}

	return cfg, nil
}

// duration parses strictly; viper's GetDuration turns garbage into zero.
func duration(v *viper.Viper, path string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(path))
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errors.New("must be positive")
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
