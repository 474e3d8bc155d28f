// README: OpenStreetMap Nominatim geocoder with an outbound request throttle.
package maps

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"ttrentals/internal/types"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// NominatimGeocoder queries the public Nominatim search API. The usage policy
// allows one request per second and requires an identifying User-Agent, so
// every call waits on a shared limiter.
type NominatimGeocoder struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
}

type NominatimConfig struct {
	BaseURL   string
	UserAgent string
	// RequestsPerSecond <= 0 disables throttling.
	RequestsPerSecond float64
	Timeout           time.Duration
}

func NewNominatimGeocoder(cfg NominatimConfig) *NominatimGeocoder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultNominatimURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &NominatimGeocoder{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
		limiter:   rate.NewLimiter(limit, 1),
	}
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (types.Coordinate, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return types.Coordinate{}, notFound("empty address")
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return types.Coordinate{}, notFound("nominatim throttle: %v", err)
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("countrycodes", "us")
	q.Set("q", address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return types.Coordinate{}, notFound("nominatim request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return types.Coordinate{}, notFound("nominatim: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return types.Coordinate{}, notFound("nominatim status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return types.Coordinate{}, notFound("nominatim decode: %v", err)
	}
	if len(places) == 0 {
		return types.Coordinate{}, notFound("no results for %q", address)
	}
	return parsePlace(places[0])
}

func parsePlace(p nominatimPlace) (types.Coordinate, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return types.Coordinate{}, notFound("bad latitude %q", p.Lat)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return types.Coordinate{}, notFound("bad longitude %q", p.Lon)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return types.Coordinate{}, notFound("coordinate out of range %v,%v", lat, lon)
	}
	return types.Coordinate{Lat: lat, Lon: lon}, nil
}
