// README: Google Geocoding API wrapper.
package maps

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"ttrentals/internal/types"
)

// GoogleGeocoder handles interactions with the Google Geocoding API.
type GoogleGeocoder struct {
	client *maps.Client
}

// NewGoogleGeocoder creates a GoogleGeocoder with the given API key. Extra
// client options (base URL, HTTP client) are mostly for tests.
func NewGoogleGeocoder(apiKey string, opts ...maps.ClientOption) (*GoogleGeocoder, error) {
	opts = append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleGeocoder{client: client}, nil
}

// Geocode returns the location of the first result, biased to the US.
func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (types.Coordinate, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return types.Coordinate{}, notFound("empty address")
	}

	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Address: address,
		Region:  "us",
	})
	if err != nil {
		return types.Coordinate{}, notFound("maps api error: %v", err)
	}
	if len(results) == 0 {
		return types.Coordinate{}, notFound("no results for %q", address)
	}

	loc := results[0].Geometry.Location
	return types.Coordinate{Lat: loc.Lat, Lon: loc.Lng}, nil
}
