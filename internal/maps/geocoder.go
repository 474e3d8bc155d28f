// README: Geocoder contract shared by the Nominatim, Google and cached implementations.
package maps

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"ttrentals/internal/types"
)

// ErrNotFound is wrapped by every Geocode failure, including transport and
// upstream errors, so callers can degrade with a single errors.Is check.
var ErrNotFound = errors.New("geocode: address not found")

// Geocoder resolves a free-text address to a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (types.Coordinate, error)
}

func notFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

var spaceRun = regexp.MustCompile(`\s+`)

// NormalizeAddress lower-cases, trims and collapses whitespace so equivalent
// spellings share a cache key.
func NormalizeAddress(address string) string {
	return strings.ToLower(spaceRun.ReplaceAllString(strings.TrimSpace(address), " "))
}
