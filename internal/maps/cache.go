// README: Redis cache-aside decorator for any Geocoder.
package maps

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"ttrentals/internal/types"
)

const (
	cacheKeyPrefix  = "geocode:"
	DefaultCacheTTL = 30 * 24 * time.Hour
)

// CachedGeocoder serves repeated addresses from Redis. Redis failures are
// logged and fall through to the wrapped Geocoder; misses are never cached.
type CachedGeocoder struct {
	next  Geocoder
	redis *redis.Client
	ttl   time.Duration
}

func NewCachedGeocoder(next Geocoder, rdb *redis.Client, ttl time.Duration) *CachedGeocoder {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedGeocoder{next: next, redis: rdb, ttl: ttl}
}

func cacheKey(address string) string {
	return cacheKeyPrefix + NormalizeAddress(address)
}

func (c *CachedGeocoder) Geocode(ctx context.Context, address string) (types.Coordinate, error) {
	key := cacheKey(address)

	val, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		if coord, perr := decodeCoordinate(val); perr == nil {
			return coord, nil
		}
		log.Printf("geocode cache: dropping corrupt entry %s=%q", key, val)
	case errors.Is(err, redis.Nil):
	default:
		log.Printf("geocode cache get %s: %v", key, err)
	}

	coord, err := c.next.Geocode(ctx, address)
	if err != nil {
		return types.Coordinate{}, err
	}

	if err := c.redis.Set(ctx, key, encodeCoordinate(coord), c.ttl).Err(); err != nil {
		log.Printf("geocode cache set %s: %v", key, err)
	}
	return coord, nil
}

func encodeCoordinate(c types.Coordinate) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

func decodeCoordinate(s string) (types.Coordinate, error) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return types.Coordinate{}, fmt.Errorf("missing separator in %q", s)
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return types.Coordinate{}, err
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return types.Coordinate{}, err
	}
	return types.Coordinate{Lat: lat, Lon: lon}, nil
}
