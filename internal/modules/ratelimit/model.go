// README: Rate limiter settings and defaults.
package ratelimit

import "time"

const (
	DefaultMax            = 3
	DefaultWindow         = 60 * time.Second
	DefaultSweepThreshold = 1000
)

type Config struct {
	// Max is the number of requests admitted per identifier within Window.
	Max    int
	Window time.Duration
	// SweepThreshold is the identifier count above which idle records are
	// swept out of the map.
	SweepThreshold int
}

func (c Config) withDefaults() Config {
	if c.Max <= 0 {
		c.Max = DefaultMax
	}
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.SweepThreshold <= 0 {
		c.SweepThreshold = DefaultSweepThreshold
	}
	return c
}
