// README: Process-local sliding-window limiter keyed by client identifier.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter admits at most Config.Max requests per identifier in any trailing
// Config.Window. State lives in memory only and is lost on restart.
//
// Memory is bounded for churn of one-off clients by the sweep, not for many
// identifiers that are all active inside the same window.
type Limiter struct {
	mu   sync.Mutex
	cfg  Config
	now  func() time.Time
	hits map[string][]time.Time
}

type Option func(*Limiter)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

func New(cfg Config, opts ...Option) *Limiter {
	l := &Limiter{
		cfg:  cfg.withDefaults(),
		now:  time.Now,
		hits: make(map[string][]time.Time),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow records a request for identifier and reports whether it is admitted.
// Denied attempts are not recorded.
func (l *Limiter) Allow(identifier string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.cfg.Window)

	recent := prune(l.hits[identifier], cutoff)
	if len(recent) >= l.cfg.Max {
		l.hits[identifier] = recent
		return false
	}
	l.hits[identifier] = append(recent, now)

	if len(l.hits) > l.cfg.SweepThreshold {
		l.sweep(cutoff)
	}
	return true
}

// Len returns the number of identifiers currently tracked.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hits)
}

// Window is the configured trailing window.
func (l *Limiter) Window() time.Duration {
	return l.cfg.Window
}

// sweep drops every identifier with no request newer than cutoff.
// Caller holds l.mu.
func (l *Limiter) sweep(cutoff time.Time) {
	for id, ts := range l.hits {
		recent := prune(ts, cutoff)
		if len(recent) == 0 {
			delete(l.hits, id)
			continue
		}
		l.hits[id] = recent
	}
}

// prune returns the suffix of ts newer than cutoff. ts is in arrival order.
func prune(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && !ts[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return ts
	}
	if i == len(ts) {
		return nil
	}
	out := make([]time.Time, len(ts)-i)
	copy(out, ts[i:])
	return out
}
