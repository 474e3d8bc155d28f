// README: API gateway; holds the module services the routes delegate to.
package http

import (
	"ttrentals/internal/modules/booking"
	"ttrentals/internal/modules/inquiry"
	"ttrentals/internal/modules/ratelimit"
)

// Each limited route gets its own limiter so estimates and confirmations
// never spend the inquiry budget. Nil limiters get package defaults.
type ServerDeps struct {
	Inquiry         *inquiry.Service
	Booking         *booking.Service
	Limiter         *ratelimit.Limiter
	EstimateLimiter *ratelimit.Limiter
	BookingLimiter  *ratelimit.Limiter
	// AllowedOrigins feeds CORS. Empty means same-origin only.
	AllowedOrigins []string
}

type Server struct {
	inquiry         *inquiry.Service
	booking         *booking.Service
	limiter         *ratelimit.Limiter
	estimateLimiter *ratelimit.Limiter
	bookingLimiter  *ratelimit.Limiter
	allowedOrigins  []string
}

func NewServer(deps ServerDeps) *Server {
	for _, l := range []**ratelimit.Limiter{&deps.Limiter, &deps.EstimateLimiter, &deps.BookingLimiter} {
		if *l == nil {
			*l = ratelimit.New(ratelimit.Config{})
		}
	}
	return &Server{
		inquiry:         deps.Inquiry,
		booking:         deps.Booking,
		limiter:         deps.Limiter,
		estimateLimiter: deps.EstimateLimiter,
		bookingLimiter:  deps.BookingLimiter,
		allowedOrigins:  deps.AllowedOrigins,
	}
}
