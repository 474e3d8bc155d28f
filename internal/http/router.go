// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorillahandlers "github.com/gorilla/handlers"

	"ttrentals/internal/http/handlers"
	"ttrentals/internal/http/middleware"
)

// Routes builds the gin engine and wraps it in CORS. Every /api route runs
// the content-type gate, then its own rate limiter, then its handler.
func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(middleware.Recovery(), middleware.Logging(), middleware.SecurityHeaders())
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "Method Not Allowed"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
	})

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api", middleware.RequireJSON())

	inquiryHandler := handlers.NewInquiryHandler(s.inquiry)
	api.POST("/submit-trailer-inquiry", middleware.RateLimit(s.limiter), inquiryHandler.Submit)
	api.POST("/estimate", middleware.RateLimit(s.estimateLimiter), inquiryHandler.Estimate)

	bookingHandler := handlers.NewBookingHandler(s.booking)
	api.POST("/confirm-booking", middleware.RateLimit(s.bookingLimiter), bookingHandler.Confirm)

	cors := gorillahandlers.CORS(s.corsOptions()...)(r)
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		// gorilla answers any OPTIONS with an empty 200; only preflights
		// belong to it, the rest get gin's 405.
		if req.Method == http.MethodOptions && !isPreflight(req) {
			r.ServeHTTP(w, req)
			return
		}
		cors.ServeHTTP(w, req)
	})
}

func isPreflight(req *http.Request) bool {
	return req.Header.Get("Origin") != "" && req.Header.Get("Access-Control-Request-Method") != ""
}

func (s *Server) corsOptions() []gorillahandlers.CORSOption {
	opts := []gorillahandlers.CORSOption{
		gorillahandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type"}),
		gorillahandlers.MaxAge(600),
	}
	if len(s.allowedOrigins) == 0 {
		// gorilla treats an empty list as "any origin".
		return append(opts, gorillahandlers.AllowedOriginValidator(func(string) bool { return false }))
	}
	return append(opts, gorillahandlers.AllowedOrigins(s.allowedOrigins))
}
