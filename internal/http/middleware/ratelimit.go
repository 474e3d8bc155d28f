// README: Per-client rate limiting for API routes.
package middleware

import (
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"ttrentals/internal/modules/ratelimit"
)

// RateLimit answers 429 with Retry-After once the client exceeds l.
func RateLimit(l *ratelimit.Limiter) gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(l.Window().Seconds()))
	return func(c *gin.Context) {
		id := ClientIdentifier(c.Request)
		if l.Allow(id) {
			c.Next()
			return
		}
		log.Printf("rate limited %s %s client=%s", c.Request.Method, c.Request.URL.Path, id)
		c.Header("Retry-After", retryAfter)
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"success": false,
			"message": "Too many requests. Please try again later.",
		})
	}
}

// ClientIdentifier is best effort: the first X-Forwarded-For hop, then
// X-Real-IP, then the connection's remote host. Headers are spoofable unless
// a trusted proxy sets them.
func ClientIdentifier(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
