// README: Base handler utilities (JSON envelope, body binding, error mapping).
package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"ttrentals/internal/modules/booking"
	"ttrentals/internal/modules/inquiry"
	"ttrentals/internal/types"
)

type response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

const (
	msgInvalidBody  = "Invalid request body"
	msgValidation   = "Please correct the highlighted fields."
	msgInvalidToken = "This confirmation link is invalid or has expired."
)

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, response{Success: false, Message: msg})
}

// bindJSON decodes the body into v. An empty body decodes to the zero value
// so the caller reports per-field errors instead of a parse error.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}

// writeServiceError maps module errors to a status. Anything that is not the
// caller's fault gets the same generic message; the detail goes to the log.
func writeServiceError(c *gin.Context, err error) {
	var fields inquiry.ValidationErrors
	switch {
	case errors.As(err, &fields):
		writeJSON(c, http.StatusBadRequest, response{Success: false, Message: msgValidation, Errors: fields})
	case errors.Is(err, booking.ErrInvalidToken):
		writeError(c, http.StatusBadRequest, msgInvalidToken)
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		writeError(c, http.StatusInternalServerError, inquiry.MessageFailed)
	}
}

// money rounds to cents for the wire.
func money(d decimal.Decimal) float64 {
	return types.Float(types.Cents(d))
}
