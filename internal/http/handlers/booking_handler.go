// README: Booking confirmation handler (owner accepts an inquiry from the emailed link).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ttrentals/internal/modules/booking"
)

type BookingHandler struct {
	booking *booking.Service
}

func NewBookingHandler(svc *booking.Service) *BookingHandler {
	return &BookingHandler{booking: svc}
}

type confirmReq struct {
	Token string `json:"token"`
}

type confirmResp struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	InquiryID string `json:"inquiryId"`
	Customer  string `json:"customer"`
}

func (h *BookingHandler) Confirm(c *gin.Context) {
	var req confirmReq
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.booking.Confirm(c.Request.Context(), req.Token)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, confirmResp{
		Success:   true,
		Message:   "Acceptance email sent to the customer.",
		InquiryID: b.InquiryID,
		Customer:  b.CustomerName,
	})
}
