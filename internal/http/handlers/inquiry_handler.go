// README: Inquiry handlers for form submission and price estimates.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ttrentals/internal/modules/inquiry"
)

type InquiryHandler struct {
	inquiry *inquiry.Service
}

func NewInquiryHandler(svc *inquiry.Service) *InquiryHandler {
	return &InquiryHandler{inquiry: svc}
}

type submitResp struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	InquiryID      string `json:"inquiryId"`
	DeliveryStatus string `json:"deliveryStatus"`
}

type estimateResp struct {
	Success        bool     `json:"success"`
	Days           int      `json:"days"`
	DailyRate      float64  `json:"dailyRate"`
	RentalCost     float64  `json:"rentalCost"`
	DeliveryCost   float64  `json:"deliveryCost"`
	DeliveryStatus string   `json:"deliveryStatus"`
	DistanceMiles  *float64 `json:"distanceMiles"`
	Subtotal       float64  `json:"subtotal"`
	TaxRate        float64  `json:"taxRate"`
	Tax            float64  `json:"tax"`
	Total          float64  `json:"total"`
}

func (h *InquiryHandler) Submit(c *gin.Context) {
	var req inquiry.Request
	if !bindJSON(c, &req) {
		return
	}
	in, err := h.inquiry.Parse(&req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	res, err := h.inquiry.Process(c.Request.Context(), in)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, submitResp{
		Success:        res.Decision.Success,
		Message:        res.Decision.Message,
		InquiryID:      res.ID,
		DeliveryStatus: string(res.DeliveryStatus),
	})
}

func (h *InquiryHandler) Estimate(c *gin.Context) {
	var req inquiry.EstimateRequest
	if !bindJSON(c, &req) {
		return
	}
	rental, err := h.inquiry.ParseEstimate(&req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	q, err := h.inquiry.Quote(c.Request.Context(), rental)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	p := q.Pricing
	resp := estimateResp{
		Success:        true,
		Days:           p.Days,
		DailyRate:      money(p.DailyRate),
		RentalCost:     money(p.RentalCost),
		DeliveryCost:   money(p.DeliveryCost),
		DeliveryStatus: string(q.DeliveryStatus),
		Subtotal:       money(p.Subtotal),
		TaxRate:        p.TaxRate.InexactFloat64(),
		Tax:            money(p.Tax),
		Total:          money(p.Total),
	}
	if q.Distance != nil {
		miles := q.Distance.RoadMiles
		resp.DistanceMiles = &miles
	}
	writeJSON(c, http.StatusOK, resp)
}
