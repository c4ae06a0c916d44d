package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	quotedomain "github.com/veloship/veloship/internal/quote/domain"
)

type createQuoteRequest struct {
	CustomerID         int64   `json:"customer_id"`
	VehicleDescription string  `json:"vehicle_description"`
	PickupLocation     string  `json:"pickup_location"`
	DeliveryLocation   string  `json:"delivery_location"`
	TotalAmount        float64 `json:"total_amount"`
	Currency           string  `json:"currency"`
	ValidUntil         string  `json:"valid_until"`
}

func (s *Server) CreateQuote(c *gin.Context) {
	var req createQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	validUntil, err := parseOptionalTime(req.ValidUntil)
	if err != nil {
		AbortWithError(c, newValidationError("valid_until", "invalid_valid_until", "invalid valid_until"))
		return
	}

	resp, err := s.quoteSvc.Create(c.Request.Context(), quotedomain.CreateQuoteRequest{
		CustomerID:         req.CustomerID,
		VehicleDescription: req.VehicleDescription,
		PickupLocation:     req.PickupLocation,
		DeliveryLocation:   req.DeliveryLocation,
		TotalAmount:        req.TotalAmount,
		Currency:           req.Currency,
		ValidUntil:         validUntil,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListQuotes(c *gin.Context) {
	resp, err := s.quoteSvc.List(c.Request.Context(), quotedomain.ListQuoteRequest{
		CustomerID: queryInt64(c, "customer_id"),
		Status:     strings.TrimSpace(c.Query("status")),
		Limit:      queryInt(c, "limit"),
		Offset:     queryInt(c, "offset"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetQuoteByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.quoteSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type approveQuoteRequest struct {
	Notes string `json:"notes"`
	actorFields
}

func (s *Server) ApproveQuote(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req approveQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quoteSvc.Approve(c.Request.Context(), quotedomain.ApproveQuoteRequest{
		ID:    id,
		Notes: req.Notes,
		Actor: req.actor(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type rejectQuoteRequest struct {
	Reason string `json:"reason"`
	actorFields
}

func (s *Server) RejectQuote(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req rejectQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quoteSvc.Reject(c.Request.Context(), quotedomain.RejectQuoteRequest{
		ID:     id,
		Reason: req.Reason,
		Actor:  req.actor(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type convertQuoteRequest struct {
	actorFields
}

func (s *Server) ConvertQuote(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req convertQuoteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	quote, booking, err := s.quoteSvc.Convert(c.Request.Context(), quotedomain.ConvertQuoteRequest{
		ID:    id,
		Actor: req.actor(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"quote":   quote,
		"booking": booking,
	}})
}
