package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	bookingdomain "github.com/veloship/veloship/internal/booking/domain"
)

type createBookingRequest struct {
	CustomerID         int64   `json:"customer_id"`
	QuoteID            *int64  `json:"quote_id"`
	VehicleDescription string  `json:"vehicle_description"`
	PickupLocation     string  `json:"pickup_location"`
	DeliveryLocation   string  `json:"delivery_location"`
	TotalAmount        float64 `json:"total_amount"`
	Currency           string  `json:"currency"`
	PickupDate         string  `json:"pickup_date"`
	DeliveryDate       string  `json:"delivery_date"`
	EstimatedDelivery  string  `json:"estimated_delivery"`
}

func (s *Server) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	pickupDate, err := parseOptionalTime(req.PickupDate)
	if err != nil {
		AbortWithError(c, newValidationError("pickup_date", "invalid_pickup_date", "invalid pickup_date"))
		return
	}
	deliveryDate, err := parseOptionalTime(req.DeliveryDate)
	if err != nil {
		AbortWithError(c, newValidationError("delivery_date", "invalid_delivery_date", "invalid delivery_date"))
		return
	}
	estimatedDelivery, err := parseOptionalTime(req.EstimatedDelivery)
	if err != nil {
		AbortWithError(c, newValidationError("estimated_delivery", "invalid_estimated_delivery", "invalid estimated_delivery"))
		return
	}

	resp, err := s.bookingSvc.Create(c.Request.Context(), bookingdomain.CreateBookingRequest{
		CustomerID:         req.CustomerID,
		QuoteID:            req.QuoteID,
		VehicleDescription: req.VehicleDescription,
		PickupLocation:     req.PickupLocation,
		DeliveryLocation:   req.DeliveryLocation,
		TotalAmount:        req.TotalAmount,
		Currency:           req.Currency,
		PickupDate:         pickupDate,
		DeliveryDate:       deliveryDate,
		EstimatedDelivery:  estimatedDelivery,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBookings(c *gin.Context) {
	resp, err := s.bookingSvc.List(c.Request.Context(), bookingdomain.ListBookingRequest{
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

func (s *Server) GetBookingByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.bookingSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateBookingStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
	actorFields
}

func (s *Server) UpdateBookingStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.bookingSvc.UpdateStatus(c.Request.Context(), bookingdomain.UpdateStatusRequest{
		ID:     id,
		Status: req.Status,
		Reason: req.Reason,
		Actor:  req.actor(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
