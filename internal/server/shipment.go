package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	shipmentdomain "github.com/veloship/veloship/internal/shipment/domain"
)

type createShipmentRequest struct {
	BookingID        int64  `json:"booking_id"`
	CarrierName      string `json:"carrier_name"`
	VesselName       string `json:"vessel_name"`
	ContainerNumber  string `json:"container_number"`
	DeparturePort    string `json:"departure_port"`
	ArrivalPort      string `json:"arrival_port"`
	CurrentLocation  string `json:"current_location"`
	DepartureDate    string `json:"departure_date"`
	EstimatedArrival string `json:"estimated_arrival"`
}

func (s *Server) CreateShipment(c *gin.Context) {
	var req createShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	departureDate, err := parseOptionalTime(req.DepartureDate)
	if err != nil {
		AbortWithError(c, newValidationError("departure_date", "invalid_departure_date", "invalid departure_date"))
		return
	}
	estimatedArrival, err := parseOptionalTime(req.EstimatedArrival)
	if err != nil {
		AbortWithError(c, newValidationError("estimated_arrival", "invalid_estimated_arrival", "invalid estimated_arrival"))
		return
	}

	resp, err := s.shipmentSvc.Create(c.Request.Context(), shipmentdomain.CreateShipmentRequest{
		BookingID:        req.BookingID,
		CarrierName:      req.CarrierName,
		VesselName:       req.VesselName,
		ContainerNumber:  req.ContainerNumber,
		DeparturePort:    req.DeparturePort,
		ArrivalPort:      req.ArrivalPort,
		CurrentLocation:  req.CurrentLocation,
		DepartureDate:    departureDate,
		EstimatedArrival: estimatedArrival,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListShipments(c *gin.Context) {
	resp, err := s.shipmentSvc.List(c.Request.Context(), shipmentdomain.ListShipmentRequest{
		BookingID:  queryInt64(c, "booking_id"),
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

func (s *Server) GetShipmentByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.shipmentSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateShipmentStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
	actorFields
}

func (s *Server) UpdateShipmentStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateShipmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.shipmentSvc.UpdateStatus(c.Request.Context(), shipmentdomain.UpdateStatusRequest{
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

type updateShipmentLocationRequest struct {
	Location string `json:"location"`
	actorFields
}

func (s *Server) UpdateShipmentLocation(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateShipmentLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.shipmentSvc.UpdateLocation(c.Request.Context(), shipmentdomain.UpdateLocationRequest{
		ID:       id,
		Location: req.Location,
		Actor:    req.actor(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// TrackShipment is the public lookup: no actor, tracking number only.
func (s *Server) TrackShipment(c *gin.Context) {
	number := strings.TrimSpace(c.Param("number"))
	if number == "" {
		AbortWithError(c, invalidRequestError())
		return
	}

	shipment, err := s.shipmentSvc.GetByTrackingNumber(c.Request.Context(), number)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"tracking_number":   shipment.TrackingNumber,
		"status":            shipment.Status,
		"carrier_name":      shipment.CarrierName,
		"vessel_name":       shipment.VesselName,
		"current_location":  shipment.CurrentLocation,
		"departure_port":    shipment.DeparturePort,
		"arrival_port":      shipment.ArrivalPort,
		"estimated_arrival": shipment.EstimatedArrival,
		"actual_arrival":    shipment.ActualArrival,
		"updated_at":        shipment.UpdatedAt,
	}})
}
