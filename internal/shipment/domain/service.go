package domain

import (
	"context"
	"errors"
	"time"

	"github.com/veloship/veloship/internal/actor"
)

type CreateShipmentRequest struct {
	BookingID        int64
	CarrierName      string
	VesselName       string
	ContainerNumber  string
	DeparturePort    string
	ArrivalPort      string
	CurrentLocation  string
	DepartureDate    *time.Time
	EstimatedArrival *time.Time
}

type UpdateStatusRequest struct {
	ID     int64
	Status string
	Reason string
	Actor  actor.Actor
}

type UpdateLocationRequest struct {
	ID       int64
	Location string
	Actor    actor.Actor
}

type ListShipmentRequest struct {
	BookingID  int64
	CustomerID int64
	Status     string
	Limit      int
	Offset     int
}

type Service interface {
	Create(ctx context.Context, req CreateShipmentRequest) (Shipment, error)
	GetByID(ctx context.Context, id int64) (Shipment, error)

	// GetByTrackingNumber backs the public tracking lookup.
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (Shipment, error)
	List(ctx context.Context, req ListShipmentRequest) ([]Shipment, error)

	// UpdateStatus applies one validated transition. Reaching delivered
	// stamps the actual arrival and moves the parent booking along too.
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (Shipment, error)

	// UpdateLocation records a position change without touching status.
	UpdateLocation(ctx context.Context, req UpdateLocationRequest) (Shipment, error)
}

var (
	ErrNotFound        = errors.New("not_found")
	ErrInvalidBooking  = errors.New("invalid_booking")
	ErrInvalidLocation = errors.New("invalid_location")
)
