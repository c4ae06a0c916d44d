package domain

import (
	"context"
	"errors"
	"time"

	"github.com/veloship/veloship/internal/actor"
)

type CreateBookingRequest struct {
	CustomerID         int64
	QuoteID            *int64
	VehicleDescription string
	PickupLocation     string
	DeliveryLocation   string
	TotalAmount        float64
	Currency           string
	PickupDate         *time.Time
	DeliveryDate       *time.Time
	EstimatedDelivery  *time.Time
}

type UpdateStatusRequest struct {
	ID     int64
	Status string
	Reason string
	Actor  actor.Actor
}

type ListBookingRequest struct {
	CustomerID int64
	Status     string
	Limit      int
	Offset     int
}

type Service interface {
	Create(ctx context.Context, req CreateBookingRequest) (Booking, error)
	GetByID(ctx context.Context, id int64) (Booking, error)
	List(ctx context.Context, req ListBookingRequest) ([]Booking, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (Booking, error)
}

var (
	ErrNotFound        = errors.New("not_found")
	ErrInvalidCustomer = errors.New("invalid_customer")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrInvalidStatus   = errors.New("invalid_status")
)
