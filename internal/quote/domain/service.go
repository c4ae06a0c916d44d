package domain

import (
	"context"
	"errors"
	"time"

	"github.com/veloship/veloship/internal/actor"
	bookingdomain "github.com/veloship/veloship/internal/booking/domain"
)

type CreateQuoteRequest struct {
	CustomerID         int64
	VehicleDescription string
	PickupLocation     string
	DeliveryLocation   string
	TotalAmount        float64
	Currency           string
	ValidUntil         *time.Time
}

type ApproveQuoteRequest struct {
	ID    int64
	Notes string
	Actor actor.Actor
}

type RejectQuoteRequest struct {
	ID     int64
	Reason string
	Actor  actor.Actor
}

type ConvertQuoteRequest struct {
	ID    int64
	Actor actor.Actor
}

type ListQuoteRequest struct {
	CustomerID int64
	Status     string
	Limit      int
	Offset     int
}

type Service interface {
	Create(ctx context.Context, req CreateQuoteRequest) (Quote, error)
	GetByID(ctx context.Context, id int64) (Quote, error)
	List(ctx context.Context, req ListQuoteRequest) ([]Quote, error)

	Approve(ctx context.Context, req ApproveQuoteRequest) (Quote, error)
	Reject(ctx context.Context, req RejectQuoteRequest) (Quote, error)

	// Convert marks an approved quote converted and creates the booking
	// it turns into; both changes are dispatched.
	Convert(ctx context.Context, req ConvertQuoteRequest) (Quote, bookingdomain.Booking, error)

	// Expire moves an overdue quote to expired (system triggered).
	Expire(ctx context.Context, id int64) (Quote, error)
}

var (
	ErrNotFound        = errors.New("not_found")
	ErrInvalidCustomer = errors.New("invalid_customer")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrQuoteExpired    = errors.New("quote_expired")
)
