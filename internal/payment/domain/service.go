package domain

import (
	"context"
	"errors"

	"github.com/veloship/veloship/internal/actor"
)

type CreatePaymentRequest struct {
	BookingID     int64
	Amount        float64
	Currency      string
	PaymentMethod string
	Gateway       string
}

type CompletePaymentRequest struct {
	ID            int64
	TransactionID string
	Actor         actor.Actor
}

type FailPaymentRequest struct {
	ID     int64
	Reason string
	Actor  actor.Actor
}

// RefundPaymentRequest refunds a completed payment. A zero Amount means
// a full refund.
type RefundPaymentRequest struct {
	ID     int64
	Amount float64
	Reason string
	Actor  actor.Actor
}

type CancelPaymentRequest struct {
	ID    int64
	Actor actor.Actor
}

type ListPaymentRequest struct {
	BookingID  int64
	CustomerID int64
	Status     string
	Limit      int
	Offset     int
}

type Service interface {
	Create(ctx context.Context, req CreatePaymentRequest) (Payment, error)
	GetByID(ctx context.Context, id int64) (Payment, error)
	List(ctx context.Context, req ListPaymentRequest) ([]Payment, error)

	Complete(ctx context.Context, req CompletePaymentRequest) (Payment, error)
	Fail(ctx context.Context, req FailPaymentRequest) (Payment, error)
	Refund(ctx context.Context, req RefundPaymentRequest) (Payment, error)
	Cancel(ctx context.Context, req CancelPaymentRequest) (Payment, error)
}

var (
	ErrNotFound       = errors.New("not_found")
	ErrInvalidBooking = errors.New("invalid_booking")
	ErrInvalidAmount  = errors.New("invalid_amount")
	ErrRefundTooLarge = errors.New("refund_exceeds_amount")
)
