package domain

import (
	"context"
	"errors"
)

type NotifyRequest struct {
	CustomerID int64
	Type       string
	Title      string
	Message    string
}

// Service persists per-customer notification records and optionally
// mirrors them over email. Failures are logged by the implementation and
// never escalate to the transition that triggered the notification.
type Service interface {
	Notify(ctx context.Context, req NotifyRequest)
	ListForCustomer(ctx context.Context, customerID int64, limit, offset int) ([]Notification, error)
	MarkRead(ctx context.Context, customerID, id int64) error
}

var (
	ErrInvalidCustomer = errors.New("invalid_customer")
	ErrNotFound        = errors.New("not_found")
)
