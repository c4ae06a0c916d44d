package domain

import (
	"context"
	"errors"
)

type CreateCustomerRequest struct {
	FullName string
	Email    string
	Phone    string
	Country  string
}

type Service interface {
	Create(ctx context.Context, req CreateCustomerRequest) (Customer, error)
	GetByID(ctx context.Context, id int64) (Customer, error)

	// DisplayName resolves a customer's name for event payloads. It
	// returns "Unknown" instead of failing so dispatch never blocks on
	// identity lookup.
	DisplayName(ctx context.Context, id int64) string
}

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidEmail = errors.New("invalid_email")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
	ErrEmailTaken   = errors.New("email_taken")
)
