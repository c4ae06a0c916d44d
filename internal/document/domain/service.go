package domain

import (
	"context"
	"errors"
	"time"

	"github.com/veloship/veloship/internal/actor"
)

type CreateDocumentRequest struct {
	BookingID    int64
	DocumentType string
	FileName     string
	FilePath     string
	ExpiryDate   *time.Time
}

type ApproveDocumentRequest struct {
	ID    int64
	Actor actor.Actor
}

type RejectDocumentRequest struct {
	ID     int64
	Reason string
	Actor  actor.Actor
}

type ListDocumentRequest struct {
	BookingID  int64
	CustomerID int64
	Status     string
	Limit      int
	Offset     int
}

type Service interface {
	Create(ctx context.Context, req CreateDocumentRequest) (Document, error)
	GetByID(ctx context.Context, id int64) (Document, error)
	List(ctx context.Context, req ListDocumentRequest) ([]Document, error)

	// Approve stamps the verifier and clears any earlier rejection.
	Approve(ctx context.Context, req ApproveDocumentRequest) (Document, error)
	Reject(ctx context.Context, req RejectDocumentRequest) (Document, error)
	Expire(ctx context.Context, id int64) (Document, error)
}

var (
	ErrNotFound       = errors.New("not_found")
	ErrInvalidBooking = errors.New("invalid_booking")
	ErrInvalidType    = errors.New("invalid_document_type")
	ErrInvalidFile    = errors.New("invalid_file")
)
