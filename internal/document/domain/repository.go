package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type ListFilter struct {
	BookingID  int64
	CustomerID int64
	Status     string
	Limit      int
	Offset     int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, document *Document) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Document, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Document, error)

	UpdateStatus(ctx context.Context, db *gorm.DB, id int64, status string, updatedAt time.Time) (int64, error)
	UpdateApproved(ctx context.Context, db *gorm.DB, id, verifiedBy int64, verifiedAt time.Time) (int64, error)
	UpdateRejected(ctx context.Context, db *gorm.DB, id int64, reason string, updatedAt time.Time) (int64, error)
}
