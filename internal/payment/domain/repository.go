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
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Payment, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Payment, error)

	UpdateStatus(ctx context.Context, db *gorm.DB, id int64, status string, updatedAt time.Time) (int64, error)
	UpdateCompleted(ctx context.Context, db *gorm.DB, id int64, transactionID string, paidAt time.Time) (int64, error)
	UpdateFailed(ctx context.Context, db *gorm.DB, id int64, reason string, updatedAt time.Time) (int64, error)
	UpdateRefunded(ctx context.Context, db *gorm.DB, id int64, amount float64, reason string, updatedAt time.Time) (int64, error)
}
