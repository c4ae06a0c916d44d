package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type ListFilter struct {
	CustomerID int64
	Status     string
	Limit      int
	Offset     int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, quote *Quote) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Quote, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Quote, error)

	// Each update is a single atomic row write; rows affected reported.
	UpdateStatus(ctx context.Context, db *gorm.DB, id int64, status string, updatedAt time.Time) (int64, error)
	UpdateApproved(ctx context.Context, db *gorm.DB, id, approvedBy int64, notes string, updatedAt time.Time) (int64, error)
	UpdateRejected(ctx context.Context, db *gorm.DB, id int64, reason string, updatedAt time.Time) (int64, error)
}
