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
	Insert(ctx context.Context, db *gorm.DB, booking *Booking) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Booking, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Booking, error)

	// UpdateStatus writes the new status and updated_at in one atomic
	// single-row update and reports the number of rows touched.
	UpdateStatus(ctx context.Context, db *gorm.DB, id int64, status string, updatedAt time.Time) (int64, error)
}
