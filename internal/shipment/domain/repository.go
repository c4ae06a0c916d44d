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
	Insert(ctx context.Context, db *gorm.DB, shipment *Shipment) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Shipment, error)
	FindByTrackingNumber(ctx context.Context, db *gorm.DB, trackingNumber string) (*Shipment, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Shipment, error)

	UpdateStatus(ctx context.Context, db *gorm.DB, id int64, status string, updatedAt time.Time) (int64, error)
	UpdateDelivered(ctx context.Context, db *gorm.DB, id int64, arrivedAt time.Time) (int64, error)
	UpdateLocation(ctx context.Context, db *gorm.DB, id int64, location string, updatedAt time.Time) (int64, error)
}
