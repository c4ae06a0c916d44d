package repository

import (
	"context"
	"time"

	"github.com/veloship/veloship/internal/shipment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, shipment *domain.Shipment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO shipments (
			id, tracking_number, booking_id, customer_id, status, carrier_name,
			vessel_name, container_number, departure_port, arrival_port,
			current_location, departure_date, estimated_arrival, metadata,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		shipment.ID,
		shipment.TrackingNumber,
		shipment.BookingID,
		shipment.CustomerID,
		shipment.Status,
		shipment.CarrierName,
		shipment.VesselName,
		shipment.ContainerNumber,
		shipment.DeparturePort,
		shipment.ArrivalPort,
		shipment.CurrentLocation,
		shipment.DepartureDate,
		shipment.EstimatedArrival,
		shipment.Metadata,
		shipment.CreatedAt,
		shipment.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Shipment, error) {
	var shipment domain.Shipment
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM shipments WHERE id = ?`,
		id,
	).Scan(&shipment).Error
	if err != nil {
		return nil, err
	}
	if shipment.ID == 0 {
		return nil, nil
	}
	return &shipment, nil
}

func (r *repo) FindByTrackingNumber(ctx context.Context, db *gorm.DB, trackingNumber string) (*domain.Shipment, error) {
	var shipment domain.Shipment
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM shipments WHERE tracking_number = ?`,
		trackingNumber,
	).Scan(&shipment).Error
	if err != nil {
		return nil, err
	}
	if shipment.ID == 0 {
		return nil, nil
	}
	return &shipment, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.Shipment, error) {
	var shipments []*domain.Shipment
	stmt := db.WithContext(ctx).Model(&domain.Shipment{})

	if filter.BookingID != 0 {
		stmt = stmt.Where("booking_id = ?", filter.BookingID)
	}
	if filter.CustomerID != 0 {
		stmt = stmt.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 250 {
		limit = 50
	}
	err := stmt.
		Order("created_at desc, id desc").
		Limit(limit).
		Offset(filter.Offset).
		Find(&shipments).Error
	if err != nil {
		return nil, err
	}
	return shipments, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id int64, status string, updatedAt time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE shipments SET status = ?, updated_at = ? WHERE id = ?`,
		status, updatedAt, id,
	)
	return result.RowsAffected, result.Error
}

func (r *repo) UpdateDelivered(ctx context.Context, db *gorm.DB, id int64, arrivedAt time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE shipments SET status = ?, actual_arrival = ?, updated_at = ? WHERE id = ?`,
		domain.StatusDelivered, arrivedAt, arrivedAt, id,
	)
	return result.RowsAffected, result.Error
}

func (r *repo) UpdateLocation(ctx context.Context, db *gorm.DB, id int64, location string, updatedAt time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE shipments SET current_location = ?, updated_at = ? WHERE id = ?`,
		location, updatedAt, id,
	)
	return result.RowsAffected, result.Error
}
