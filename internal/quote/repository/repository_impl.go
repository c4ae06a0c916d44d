package repository

import (
	"context"
	"time"

	"github.com/veloship/veloship/internal/quote/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, quote *domain.Quote) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO quotes (
			id, quote_reference, customer_id, vehicle_description,
			pickup_location, delivery_location, status, total_amount,
			currency, valid_until, notes, metadata, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		quote.ID,
		quote.QuoteReference,
		quote.CustomerID,
		quote.VehicleDescription,
		quote.PickupLocation,
		quote.DeliveryLocation,
		quote.Status,
		quote.TotalAmount,
		quote.Currency,
		quote.ValidUntil,
		quote.Notes,
		quote.Metadata,
		quote.CreatedAt,
		quote.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Quote, error) {
	var quote domain.Quote
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM quotes WHERE id = ?`,
		id,
	).Scan(&quote).Error
	if err != nil {
		return nil, err
	}
	if quote.ID == 0 {
		return nil, nil
	}
	return &quote, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.Quote, error) {
	var quotes []*domain.Quote
	stmt := db.WithContext(ctx).Model(&domain.Quote{})

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
		Find(&quotes).Error
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id int64, status string, updatedAt time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE quotes SET status = ?, updated_at = ? WHERE id = ?`,
		status, updatedAt, id,
	)
	return result.RowsAffected, result.Error
}

func (r *repo) UpdateApproved(ctx context.Context, db *gorm.DB, id, approvedBy int64, notes string, updatedAt time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE quotes SET status = ?, approved_by = ?, approved_at = ?, notes = ?, updated_at = ? WHERE id = ?`,
		domain.StatusApproved, approvedBy, updatedAt, notes, updatedAt, id,
	)
	return result.RowsAffected, result.Error
}

func (r *repo) UpdateRejected(ctx context.Context, db *gorm.DB, id int64, reason string, updatedAt time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE quotes SET status = ?, rejection_reason = ?, updated_at = ? WHERE id = ?`,
		domain.StatusRejected, reason, updatedAt, id,
	)
	return result.RowsAffected, result.Error
}
