package repository

import (
	"context"
	"time"

	"github.com/veloship/veloship/internal/payment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payments (
			id, payment_reference, booking_id, customer_id, amount, currency,
			status, payment_method, payment_gateway, metadata, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID,
		payment.PaymentReference,
		payment.BookingID,
		payment.CustomerID,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.PaymentMethod,
		payment.PaymentGateway,
		payment.Metadata,
		payment.CreatedAt,
		payment.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Payment, error) {
	var payment domain.Payment
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM payments WHERE id = ?`,
		id,
	).Scan(&payment).Error
	if err != nil {
		return nil, err
	}
	if payment.ID == 0 {
		return nil, nil
	}
	return &payment, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.Payment, error) {
	var payments []*domain.Payment
	stmt := db.WithContext(ctx).Model(&domain.Payment{})

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
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id int64, status string, updatedAt time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE payments SET status = ?, updated_at = ? WHERE id = ?`,
		status, updatedAt, id,
	)
	return result.RowsAffected, result.Error
}

func (r *repo) UpdateCompleted(ctx context.Context, db *gorm.DB, id int64, transactionID string, paidAt time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE payments SET status = ?, transaction_id = ?, payment_date = ?, updated_at = ? WHERE id = ?`,
		domain.StatusCompleted, transactionID, paidAt, paidAt, id,
	)
	return result.RowsAffected, result.Error
}

func (r *repo) UpdateFailed(ctx context.Context, db *gorm.DB, id int64, reason string, updatedAt time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE payments SET status = ?, failure_reason = ?, updated_at = ? WHERE id = ?`,
		domain.StatusFailed, reason, updatedAt, id,
	)
	return result.RowsAffected, result.Error
}

func (r *repo) UpdateRefunded(ctx context.Context, db *gorm.DB, id int64, amount float64, reason string, updatedAt time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE payments SET status = ?, refund_amount = ?, refund_reason = ?, updated_at = ? WHERE id = ?`,
		domain.StatusRefunded, amount, reason, updatedAt, id,
	)
	return result.RowsAffected, result.Error
}
