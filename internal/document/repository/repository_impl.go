package repository

import (
	"context"
	"time"

	"github.com/veloship/veloship/internal/document/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, document *domain.Document) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO documents (
			id, booking_id, customer_id, document_type, file_name, file_path,
			status, expiry_date, metadata, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		document.ID,
		document.BookingID,
		document.CustomerID,
		document.DocumentType,
		document.FileName,
		document.FilePath,
		document.Status,
		document.ExpiryDate,
		document.Metadata,
		document.CreatedAt,
		document.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Document, error) {
	var document domain.Document
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM documents WHERE id = ?`,
		id,
	).Scan(&document).Error
	if err != nil {
		return nil, err
	}
	if document.ID == 0 {
		return nil, nil
	}
	return &document, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.Document, error) {
	var documents []*domain.Document
	stmt := db.WithContext(ctx).Model(&domain.Document{})

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
		Find(&documents).Error
	if err != nil {
		return nil, err
	}
	return documents, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id int64, status string, updatedAt time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE documents SET status = ?, updated_at = ? WHERE id = ?`,
		status, updatedAt, id,
	)
	return result.RowsAffected, result.Error
}

func (r *repo) UpdateApproved(ctx context.Context, db *gorm.DB, id, verifiedBy int64, verifiedAt time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE documents SET status = ?, verified_by = ?, verified_at = ?, rejection_reason = '', updated_at = ? WHERE id = ?`,
		domain.StatusApproved, verifiedBy, verifiedAt, verifiedAt, id,
	)
	return result.RowsAffected, result.Error
}

func (r *repo) UpdateRejected(ctx context.Context, db *gorm.DB, id int64, reason string, updatedAt time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE documents SET status = ?, rejection_reason = ?, updated_at = ? WHERE id = ?`,
		domain.StatusRejected, reason, updatedAt, id,
	)
	return result.RowsAffected, result.Error
}
