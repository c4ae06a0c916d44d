package repository

import (
	"context"
	"time"

	"github.com/veloship/veloship/internal/notification/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, n *domain.Notification) error
	ListForCustomer(ctx context.Context, db *gorm.DB, customerID int64, limit, offset int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, db *gorm.DB, customerID, id int64, readAt time.Time) (int64, error)
}

type repo struct{}

func Provide() Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, n *domain.Notification) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO notifications (id, customer_id, type, title, message, read_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID,
		n.CustomerID,
		n.Type,
		n.Title,
		n.Message,
		n.ReadAt,
		n.CreatedAt,
	).Error
}

func (r *repo) ListForCustomer(ctx context.Context, db *gorm.DB, customerID int64, limit, offset int) ([]*domain.Notification, error) {
	var items []*domain.Notification
	if limit <= 0 || limit > 250 {
		limit = 50
	}
	err := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("customer_id = ?", customerID).
		Order("created_at desc, id desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) MarkRead(ctx context.Context, db *gorm.DB, customerID, id int64, readAt time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE notifications SET read_at = ? WHERE id = ? AND customer_id = ? AND read_at IS NULL`,
		readAt, id, customerID,
	)
	return result.RowsAffected, result.Error
}
