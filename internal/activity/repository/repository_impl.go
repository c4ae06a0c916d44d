package repository

import (
	"context"
	"strings"

	"github.com/veloship/veloship/internal/activity/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *domain.ActivityLog) error
	List(ctx context.Context, db *gorm.DB, req domain.ListActivityRequest) ([]*domain.ActivityLog, error)
}

type repo struct{}

func Provide() Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.ActivityLog) error {
	if entry == nil {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`INSERT INTO activity_logs (id, action, entity_kind, entity_id, actor_kind, actor_id, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Action,
		entry.EntityKind,
		entry.EntityID,
		entry.ActorKind,
		entry.ActorID,
		entry.Metadata,
		entry.CreatedAt,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, req domain.ListActivityRequest) ([]*domain.ActivityLog, error) {
	var logs []*domain.ActivityLog
	stmt := db.WithContext(ctx).Model(&domain.ActivityLog{})

	if kind := strings.TrimSpace(req.EntityKind); kind != "" {
		stmt = stmt.Where("entity_kind = ?", kind)
	}
	if req.EntityID != 0 {
		stmt = stmt.Where("entity_id = ?", req.EntityID)
	}
	if action := strings.TrimSpace(req.Action); action != "" {
		stmt = stmt.Where("action = ?", action)
	}

	limit := req.Limit
	if limit <= 0 || limit > 250 {
		limit = 50
	}
	stmt = stmt.Order("created_at desc, id desc").Limit(limit).Offset(req.Offset)

	if err := stmt.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
