package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/veloship/veloship/internal/activity/domain"
	"github.com/veloship/veloship/internal/activity/repository"
	"github.com/veloship/veloship/internal/actor"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  repository.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  repository.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("activity.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Record(ctx context.Context, action, entityKind string, entityID int64, by actor.Actor, metadata map[string]any) error {
	if strings.TrimSpace(action) == "" {
		return domain.ErrInvalidAction
	}

	entry := domain.ActivityLog{
		ID:         s.genID.Generate().Int64(),
		Action:     action,
		EntityKind: entityKind,
		EntityID:   entityID,
		Metadata:   datatypes.JSONMap(metadata),
		CreatedAt:  time.Now().UTC(),
	}
	if !by.IsSystem() {
		entry.ActorKind = string(by.Kind)
		actorID := by.ID
		entry.ActorID = &actorID
	} else {
		entry.ActorKind = string(actor.KindSystem)
	}

	if err := s.repo.Insert(ctx, s.db, &entry); err != nil {
		s.log.Warn("activity record failed",
			zap.String("action", action),
			zap.String("entity_kind", entityKind),
			zap.Int64("entity_id", entityID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, req domain.ListActivityRequest) ([]domain.ActivityLog, error) {
	items, err := s.repo.List(ctx, s.db, req)
	if err != nil {
		return nil, err
	}
	logs := make([]domain.ActivityLog, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		logs = append(logs, *item)
	}
	return logs, nil
}
