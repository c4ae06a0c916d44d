package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ActionCreated         = "created"
	ActionStatusChanged   = "status_changed"
	ActionLocationChanged = "location_changed"
)

type ActivityLog struct {
	ID         int64             `gorm:"primaryKey" json:"id"`
	Action     string            `gorm:"not null;index" json:"action"`
	EntityKind string            `gorm:"not null;index" json:"entity_kind"`
	EntityID   int64             `gorm:"not null;index" json:"entity_id"`
	ActorKind  string            `json:"actor_kind,omitempty"`
	ActorID    *int64            `json:"actor_id,omitempty"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;index" json:"created_at"`
}
