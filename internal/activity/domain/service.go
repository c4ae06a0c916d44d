package domain

import (
	"context"
	"errors"

	"github.com/veloship/veloship/internal/actor"
)

type ListActivityRequest struct {
	EntityKind string
	EntityID   int64
	Action     string
	Limit      int
	Offset     int
}

// Service records and lists entity activity. Recording is best effort at
// call sites: a failed activity write never fails the transition that
// produced it.
type Service interface {
	Record(ctx context.Context, action, entityKind string, entityID int64, by actor.Actor, metadata map[string]any) error
	List(ctx context.Context, req ListActivityRequest) ([]ActivityLog, error)
}

var ErrInvalidAction = errors.New("invalid_action")
