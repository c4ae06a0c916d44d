package activity

import (
	"github.com/veloship/veloship/internal/activity/repository"
	"github.com/veloship/veloship/internal/activity/service"
	"go.uber.org/fx"
)

var Module = fx.Module("activity.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
