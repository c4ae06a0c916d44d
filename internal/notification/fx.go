package notification

import (
	"github.com/veloship/veloship/internal/notification/repository"
	"github.com/veloship/veloship/internal/notification/service"
	"go.uber.org/fx"
)

var Module = fx.Module("notification.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
