package booking

import (
	"github.com/veloship/veloship/internal/booking/repository"
	"github.com/veloship/veloship/internal/booking/service"
	"go.uber.org/fx"
)

var Module = fx.Module("booking.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
