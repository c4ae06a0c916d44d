package shipment

import (
	"github.com/veloship/veloship/internal/shipment/repository"
	"github.com/veloship/veloship/internal/shipment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("shipment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
