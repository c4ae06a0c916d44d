package customer

import (
	"github.com/veloship/veloship/internal/customer/repository"
	"github.com/veloship/veloship/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
