package payment

import (
	"github.com/veloship/veloship/internal/payment/repository"
	"github.com/veloship/veloship/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
