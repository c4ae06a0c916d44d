package quote

import (
	"github.com/veloship/veloship/internal/quote/repository"
	"github.com/veloship/veloship/internal/quote/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quote.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
