package document

import (
	"github.com/veloship/veloship/internal/document/repository"
	"github.com/veloship/veloship/internal/document/service"
	"go.uber.org/fx"
)

var Module = fx.Module("document.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
