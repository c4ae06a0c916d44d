package email

import (
	"github.com/veloship/veloship/internal/config"
	"go.uber.org/fx"
)

func NewFromConfig(cfg config.Config) Provider {
	if !cfg.EmailEnabled {
		return &NoOpProvider{}
	}
	return NewSMTP(Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
}

var Module = fx.Module("providers.email",
	fx.Provide(NewFromConfig),
)
