package mail

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/elskow/notekeep/internal/config"
)

func Module() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(config *config.AppConfig, log *zap.Logger) (Sender, error) {
					if config.Mail.APIKey == "" {
						log.Warn("no mail API key configured, outgoing email disabled")
						return NoopSender{}, nil
					}
					return NewResendSender(&config.Mail)
				},
			),
		),
	)
}
