package auth

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/elskow/notekeep/internal/config"
	"github.com/elskow/notekeep/internal/mail"
)

// NewModule returns the auth module options
func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(db *gorm.DB) Repository {
					return NewRepository(db)
				},
			),
			fx.Annotate(
				func(config *config.AppConfig, log *zap.Logger, repo Repository, mailer mail.Sender) *Service {
					return NewService(&config.Auth, log, repo, mailer)
				},
			),
			fx.Annotate(
				func(svc *Service, log *zap.Logger) *Handler {
					return NewHandler(svc, log)
				},
			),
			fx.Annotate(
				func(config *config.AppConfig) *Middleware {
					return NewMiddleware(&config.Auth)
				},
			),
		),
	)
}
