package app

import (
	"context"
	"os"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/elskow/notekeep/internal/auth"
	"github.com/elskow/notekeep/internal/config"
	"github.com/elskow/notekeep/internal/database"
	"github.com/elskow/notekeep/internal/mail"
	"github.com/elskow/notekeep/internal/migration"
	"github.com/elskow/notekeep/internal/notes"
	"github.com/elskow/notekeep/internal/server"
)

// Module combines all application modules
func Module() fx.Option {
	return fx.Options(
		// Logger
		fx.Provide(newLogger),

		// Configuration
		fx.Provide(server.LoadConfig),

		// Database + migrations
		database.Module(),
		migration.Module(),

		// Outgoing email
		mail.Module(),

		// Feature modules
		auth.NewModule(),
		notes.NewModule(),

		// Rate limiting
		fx.Provide(
			server.NewRedisClient,
			func(client *redis.Client, config *config.AppConfig, log *zap.Logger) *server.RateLimiter {
				return server.NewRateLimiter(client, &config.RateLimit, log)
			},
		),

		// Server
		fx.Provide(server.NewServer),

		// Start the server
		fx.Invoke(registerHooks),
	)
}

func newLogger() (*zap.Logger, error) {
	env := os.Getenv("APP_ENV")
	return server.NewLogger(env)
}

func registerHooks(
	lifecycle fx.Lifecycle,
	srv *server.Server,
	log *zap.Logger,
) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil {
					log.Error("failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server...")
			srv.Stop()
			return nil
		},
	})
}
