package server

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/elskow/notekeep/internal/auth"
	"github.com/elskow/notekeep/internal/config"
	"github.com/elskow/notekeep/internal/notes"
)

type Server struct {
	config       *config.AppConfig
	log          *zap.Logger
	app          *fiber.App
	authHandler  *auth.Handler
	notesHandler *notes.Handler
}

type Params struct {
	fx.In

	Config         *config.AppConfig
	Logger         *zap.Logger
	AuthHandler    *auth.Handler
	NotesHandler   *notes.Handler
	AuthMiddleware *auth.Middleware
	RateLimiter    *RateLimiter
}

func NewServer(p Params) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "notekeep",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(p.Logger),
	})

	app.Use(recover.New())
	app.Use(RequestLogger(p.Logger))
	app.Use(p.RateLimiter.Handler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: p.Config.CORS.AllowOrigins,
		AllowHeaders: p.Config.CORS.AllowHeaders,
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Hi there"})
	})

	auth.RegisterRoutes(app, p.AuthHandler, p.AuthMiddleware)
	notes.RegisterRoutes(app, p.NotesHandler, p.AuthMiddleware)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	})

	return &Server{
		config:       p.Config,
		log:          p.Logger,
		app:          app,
		authHandler:  p.AuthHandler,
		notesHandler: p.NotesHandler,
	}
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		if code == fiber.StatusInternalServerError {
			log.Error("unhandled error", zap.Error(err))
		}

		return c.Status(code).JSON(fiber.Map{"error": err.Error()})
	}
}

func NewRedisClient(config *config.AppConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.Server.Host, s.config.Server.Port)

	s.log.Info("Starting HTTP server",
		zap.String("address", addr),
		zap.Object("config", serverConfigToField(s.config)),
	)

	if err := s.app.Listen(addr); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}

	return nil
}

func serverConfigToField(config *config.AppConfig) zapcore.ObjectMarshaler {
	return zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
		enc.AddString("environment", os.Getenv("APP_ENV"))
		enc.AddBool("rate_limit_enabled", config.RateLimit.Enabled)
		enc.AddInt("rate_limit_max", config.RateLimit.MaxRequests)
		enc.AddString("cors_origins", config.CORS.AllowOrigins)
		return nil
	})
}

func (s *Server) Stop() {
	s.log.Info("shutting down HTTP server")
	if err := s.app.Shutdown(); err != nil {
		s.log.Error("error during shutdown", zap.Error(err))
	}
}
