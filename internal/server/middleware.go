package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/elskow/notekeep/internal/config"
)

const rateLimitMessage = "Hmm, you seem to be doing that a bit too much - wouldn't you say?"

// RequestLogger tags each request with an id and logs it on completion.
func RequestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := uuid.NewString()
		c.Locals("request_id", requestID)
		c.Set("X-Request-Id", requestID)

		err := c.Next()

		log.Info("request completed",
			zap.String("request_id", requestID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.String("ip", c.IP()),
			zap.Duration("latency", time.Since(start)))

		return err
	}
}

// RateLimiter is a fixed-window per-IP limiter backed by Redis, so the limit
// holds across replicas. If Redis is unreachable the request is let through.
type RateLimiter struct {
	client *redis.Client
	config *config.RateLimitConfig
	log    *zap.Logger
}

func NewRateLimiter(client *redis.Client, config *config.RateLimitConfig, log *zap.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
		log:    log,
	}
}

// Allow counts one hit against key. The expiry is set only when the counter
// is first created, so the window closes on schedule regardless of how often
// the client keeps hitting it.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := rl.client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}

	if count == 1 {
		if err := rl.client.Expire(ctx, key, rl.config.Window).Err(); err != nil {
			return false, err
		}
	}

	return count <= int64(rl.config.MaxRequests), nil
}

func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !rl.config.Enabled {
			return c.Next()
		}

		key := fmt.Sprintf("ratelimit:%s", c.IP())

		allowed, err := rl.Allow(c.UserContext(), key)
		if err != nil {
			rl.log.Warn("rate limiter unavailable, allowing request", zap.Error(err))
			return c.Next()
		}

		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": rateLimitMessage,
			})
		}

		return c.Next()
	}
}
