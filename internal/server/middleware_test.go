package server

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/elskow/notekeep/internal/config"
)

func newTestLimiter(t *testing.T, cfg *config.RateLimitConfig) (*RateLimiter, *miniredis.Miniredis) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	return NewRateLimiter(client, cfg, zap.NewNop()), srv
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop()))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
		require.NoError(t, err)
		resp.Body.Close()

		id := resp.Header.Get("X-Request-Id")
		assert.NotEmpty(t, id)
		assert.False(t, seen[id], "request ids must not repeat")
		seen[id] = true
	}
}

func TestRateLimiter_EnforcesWindow(t *testing.T) {
	limiter, srv := newTestLimiter(t, &config.RateLimitConfig{
		Enabled:     true,
		Window:      time.Minute,
		MaxRequests: 3,
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "ratelimit:10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := limiter.Allow(ctx, "ratelimit:10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed, "fourth hit in the window must be rejected")

	// Another client is unaffected.
	allowed, err = limiter.Allow(ctx, "ratelimit:10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed)

	srv.FastForward(time.Minute + time.Second)

	allowed, err = limiter.Allow(ctx, "ratelimit:10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed, "a fresh window opens once the old one expires")
}

func TestRateLimiter_SteadyTrafficUnderLimit(t *testing.T) {
	limiter, srv := newTestLimiter(t, &config.RateLimitConfig{
		Enabled:     true,
		Window:      time.Minute,
		MaxRequests: 4,
	})

	// Two hits every half minute stays at half the limit. The counter must
	// not survive its window just because the client keeps showing up.
	ctx := context.Background()
	for window := 0; window < 3; window++ {
		for _, gap := range []time.Duration{30 * time.Second, 31 * time.Second} {
			for i := 0; i < 2; i++ {
				allowed, err := limiter.Allow(ctx, "ratelimit:10.0.0.1")
				require.NoError(t, err)
				assert.True(t, allowed, "under-limit client blocked in window %d", window)
			}
			srv.FastForward(gap)
		}
	}
}

func TestRateLimiter_HandlerRejectsOverLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, &config.RateLimitConfig{
		Enabled:     true,
		Window:      time.Minute,
		MaxRequests: 1,
	})

	app := fiber.New()
	app.Use(limiter.Handler())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestRateLimiter_DisabledPassesThrough(t *testing.T) {
	limiter := NewRateLimiter(nil, &config.RateLimitConfig{Enabled: false}, zap.NewNop())

	app := fiber.New()
	app.Use(limiter.Handler())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
