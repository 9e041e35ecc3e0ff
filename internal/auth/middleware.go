package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/elskow/notekeep/internal/config"
)

const claimsLocalKey = "claims"

type Middleware struct {
	config *config.AuthConfig
}

func NewMiddleware(config *config.AuthConfig) *Middleware {
	return &Middleware{
		config: config,
	}
}

// RequireAuth rejects requests without a valid Bearer access token and
// stashes the verified claims for downstream handlers.
func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "INVALID_TOKEN"})
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims, err := validateToken(tokenString, m.config.JWTSecret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "INVALID_TOKEN"})
		}

		c.Locals(claimsLocalKey, claims)

		return c.Next()
	}
}

// ClaimsFromContext returns the claims stored by RequireAuth.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, error) {
	claims, ok := c.Locals(claimsLocalKey).(*Claims)
	if !ok {
		return nil, errors.New("claims not found in context")
	}
	return claims, nil
}
