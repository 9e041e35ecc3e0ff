package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/elskow/notekeep/internal/config"
	"github.com/elskow/notekeep/internal/mail"
)

func newTestLogger(t *testing.T) *zap.Logger {
	logger, err := zap.NewDevelopment()
	assert.NoError(t, err)
	return logger
}

func newTestConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:              "test-secret-key",
		AccessTokenDuration:    time.Hour,
		ResetTokenDuration:     30 * time.Minute,
		RefreshTokenMonths:     1,
		SessionTokenLength:     64,
		AccountTokenLength:     7,
		AccountTokenMaxRetries: 10,
	}
}

func newTestService(t *testing.T) (*Service, *mockRepository) {
	repo := newMockRepository()
	return newTestServiceWithRepo(t, repo), repo
}

func newTestServiceWithRepo(t *testing.T, repo Repository) *Service {
	return NewService(
		newTestConfig(),
		newTestLogger(t),
		repo,
		mail.NoopSender{},
	)
}

func testSignupInput() SignupInput {
	return SignupInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "ada",
		Email:     "ada@example.com",
		Password:  "correcthorse",
		IPAddress: "127.0.0.1",
	}
}

func testMeta() ClientMeta {
	return ClientMeta{
		UserAgent: "Linux Firefox",
		IPAddress: "127.0.0.1",
	}
}
