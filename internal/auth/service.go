package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/elskow/notekeep/internal/config"
	"github.com/elskow/notekeep/internal/mail"
)

const bcryptCost = 12

// ClientMeta carries request-scoped caller metadata persisted alongside
// refresh tokens.
type ClientMeta struct {
	UserAgent string
	IPAddress string
}

// TokenPair is the result of a successful authentication or refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Service struct {
	config     *config.AuthConfig
	log        *zap.Logger
	repository Repository
	mailer     mail.Sender
	now        func() time.Time
}

func NewService(config *config.AuthConfig, log *zap.Logger, repo Repository, mailer mail.Sender) *Service {
	return &Service{
		config:     config,
		log:        log,
		repository: repo,
		mailer:     mailer,
		now:        time.Now,
	}
}

func (s *Service) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// CheckPasswordHash reports whether password matches hash. A non-match and a
// malformed hash are distinct outcomes: the latter returns an error.
func (s *Service) CheckPasswordHash(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

// Signup creates a user after advisory duplicate checks. The unique
// constraints on username, email and token are the actual guarantee; the
// pre-checks only produce friendlier errors for the common case.
func (s *Service) Signup(input SignupInput) (uint, error) {
	if _, err := s.repository.GetUserByUsername(input.Username); err == nil {
		return 0, ErrDuplicateUsername
	} else if !errors.Is(err, ErrUserNotFound) {
		return 0, fmt.Errorf("%w: %s", ErrInvalidData, err)
	}

	if _, err := s.repository.GetUserByEmail(input.Email); err == nil {
		return 0, ErrDuplicateEmail
	} else if !errors.Is(err, ErrUserNotFound) {
		return 0, fmt.Errorf("%w: %s", ErrInvalidData, err)
	}

	hashed, err := s.HashPassword(input.Password)
	if err != nil {
		return 0, ErrInvalidData
	}

	accountToken, err := s.generateAccountToken()
	if err != nil {
		if errors.Is(err, ErrTokenGeneration) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %s", ErrTokenGeneration, err)
	}

	user := &User{
		Token:     accountToken,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Username:  input.Username,
		Email:     input.Email,
		Password:  hashed,
		IPAddress: input.IPAddress,
	}

	if err := s.repository.CreateUser(user); err != nil {
		s.log.Error("failed to create user", zap.String("username", input.Username), zap.Error(err))
		return 0, ErrInvalidData
	}

	return user.ID, nil
}

// Authenticate verifies credentials and issues a fresh access/refresh pair.
func (s *Service) Authenticate(username, password string, meta ClientMeta) (*TokenPair, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidData
	}

	user, err := s.repository.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, ErrInvalidData
	}

	match, err := s.CheckPasswordHash(password, user.Password)
	if err != nil {
		return nil, ErrInvalidData
	}
	if !match {
		return nil, ErrInvalidCredentials
	}

	user.Password = ""

	pair, err := s.issueTokens(user, meta)
	if err != nil {
		return nil, err
	}

	if err := s.repository.RecordLogin(user.ID, meta.IPAddress); err != nil {
		return nil, ErrInvalidData
	}

	return pair, nil
}

// RefreshAccessToken redeems a refresh token for a new pair. The presented
// token is invalidated first, so it can renew a session exactly once; there
// is no transaction around the flip and the insert, which makes this path
// at-most-once per token.
func (s *Service) RefreshAccessToken(username, refreshToken string, meta ClientMeta) (*TokenPair, error) {
	rt, err := s.repository.GetValidRefreshToken(username, refreshToken)
	if err != nil {
		if errors.Is(err, ErrRefreshTokenNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, ErrInvalidData
	}

	// Equality counts as expired.
	if !s.now().Before(rt.Expiration) {
		return nil, ErrRefreshTokenExpired
	}

	if err := s.repository.InvalidateRefreshToken(rt.ID); err != nil {
		return nil, ErrInvalidData
	}

	user, err := s.repository.GetUserByUsername(username)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	user.Password = ""

	return s.issueTokens(user, meta)
}

func (s *Service) issueTokens(user *User, meta ClientMeta) (*TokenPair, error) {
	rt, err := s.newRefreshToken(user.Username, meta)
	if err != nil {
		return nil, ErrInvalidData
	}

	if err := s.repository.CreateRefreshToken(rt); err != nil {
		return nil, ErrInvalidData
	}

	accessToken, err := s.GenerateAccessToken(user)
	if err != nil {
		return nil, ErrInvalidData
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: rt.Token,
	}, nil
}

// InvalidateRefreshToken revokes a single still-valid session token.
func (s *Service) InvalidateRefreshToken(username, refreshToken string) error {
	rt, err := s.repository.GetValidRefreshToken(username, refreshToken)
	if err != nil {
		return ErrInvalidData
	}

	if err := s.repository.InvalidateRefreshToken(rt.ID); err != nil {
		return ErrInvalidData
	}

	return nil
}

// InvalidateAllRefreshTokens revokes every session for a username. Idempotent.
func (s *Service) InvalidateAllRefreshTokens(username string) error {
	if err := s.repository.InvalidateAllRefreshTokens(username); err != nil {
		return ErrInvalidData
	}
	return nil
}

// Forgot starts a password reset: a time-boxed token is stored on the user
// row, overwriting any pending reset, and a reset link is mailed out. The
// mail send never blocks or fails the response.
func (s *Service) Forgot(email, resetURLBase string) (string, error) {
	if _, err := s.repository.GetUserByEmail(email); err != nil {
		return "", ErrInvalidData
	}

	token, err := randomToken(s.config.SessionTokenLength)
	if err != nil {
		return "", ErrInvalidData
	}

	expiration := s.now().Add(s.config.ResetTokenDuration)
	if err := s.repository.SetResetToken(email, token, expiration); err != nil {
		return "", ErrInvalidData
	}

	resetURL := fmt.Sprintf("%s?passwordResetToken=%s&email=%s", resetURLBase, token, email)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.mailer.SendPasswordReset(ctx, email, resetURL); err != nil {
			s.log.Error("failed to send password reset email",
				zap.String("email", email),
				zap.Error(err))
		}
	}()

	return token, nil
}

// CheckPasswordResetToken verifies a pending reset without consuming it.
func (s *Service) CheckPasswordResetToken(email, token string) error {
	user, err := s.repository.GetUserByResetToken(email, token)
	if err != nil {
		return ErrInvalidToken
	}

	if user.PasswordResetExpiration == nil || !s.now().Before(*user.PasswordResetExpiration) {
		return ErrResetTokenExpired
	}

	return nil
}

// ResetPassword consumes a reset token and stores the new password hash. The
// token is re-verified here; the check endpoint is advisory only.
func (s *Service) ResetPassword(email, token, newPassword string) error {
	if err := s.CheckPasswordResetToken(email, token); err != nil {
		return err
	}

	hashed, err := s.HashPassword(newPassword)
	if err != nil {
		return ErrInvalidData
	}

	if err := s.repository.UpdatePassword(email, hashed); err != nil {
		return ErrInvalidData
	}

	return nil
}
