package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrDuplicateUsername   = errors.New("username already taken")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrInvalidData         = errors.New("invalid data")
	ErrInvalidToken        = errors.New("invalid token")
	ErrResetTokenExpired   = errors.New("reset token expired")
	ErrTokenGeneration     = errors.New("account token generation failed")
)

// ErrorCode maps a service error to its stable wire code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "INVALID_CREDENTIALS"
	case errors.Is(err, ErrInvalidRefreshToken):
		return "INVALID_REFRESH_TOKEN"
	case errors.Is(err, ErrRefreshTokenExpired):
		return "REFRESH_TOKEN_EXPIRED"
	case errors.Is(err, ErrDuplicateUsername):
		return "DUPLICATE_USERNAME"
	case errors.Is(err, ErrDuplicateEmail):
		return "DUPLICATE_EMAIL"
	case errors.Is(err, ErrInvalidToken):
		return "INVALID_TOKEN"
	case errors.Is(err, ErrResetTokenExpired):
		return "RESET_TOKEN_EXPIRED"
	case errors.Is(err, ErrTokenGeneration):
		return "TOKEN_GENERATION_FAILED"
	default:
		return "INVALID_DATA"
	}
}
