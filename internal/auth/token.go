package auth

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_-"

// randomToken returns a random string of the given length drawn from
// [a-zA-Z0-9_-]. The alphabet has 64 entries so each byte maps to one
// character without modulo bias.
func randomToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}

	return string(buf), nil
}

// Claims is the payload of a signed access token. Token carries the user's
// persistent account token, not the refresh token.
type Claims struct {
	UserID   uint   `json:"id"`
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

func (s *Service) GenerateAccessToken(user *User) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID:   user.ID,
		Token:    user.Token,
		Username: user.Username,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.AccessTokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return validateToken(tokenString, s.config.JWTSecret)
}

func validateToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// generateAccountToken produces a short unique token stored on the user row
// and embedded in access token claims. Retries are capped rather than
// recursing until a free value turns up.
func (s *Service) generateAccountToken() (string, error) {
	for attempt := 0; attempt < s.config.AccountTokenMaxRetries; attempt++ {
		token, err := randomToken(s.config.AccountTokenLength)
		if err != nil {
			return "", err
		}

		_, err = s.repository.GetUserByAccountToken(token)
		if errors.Is(err, ErrUserNotFound) {
			return token, nil
		}
		if err != nil {
			return "", err
		}
	}

	return "", ErrTokenGeneration
}

func (s *Service) newRefreshToken(username string, meta ClientMeta) (*RefreshToken, error) {
	token, err := randomToken(s.config.SessionTokenLength)
	if err != nil {
		return nil, err
	}

	return &RefreshToken{
		Username:   username,
		Token:      token,
		Info:       meta.UserAgent,
		IsValid:    true,
		Expiration: s.now().AddDate(0, s.config.RefreshTokenMonths, 0),
		IPAddress:  meta.IPAddress,
	}, nil
}
