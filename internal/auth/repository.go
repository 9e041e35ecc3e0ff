package auth

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
)

type Repository interface {
	CreateUser(user *User) error
	GetUserByUsername(username string) (*User, error)
	GetUserByEmail(email string) (*User, error)
	GetUserByAccountToken(token string) (*User, error)
	GetUserByResetToken(email, token string) (*User, error)
	RecordLogin(userID uint, ip string) error
	SetResetToken(email, token string, expiration time.Time) error
	UpdatePassword(email, passwordHash string) error

	CreateRefreshToken(rt *RefreshToken) error
	GetValidRefreshToken(username, token string) (*RefreshToken, error)
	InvalidateRefreshToken(id uint) error
	InvalidateAllRefreshTokens(username string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateUser(user *User) error {
	return r.db.Create(user).Error
}

func (r *repository) GetUserByUsername(username string) (*User, error) {
	var user User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) GetUserByEmail(email string) (*User, error) {
	var user User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) GetUserByAccountToken(token string) (*User, error) {
	var user User
	if err := r.db.Where("token = ?", token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) GetUserByResetToken(email, token string) (*User, error) {
	var user User
	if err := r.db.Where("email = ? AND password_reset_token = ?", email, token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) RecordLogin(userID uint, ip string) error {
	return r.db.Model(&User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"login_count": gorm.Expr("login_count + 1"),
		"ip_address":  ip,
	}).Error
}

func (r *repository) SetResetToken(email, token string, expiration time.Time) error {
	return r.db.Model(&User{}).Where("email = ?", email).Updates(map[string]interface{}{
		"password_reset_token":      token,
		"password_reset_expiration": expiration,
	}).Error
}

func (r *repository) UpdatePassword(email, passwordHash string) error {
	return r.db.Model(&User{}).Where("email = ?", email).Updates(map[string]interface{}{
		"password":                  passwordHash,
		"password_reset_token":      nil,
		"password_reset_expiration": nil,
	}).Error
}

func (r *repository) CreateRefreshToken(rt *RefreshToken) error {
	return r.db.Create(rt).Error
}

func (r *repository) GetValidRefreshToken(username, token string) (*RefreshToken, error) {
	var rt RefreshToken
	err := r.db.Where("username = ? AND token = ? AND is_valid = ?", username, token, true).First(&rt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, err
	}
	return &rt, nil
}

func (r *repository) InvalidateRefreshToken(id uint) error {
	return r.db.Model(&RefreshToken{}).Where("id = ?", id).Update("is_valid", false).Error
}

func (r *repository) InvalidateAllRefreshTokens(username string) error {
	return r.db.Model(&RefreshToken{}).Where("username = ?", username).Update("is_valid", false).Error
}
