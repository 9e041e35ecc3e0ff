package auth

import (
	"time"
)

type User struct {
	ID                      uint   `gorm:"primaryKey"`
	Token                   string `gorm:"uniqueIndex;not null;size:16"`
	FirstName               string `gorm:"not null"`
	LastName                string `gorm:"not null"`
	Username                string `gorm:"uniqueIndex;not null;size:191"`
	Email                   string `gorm:"uniqueIndex;not null;size:191"`
	Password                string `gorm:"not null" json:"-"`
	PasswordResetToken      *string
	PasswordResetExpiration *time.Time
	SendPromotionalEmails   bool `gorm:"not null;default:false"`
	IsAdmin                 bool `gorm:"not null;default:false"`
	IsDeleted               bool `gorm:"not null;default:false"`
	LoginCount              int  `gorm:"not null;default:0"`
	IPAddress               string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

func (User) TableName() string {
	return "users"
}

type RefreshToken struct {
	ID         uint   `gorm:"primaryKey"`
	Username   string `gorm:"index;not null"`
	Token      string `gorm:"index;not null;size:64"`
	Info       string
	IsValid    bool `gorm:"not null"`
	Expiration time.Time
	IPAddress  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
