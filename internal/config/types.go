package config

import "time"

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type AuthConfig struct {
	JWTSecret              string        `mapstructure:"jwt_secret"`
	AccessTokenDuration    time.Duration `mapstructure:"access_token_duration"`
	ResetTokenDuration     time.Duration `mapstructure:"reset_token_duration"`
	RefreshTokenMonths     int           `mapstructure:"refresh_token_months"`
	SessionTokenLength     int           `mapstructure:"session_token_length"`
	AccountTokenLength     int           `mapstructure:"account_token_length"`
	AccountTokenMaxRetries int           `mapstructure:"account_token_max_retries"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RateLimitConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Window      time.Duration `mapstructure:"window"`
	MaxRequests int           `mapstructure:"max_requests"`
}

type CORSConfig struct {
	AllowOrigins string `mapstructure:"allow_origins"`
	AllowHeaders string `mapstructure:"allow_headers"`
}

type MailConfig struct {
	APIKey    string `mapstructure:"api_key"`
	FromName  string `mapstructure:"from_name"`
	FromEmail string `mapstructure:"from_email"`
	AppName   string `mapstructure:"app_name"`
}

type AppConfig struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Mail      MailConfig      `mapstructure:"mail"`
}
