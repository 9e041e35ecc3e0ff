package server

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/elskow/notekeep/internal/config"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

func LoadConfig() (*config.AppConfig, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = EnvDevelopment
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath("./config")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config config.AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Load environment-specific configurations
	if envSettings := v.GetStringMap(fmt.Sprintf("server.%s", env)); len(envSettings) > 0 {
		if err := v.UnmarshalKey(fmt.Sprintf("server.%s", env), &config.Server); err != nil {
			return nil, fmt.Errorf("error unmarshaling env config: %w", err)
		}
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Auth.JWTSecret = secret
	}
	if apiKey := os.Getenv("RESEND_API_KEY"); apiKey != "" {
		config.Mail.APIKey = apiKey
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("auth.access_token_duration", time.Minute)
	v.SetDefault("auth.reset_token_duration", 30*time.Minute)
	v.SetDefault("auth.refresh_token_months", 1)
	v.SetDefault("auth.session_token_length", 64)
	v.SetDefault("auth.account_token_length", 7)
	v.SetDefault("auth.account_token_max_retries", 10)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.window", time.Minute)
	v.SetDefault("rate_limit.max_requests", 100)

	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("cors.allow_headers", "Origin, Content-Type, Accept, Authorization")
}
