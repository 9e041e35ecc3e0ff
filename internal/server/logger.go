package server

import (
	"go.uber.org/zap"
)

func NewLogger(env string) (*zap.Logger, error) {
	if env == EnvProduction {
		return zap.NewProduction()
	}

	cfg := zap.NewDevelopmentConfig()
	if env == EnvTesting {
		cfg.DisableStacktrace = true
	}

	return cfg.Build()
}
