package logger

import (
	"github.com/blart-ai/blart-server/internal/config"

	"go.uber.org/zap"
)

var logger *zap.Logger

// NewLogger builds a zap logger matching the configured environment.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	switch cfg.Environment {
	case "prod", "production":
		return zap.NewProduction()
	case "test":
		return zap.NewNop(), nil
	default:
		return zap.NewDevelopment()
	}
}

func MustNewLogger(cfg *config.Config) *zap.Logger {
	return zap.Must(NewLogger(cfg))
}

func InitLogger(cfg *config.Config) (*zap.Logger, error) {
	l, err := NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	logger = l
	zap.ReplaceGlobals(l)
	return logger, nil
}

func GetLogger() *zap.Logger {
	if logger == nil {
		return zap.L()
	}

	return logger
}
