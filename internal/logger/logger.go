// Package logger builds the zap logger used across the service.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects level and output format.
type Config struct {
	Level       string // debug, info, warn, error
	Format      string // console or json
	Development bool
}

// New builds a logger from cfg. An unknown level falls back to info.
func New(cfg Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	if cfg.Format == "json" {
		zc.Encoding = "json"
	} else {
		zc.Encoding = "console"
	}
	// Stick and orientation changes arrive every frame.
	zc.Sampling = nil

	return zc.Build(zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}
