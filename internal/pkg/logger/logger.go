package logger

import (
	"fmt"

	"go.uber.org/zap"

	"fake-review-detector/internal/pkg/config"
)

// New builds the process logger from config. Console format gets the
// human-readable development encoder, everything else is production
// JSON.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	var zcfg zap.Config
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = level

	return zcfg.Build()
}
