// Package logger builds the service logger
package logger

import (
	"github.com/Gobusters/ectologger"
	"go.uber.org/zap"

	"github.com/Ramsey-B/clover/config"
)

// New builds the ectologger used throughout the service. Entries are written
// through zap so the output format matches the rest of the fleet. The
// returned flush function should be deferred in main.
func New(cfg config.Config) (ectologger.Logger, func() error, error) {
	var zcfg zap.Config
	if cfg.PrettyLogs {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	if level, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zcfg.Level = level
	}

	zl, err := zcfg.Build(zap.WithCaller(false))
	if err != nil {
		return nil, nil, err
	}

	zl = zl.With(zap.String("app", cfg.AppName))

	log := ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		zl.Info("", zap.Any("entry", msg))
	})

	return log, zl.Sync, nil
}
