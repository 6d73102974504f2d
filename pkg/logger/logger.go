package logger

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fatflowers/fakepay/pkg/config"
)

// New builds the process logger. Non-prod environments log at debug level.
func New(cfg *config.Config) (*zap.SugaredLogger, error) {
	zc := zap.NewProductionConfig()
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.TimeKey = "time"
	if cfg != nil && cfg.Env != config.EnvProd {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar().With("env", envOf(cfg)), nil
}

func envOf(cfg *config.Config) string {
	if cfg == nil || cfg.Env == "" {
		return string(config.EnvDev)
	}
	return string(cfg.Env)
}

var Module = fx.Options(
	fx.Provide(New),
)
