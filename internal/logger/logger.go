// Package logger builds the process zap logger and carries request-scoped
// loggers through context.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func productionConfig() zap.Config {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

func developmentConfig() zap.Config {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg
}

var envConfigs = map[string]func() zap.Config{
	"prod":   productionConfig,
	"local":  developmentConfig,
	"dev":    developmentConfig,
	"docker": developmentConfig,
	"test":   developmentConfig,
}

// NewLogger builds the logger for env: JSON in prod, colored console
// elsewhere. A non-empty level (debug, info, warn, error) overrides the
// env default.
func NewLogger(env, level string) (*zap.Logger, error) {
	mk, ok := envConfigs[env]
	if !ok {
		return nil, fmt.Errorf("logger: unknown environment %q", env)
	}
	cfg := mk()

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("logger: level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("logger: build: %w", err)
	}
	return l, nil
}

// ForAgent names a child of base after the agent kind and tags it with the
// agent's display name.
func ForAgent(base *zap.Logger, kind, displayName string) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	return base.Named("agent." + kind).With(zap.String("agent", displayName))
}
