package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates the storefront's structured logger. Production logs are JSON,
// development logs use the colored console encoder.
func New(env string) (*zap.Logger, error) {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.Encoding = "json"
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if level, ok := parseLevel(os.Getenv("LOG_LEVEL")); ok {
		config.Level = zap.NewAtomicLevelAt(level)
	}

	// Always log to stdout for container compatibility
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("service", "scent-store")), nil
}

// NewWithDefaults creates a logger from SERVER_ENV, falling back to a plain
// production logger when the configured one cannot be built
func NewWithDefaults() *zap.Logger {
	env := os.Getenv("SERVER_ENV")
	if env == "" {
		env = "development"
	}

	logger, err := New(env)
	if err != nil {
		logger, _ = zap.NewProduction()
	}

	return logger
}

func parseLevel(raw string) (zapcore.Level, bool) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return zapcore.InfoLevel, false
	}
	level, err := zapcore.ParseLevel(raw)
	if err != nil {
		return zapcore.InfoLevel, false
	}
	return level, true
}
