package infra

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aperturelog/aperture/config"
)

type LoggerClient struct {
	logger *zap.SugaredLogger
}

func InitLoggerClient(cfg *config.EnvConfig) *LoggerClient {
	var base *zap.Logger
	var err error
	if cfg.Environment.Mode == "production" {
		base, err = zap.NewProduction()
	} else {
		base, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	return &LoggerClient{logger: base.Sugar()}
}

func (l *LoggerClient) InfoWithContextf(_ context.Context, format string, args ...interface{}) {
	l.logger.Infof(format, args...)
}

func (l *LoggerClient) WarningWithContextf(_ context.Context, format string, args ...interface{}) {
	l.logger.Warnf(format, args...)
}

func (l *LoggerClient) ErrorWithContextf(_ context.Context, err error, format string, args ...interface{}) {
	if err != nil {
		l.logger.With(zap.Error(err)).Errorf(format, args...)
		return
	}
	l.logger.Errorf(format, args...)
}

func (l *LoggerClient) Sync() {
	_ = l.logger.Sync()
}
