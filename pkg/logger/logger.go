package logger

import (
	"github.com/projectavishkar/krishimitra/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	*zap.SugaredLogger
}

func New(cfg config.LoggingConfig) (*Logger, error) {
	zapCfg := zap.NewProductionConfig()

	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err == nil {
			zapCfg.Level = zap.NewAtomicLevelAt(level)
		}
	}

	if cfg.OutputPath != "" {
		zapCfg.OutputPaths = []string{cfg.OutputPath}
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{logger.Sugar()}, nil
}

func NewDevelopment() *Logger {
	logger, _ := zap.NewDevelopment()
	return &Logger{logger.Sugar()}
}

func NewProduction() *Logger {
	logger, _ := zap.NewProduction()
	return &Logger{logger.Sugar()}
}

// Desugar returns the underlying structured logger.
func (l *Logger) Desugar() *zap.Logger {
	return l.SugaredLogger.Desugar()
}

func (l *Logger) Sync() error {
	return l.SugaredLogger.Sync()
}
