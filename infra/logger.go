package infra

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/edushelf/edushelf-catalog/config"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// LoggerClient wraps slog so log records flow to the OTLP collector when one
// is configured and to stdout otherwise.
type LoggerClient struct {
	logger *slog.Logger
}

func InitLoggerClient(cfg *config.EnvConfig) *LoggerClient {
	var logger *slog.Logger
	if cfg.Grafana.OTLPEndpoint != "" {
		logger = otelslog.NewLogger(cfg.Grafana.ServiceName)
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}

	return &LoggerClient{logger: logger}
}

func (l *LoggerClient) InfoWithContextf(ctx context.Context, format string, args ...interface{}) {
	l.logger.InfoContext(ctx, fmt.Sprintf(format, args...))
}

func (l *LoggerClient) WarningWithContextf(ctx context.Context, format string, args ...interface{}) {
	l.logger.WarnContext(ctx, fmt.Sprintf(format, args...))
}

func (l *LoggerClient) ErrorWithContextf(ctx context.Context, err error, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		l.logger.ErrorContext(ctx, msg, slog.Any("error", err))
		return
	}
	l.logger.ErrorContext(ctx, msg)
}
