package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration.
type Config struct {
	Level  string    // debug, info, warn, error
	Format string    // json, console
	Output io.Writer // defaults to os.Stdout
}

// New creates a new zerolog logger based on config.
func New(cfg Config) zerolog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	level := parseLevel(cfg.Level)

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
}

// WithRequestID returns a copy of ctx whose logger carries the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withField(ctx, "request_id", requestID)
}

// WithUserID returns a copy of ctx whose logger carries the user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return withField(ctx, "user_id", userID)
}

// FromContext returns the logger attached to ctx, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

func withField(ctx context.Context, key, value string) context.Context {
	if value == "" {
		return ctx
	}
	l := zerolog.Ctx(ctx).With().Str(key, value).Logger()
	return l.WithContext(ctx)
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
