// Package logger provides a structured, levelled logger built on log/slog.
//
// WithCtx returns the request-scoped logger injected by the Logger
// middleware, so every line from a handler or service carries request_id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order created", "order_id", order.ID)
//	// → time=... level=INFO msg="order created" request_id=a1b2c3d4 order_id=...
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shashiranjanraj/ordermgmt/config"
)

var L *slog.Logger

// sink is the optional MongoDB handler attached by Init.
var sink *MongoHandler

func init() {
	L = slog.New(consoleHandler(os.Stdout))
	slog.SetDefault(L)
}

// consoleHandler picks JSON output for production and text otherwise.
func consoleHandler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLevel(config.LogLevel())}

	switch config.AppEnv() {
	case "production", "prod":
		return slog.NewJSONHandler(w, opts) // structured JSON for log aggregators
	default:
		return slog.NewTextHandler(w, opts) // human-readable for dev
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		return slog.LevelInfo
	}
	switch config.AppEnv() {
	case "production", "prod":
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// Init rebuilds the base logger from the loaded config. When LOG_MONGO_URI is
// set, records are also shipped to MongoDB. Call Shutdown before exit.
func Init() error {
	console := consoleHandler(os.Stdout)

	uri := config.LogMongoURI()
	if uri == "" {
		L = slog.New(console)
		slog.SetDefault(L)
		return nil
	}

	h, err := NewMongoHandler(uri, config.LogMongoDatabase(), "logs")
	if err != nil {
		L = slog.New(console)
		slog.SetDefault(L)
		return fmt.Errorf("logger: mongo sink: %w", err)
	}
	sink = h

	L = slog.New(NewMultiHandler(console, h))
	slog.SetDefault(L)
	return nil
}

// Shutdown flushes the MongoDB sink if one is attached.
func Shutdown() {
	if sink != nil {
		sink.Close()
		sink = nil
	}
}

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the logger stored by InjectLogger, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
// Called by the Logger middleware; application code reads it via WithCtx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
