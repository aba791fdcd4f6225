// Package logger builds the service's zap logger and carries request-scoped
// loggers through echo and context.Context.
package logger

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

const (
	echoLoggerKey    = "logger"
	echoRequestIDKey = "request_id"
)

type contextKey int

const loggerKey contextKey = iota

// New builds a logger for env ("production" gets JSON output, anything else a
// human-readable console encoder) at the given level. Unknown levels fall back
// to info.
func New(env, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.OutputPaths = []string{"stdout"}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level.SetLevel(lvl)

	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log, nil
}

// WithLogger returns a copy of ctx carrying log.
func WithLogger(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext returns the logger stored in ctx, or zap.L().
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.L()
}

// FromEcho returns the request-scoped logger set by Middleware.
func FromEcho(c echo.Context) *zap.Logger {
	if l, ok := c.Get(echoLoggerKey).(*zap.Logger); ok {
		return l
	}
	return FromContext(c.Request().Context())
}

// RequestID returns the id assigned to the current request, if any.
func RequestID(c echo.Context) string {
	if id, ok := c.Get(echoRequestIDKey).(string); ok {
		return id
	}
	return c.Response().Header().Get(RequestIDHeader)
}

// Middleware attaches a request-scoped logger to every request and logs its
// completion. It expects the request id middleware to have run first.
func Middleware(base *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			requestID := RequestID(c)
			log := base.With(zap.String("request_id", requestID))
			c.Set(echoLoggerKey, log)
			req := c.Request()
			c.SetRequest(req.WithContext(WithLogger(req.Context(), log)))

			err := next(c)

			fields := []zapcore.Field{
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.RealIP()),
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
				log.Error("HTTP request failed", fields...)
			} else {
				log.Info("HTTP request completed", fields...)
			}
			return err
		}
	}
}

// SetRequestID stores id on the echo context for RequestID and Middleware.
func SetRequestID(c echo.Context, id string) {
	c.Set(echoRequestIDKey, id)
}
