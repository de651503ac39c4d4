// Package log writes request-scoped structured entries through zap.
package log

import (
	"os"
	"sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gmart/internal/domain"
)

var (
	mu  sync.RWMutex
	zlg = zap.NewNop()
)

// Init builds the process logger: JSON in production, console otherwise.
// A non-empty logFile adds a JSON file sink next to stdout.
func Init(env, logFile string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
		if err != nil {
			return nil, err
		}
		enc := zap.NewProductionEncoderConfig()
		enc.EncodeTime = zapcore.ISO8601TimeEncoder
		fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(f), cfg.Level)
		l = zap.New(zapcore.NewTee(l.Core(), fileCore), zap.AddCaller())
	}
	SetLogger(l)
	return l, nil
}

// SetLogger replaces the process logger. Tests use it with an observer core.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	zlg = l
}

func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return zlg
}

func write(level zapcore.Level, c *fiber.Ctx, action string, err error, fields map[string]any) {
	l := L()
	if ce := l.Check(level, action); ce != nil {
		fs := make([]zap.Field, 0, 9)
		fs = append(fs, zap.String("action", action))
		if level == zapcore.WarnLevel {
			fs = append(fs, zap.String("kind", "security"))
		}
		if c != nil {
			fs = append(fs,
				zap.String("ip", c.IP()),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", c.Response().StatusCode()),
			)
			if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
				fs = append(fs, zap.String("req_id", rid))
			}
			if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
				fs = append(fs, zap.String("user_id", u.ID))
			}
		}
		if err != nil {
			fs = append(fs, zap.Error(err))
		}
		if len(fields) > 0 {
			fs = append(fs, zap.Any("fields", fields))
		}
		ce.Write(fs...)
	}
}

func Info(c *fiber.Ctx, action string, fields map[string]any) { write(zapcore.InfoLevel, c, action, nil, fields) }

// Audit records a state change made by a user (orders, reviews, admin edits).
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	fields = withKind(fields, "audit")
	write(zapcore.InfoLevel, c, action, nil, fields)
}
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(zapcore.WarnLevel, c, action, nil, fields)
}
func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(zapcore.ErrorLevel, c, action, err, fields)
}

func withKind(fields map[string]any, kind string) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["kind"] = kind
	return out
}
