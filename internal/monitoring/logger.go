package monitoring

import (
	"log/slog"
	"os"
	"time"
)

// Logger provides enhanced structured logging with context
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new enhanced logger
func NewLogger() *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   "timestamp",
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	})

	return &Logger{
		Logger: slog.New(handler),
	}
}

// RequestLogger logs HTTP request details
func (l *Logger) RequestLogger(method, path, ip string, statusCode int, duration time.Duration) {
	l.Info("HTTP Request",
		"method", method,
		"path", path,
		"ip", ip,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
	)
}

// PredictionLogger logs one served prediction
func (l *Logger) PredictionLogger(date, group string, distribution map[string]float64, duration time.Duration, cacheHit bool) {
	l.Info("Prediction Served",
		"date", date,
		"assignment_group", group,
		"predictions", distribution,
		"duration_ms", duration.Milliseconds(),
		"cache_hit", cacheHit,
	)
}

// ReloadLogger logs an artifact reload and the resulting schema width
func (l *Logger) ReloadLogger(columns int, groups int, duration time.Duration) {
	l.Info("Inference Context Reloaded",
		"schema_columns", columns,
		"assignment_groups", groups,
		"duration_ms", duration.Milliseconds(),
	)
}
