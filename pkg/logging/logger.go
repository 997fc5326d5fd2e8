package logging

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// Logger wraps log/slog with the leveled Debug/Info/Warn/Error calls han's
// components take as an explicit constructor dependency (via the DI
// container, §4.L) rather than a package-level singleton — every component
// in this repository is handed its own *Logger, so there is no ambient
// global logger to reach for.
type Logger struct {
	handler slog.Handler
	level   *slog.LevelVar
}

// New creates a Logger from config.
func New(config *Config) *Logger {
	levelVar := &slog.LevelVar{}
	levelVar.Set(config.Level)

	var handler slog.Handler
	if config.Format == FormatJSON {
		handler = slog.NewJSONHandler(config.Output, &slog.HandlerOptions{
			Level:     levelVar,
			AddSource: config.AddSource,
		})
	} else {
		handler = slog.NewTextHandler(config.Output, &slog.HandlerOptions{
			Level:     levelVar,
			AddSource: config.AddSource,
		})
	}

	return &Logger{handler: handler, level: levelVar}
}

// SetLevel changes the minimum log level.
func (l *Logger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

// Debug logs a debug-level message.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args...)
}

// Info logs an info-level message.
func (l *Logger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, msg, args...)
}

// Warn logs a warning-level message. Every recoverable error in han's
// taxonomy (§7) — configuration, manifest, cache — is logged here rather
// than at Error, since none of them are fatal on their own.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args...)
}

// Error logs an error-level message.
func (l *Logger) Error(msg string, args ...any) {
	l.log(slog.LevelError, msg, args...)
}

// With returns a child Logger with additional attributes attached to
// every subsequent record (e.g. a dispatch's correlation ID).
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		handler: l.handler.WithAttrs(argsToAttrs(args)),
		level:   l.level,
	}
}

func (l *Logger) log(level slog.Level, msg string, args ...any) {
	ctx := context.Background()
	if !l.handler.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:]) // skip runtime.Callers, this function, the public method
	r := slog.NewRecord(timeNow(), level, msg, pcs[0])
	r.Add(args...)
	// Handler.Handle rarely fails, and a failure here can't itself be logged.
	_ = l.handler.Handle(ctx, r)
}

func argsToAttrs(args []any) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(args)/2)
	for i := 0; i < len(args)-1; i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, slog.Any(key, args[i+1]))
	}
	return attrs
}

// Field helpers for the attribute types han's components log.
func String(key, value string) any { return slog.String(key, value) }
func Int(key string, value int) any { return slog.Int(key, value) }
func Bool(key string, value bool) any { return slog.Bool(key, value) }
func Err(err error) any { return slog.Any("error", err) }

func timeNow() time.Time {
	return time.Now()
}
