package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

const LevelCritical = slog.Level(12)

const serviceName = "social-app"

var levelsByName = map[string]slog.Level{
	"debug":    slog.LevelDebug,
	"info":     slog.LevelInfo,
	"warn":     slog.LevelWarn,
	"warning":  slog.LevelWarn,
	"error":    slog.LevelError,
	"critical": LevelCritical,
	"fatal":    LevelCritical,
}

// Logger is the structured logger passed through the application.
// BusinessError is for expected failures (4xx), InternalError for unexpected ones (5xx).
type Logger interface {
	Debug(message string, args ...any)
	Info(message string, args ...any)
	Warn(message string, args ...any)
	Error(message string, args ...any)
	Critical(message string, args ...any)
	BusinessError(message string, err error, args ...any)
	InternalError(message string, err error, args ...any)
	With(args ...any) Logger
	Component(name string) Logger
}

type Options struct {
	Level     slog.Level
	JSON      bool
	AddSource bool
}

// OptionsFromEnv reads LOG_LEVEL, LOG_FORMAT and LOG_SOURCE. Without LOG_LEVEL,
// development runs at debug and everything else at info.
func OptionsFromEnv(env string) Options {
	opts := Options{Level: slog.LevelInfo, JSON: true}
	if env == "development" {
		opts.Level = slog.LevelDebug
	}
	if level, ok := levelsByName[normalize(os.Getenv("LOG_LEVEL"))]; ok {
		opts.Level = level
	}
	opts.JSON = normalize(os.Getenv("LOG_FORMAT")) != "text"
	switch normalize(os.Getenv("LOG_SOURCE")) {
	case "1", "true", "yes":
		opts.AddSource = true
	}
	return opts
}

type slogLogger struct {
	base *slog.Logger
}

func NewFromEnv() Logger {
	env := normalize(os.Getenv("ENV"))
	return New(os.Stdout, OptionsFromEnv(env)).With("service", serviceName, "env", env)
}

func New(output io.Writer, opts Options) Logger {
	handlerOpts := &slog.HandlerOptions{
		Level:       opts.Level,
		AddSource:   opts.AddSource,
		ReplaceAttr: renameCritical,
	}
	if opts.JSON {
		return &slogLogger{base: slog.New(slog.NewJSONHandler(output, handlerOpts))}
	}
	return &slogLogger{base: slog.New(slog.NewTextHandler(output, handlerOpts))}
}

func Nop() Logger {
	return &slogLogger{base: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

type ctxKey struct{}

// IntoContext stores a request-scoped logger.
func IntoContext(ctx context.Context, log Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromContext returns the request-scoped logger, or fallback when none was stored.
func FromContext(ctx context.Context, fallback Logger) Logger {
	if log, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return log
	}
	return fallback
}

func (l *slogLogger) Debug(message string, args ...any) { l.base.Debug(message, args...) }
func (l *slogLogger) Info(message string, args ...any)  { l.base.Info(message, args...) }
func (l *slogLogger) Warn(message string, args ...any)  { l.base.Warn(message, args...) }
func (l *slogLogger) Error(message string, args ...any) { l.base.Error(message, args...) }

func (l *slogLogger) Critical(message string, args ...any) {
	l.base.Log(context.Background(), LevelCritical, message, args...)
}

func (l *slogLogger) BusinessError(message string, err error, args ...any) {
	l.logErr(slog.LevelWarn, message, err, args)
}

func (l *slogLogger) InternalError(message string, err error, args ...any) {
	l.logErr(slog.LevelError, message, err, args)
}

func (l *slogLogger) logErr(level slog.Level, message string, err error, args []any) {
	if err == nil {
		return
	}
	l.base.Log(context.Background(), level, message, append([]any{"err", err.Error()}, args...)...)
}

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{base: l.base.With(args...)}
}

func (l *slogLogger) Component(name string) Logger {
	return l.With("component", name)
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func renameCritical(_ []string, attr slog.Attr) slog.Attr {
	if attr.Key == slog.LevelKey {
		if level, ok := attr.Value.Any().(slog.Level); ok && level == LevelCritical {
			attr.Value = slog.StringValue("CRITICAL")
		}
	}
	return attr
}
