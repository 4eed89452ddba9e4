package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"social-app-go/pkg/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// gormLogger sends gorm output to the application logger, preferring the request-scoped
// one from the context. Record-not-found is a normal outcome and is not logged.
type gormLogger struct {
	log   logger.Logger
	level gormlogger.LogLevel
	slow  time.Duration
}

func newGormLogger(log logger.Logger) *gormLogger {
	return &gormLogger{log: log, level: gormlogger.Warn, slow: slowQueryThreshold}
}

func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *gormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		logger.FromContext(ctx, l.log).Info("gorm: " + fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		logger.FromContext(ctx, l.log).Warn("gorm: " + fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		logger.FromContext(ctx, l.log).Error("gorm: " + fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	log := logger.FromContext(ctx, l.log)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		sql, rows := fc()
		log.InternalError("db: query failed", err, "sql", sql, "rows", rows, "elapsed", elapsed)
	case l.slow > 0 && elapsed > l.slow && l.level >= gormlogger.Warn:
		sql, rows := fc()
		log.Warn("db: slow query", "sql", sql, "rows", rows, "elapsed", elapsed)
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		log.Debug("db: query", "sql", sql, "rows", rows, "elapsed", elapsed)
	}
}
