package db

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"social-app-go/pkg/logger"
)

func TestGormLoggerTrace(t *testing.T) {
	query := func() (string, int64) { return "SELECT 1", 1 }

	tests := []struct {
		name  string
		begin time.Time
		err   error
		want  string
	}{
		{"failed query", time.Now(), errors.New("boom"), "db: query failed"},
		{"slow query", time.Now().Add(-time.Second), nil, "db: slow query"},
		{"not found is quiet", time.Now(), gorm.ErrRecordNotFound, ""},
		{"fast query is quiet", time.Now(), nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := newGormLogger(logger.New(&buf, logger.Options{Level: slog.LevelDebug}))

			l.Trace(context.Background(), tt.begin, query, tt.err)

			out := buf.String()
			if tt.want == "" && out != "" {
				t.Fatalf("expected no output, got %q", out)
			}
			if tt.want != "" && !strings.Contains(out, tt.want) {
				t.Fatalf("expected %q in %q", tt.want, out)
			}
		})
	}
}

func TestGormLoggerSilent(t *testing.T) {
	var buf bytes.Buffer
	l := newGormLogger(logger.New(&buf, logger.Options{Level: slog.LevelDebug})).LogMode(gormlogger.Silent)

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, errors.New("boom"))
	if buf.Len() != 0 {
		t.Fatalf("expected silence, got %q", buf.String())
	}
}

func TestGormLoggerUsesRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	scoped := logger.New(&buf, logger.Options{Level: slog.LevelDebug}).With("request_id", "r1")
	ctx := logger.IntoContext(context.Background(), scoped)

	newGormLogger(logger.Nop()).Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1", 0 }, errors.New("boom"))
	if !strings.Contains(buf.String(), "request_id=r1") {
		t.Fatalf("expected request scoped output, got %q", buf.String())
	}
}
