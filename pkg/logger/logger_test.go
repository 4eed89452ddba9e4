package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCriticalLevelName(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{Level: slog.LevelDebug, JSON: true})

	log.Critical("boom", "k", "v")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["level"] != "CRITICAL" {
		t.Fatalf("expected CRITICAL level, got %v", entry["level"])
	}
}

func TestBusinessErrorSkipsNil(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{Level: slog.LevelDebug})

	log.BusinessError("nothing", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}

	log.Component("groups").BusinessError("failed", errors.New("not admin"), "group_id", 7)
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "component=groups") || !strings.Contains(out, `err="not admin"`) {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestOptionsFromEnv(t *testing.T) {
	tests := []struct {
		level  string
		format string
		env    string
		want   Options
	}{
		{"", "", "development", Options{Level: slog.LevelDebug, JSON: true}},
		{"", "text", "production", Options{Level: slog.LevelInfo}},
		{"WARN", "", "production", Options{Level: slog.LevelWarn, JSON: true}},
		{"fatal", "json", "production", Options{Level: LevelCritical, JSON: true}},
		{"bogus", "", "production", Options{Level: slog.LevelInfo, JSON: true}},
	}
	for _, tt := range tests {
		t.Setenv("LOG_LEVEL", tt.level)
		t.Setenv("LOG_FORMAT", tt.format)
		t.Setenv("LOG_SOURCE", "")
		if got := OptionsFromEnv(tt.env); got != tt.want {
			t.Fatalf("OptionsFromEnv(%q) with level %q format %q = %+v, want %+v", tt.env, tt.level, tt.format, got, tt.want)
		}
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	fallback := Nop()
	scoped := New(&buf, Options{Level: slog.LevelInfo}).With("request_id", "abc")

	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Fatal("expected fallback logger without a stored one")
	}

	FromContext(IntoContext(context.Background(), scoped), fallback).Info("hello")
	if !strings.Contains(buf.String(), "request_id=abc") {
		t.Fatalf("expected scoped logger output, got %q", buf.String())
	}
}
