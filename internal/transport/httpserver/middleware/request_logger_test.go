package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"social-app-go/pkg/logger"
)

func TestRequestLoggerTagsRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := logger.New(&buf, logger.Options{Level: slog.LevelInfo})

	handler := chimw.RequestID(RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context(), logger.Nop()).Info("inside")
		w.WriteHeader(http.StatusNoContent)
	})))

	req := httptest.NewRequest(http.MethodGet, "/post/1", nil)
	req.Header.Set(chimw.RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	out := buf.String()
	if !strings.Contains(out, "request_id=req-42") || !strings.Contains(out, "path=/post/1") {
		t.Fatalf("unexpected log output %q", out)
	}
}
