package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestMetricsRecordsRoutePattern(t *testing.T) {
	metrics := NewMetrics()
	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Get("/post/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", metrics.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/post/12", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	want := `social_app_http_requests_total{method="GET",route="/post/{id}",status="418"} 1`
	if !strings.Contains(string(body), want) {
		t.Fatalf("expected %q in metrics output:\n%s", want, body)
	}
}
