package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name string
		db   Pinger
		want int
	}{
		{name: "database reachable", db: mockPinger{}, want: http.StatusOK},
		{name: "database down", db: mockPinger{err: errors.New("connection refused")}, want: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/healthz", NewHealthHandler(zap.NewNop(), tt.db).Healthz)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			assertStatus(t, rec, tt.want)
		})
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", nil, "")
	assertStatus(t, rec, http.StatusOK)
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected generated request id")
	}
	if ct := rec.Header().Get("Content-Type"); ct == "" {
		t.Fatalf("expected content type header")
	}
}
