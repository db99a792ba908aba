package db

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func performHealth(t *testing.T, pinger Pinger) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/db", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := HealthHandler(pinger, nil)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestHealthHandler_Healthy(t *testing.T) {
	rec := performHealth(t, PingFunc(func(ctx context.Context) error { return nil }))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHealthHandler_Unhealthy(t *testing.T) {
	rec := performHealth(t, PingFunc(func(ctx context.Context) error {
		return errors.New("connection refused")
	}))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}
