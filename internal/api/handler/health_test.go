package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestHealthHandler_Liveness(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/health", "", "")

	if err := NewHealthHandler(nil).Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	cases := []struct {
		name   string
		checks map[string]Check
		code   int
		status string
	}{
		{"all up", map[string]Check{"postgres": ok, "redis": ok}, http.StatusOK, "ok"},
		{"optional deps absent", map[string]Check{"postgres": ok}, http.StatusOK, "ok"},
		{"one down", map[string]Check{"postgres": ok, "mongodb": down}, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tc := range cases {
		c, rec := newContext(http.MethodGet, "/health/ready", "", "")
		if err := NewHealthHandler(tc.checks).Readiness(c); err != nil {
			t.Fatalf("%s: handler error: %v", tc.name, err)
		}
		if rec.Code != tc.code {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.code, rec.Code)
		}

		var resp readinessResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: invalid json: %v", tc.name, err)
		}
		if resp.Status != tc.status || len(resp.Dependencies) != len(tc.checks) {
			t.Errorf("%s: unexpected payload: %+v", tc.name, resp)
		}
	}
}
