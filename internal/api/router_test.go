package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tasktrack/tasks-service/internal/api/handler"
	"github.com/tasktrack/tasks-service/internal/core/domain"
	"github.com/tasktrack/tasks-service/internal/core/ports"
)

// fakeUsers serves a single active user with id 1.
type fakeUsers struct{ ports.UserService }

func (fakeUsers) GetUser(_ context.Context, id int64) (*domain.User, error) {
	if id != 1 {
		return nil, domain.ErrUserNotFound
	}
	return &domain.User{ID: 1, Name: "ana", Email: "a@x", Status: domain.UserActive}, nil
}

func (fakeUsers) ListActiveUsers(context.Context) ([]*domain.User, error) {
	return []*domain.User{{ID: 1, Status: domain.UserActive}}, nil
}

// fakeTasks rejects every create with a missing owner.
type fakeTasks struct{ ports.TaskService }

func (fakeTasks) CreateTask(context.Context, ports.CreateTaskInput) (*ports.CreateTaskResult, error) {
	return nil, domain.Invalid(domain.ErrUserDoesNotExist)
}

// TestRouter builds the router once; the HTTP metrics collectors it
// registers are global.
func TestRouter(t *testing.T) {
	e := NewRouter(Deps{
		Users:  fakeUsers{},
		Tasks:  fakeTasks{},
		Checks: map[string]handler.Check{"postgres": func(context.Context) error { return nil }},
		Log:    zerolog.Nop(),
	})

	cases := []struct {
		method, target, body string
		code                 int
		contains             string
	}{
		{http.MethodGet, "/v1/users/1", "", http.StatusOK, `"status":"active"`},
		{http.MethodGet, "/v1/users/2", "", http.StatusNotFound, `{"error":"user not found"}`},
		{http.MethodGet, "/v1/users/abc", "", http.StatusBadRequest, `"error"`},
		{http.MethodGet, "/v1/users/active", "", http.StatusOK, `"id":1`},
		{http.MethodPost, "/v1/tasks", `{"user_id":5,"name":"t"}`, http.StatusBadRequest, `{"error":"user does not exist"}`},
		{http.MethodPost, "/v1/tasks", `{"name":"t"}`, http.StatusUnprocessableEntity, `user_id is required`},
		{http.MethodGet, "/health", "", http.StatusOK, `"ok"`},
		{http.MethodGet, "/health/ready", "", http.StatusOK, `"postgres"`},
		{http.MethodGet, "/metrics", "", http.StatusOK, "tasks_http_requests_total"},
		{http.MethodGet, "/v2/nothing", "", http.StatusNotFound, `"error"`},
	}

	for _, tc := range cases {
		var req *http.Request
		if tc.body != "" {
			req = httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
		} else {
			req = httptest.NewRequest(tc.method, tc.target, nil)
		}
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		if rec.Code != tc.code {
			t.Errorf("%s %s: expected %d, got %d (%s)", tc.method, tc.target, tc.code, rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), tc.contains) {
			t.Errorf("%s %s: expected body to contain %q, got %q", tc.method, tc.target, tc.contains, rec.Body.String())
		}
	}
}
