package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/tasktrack/tasks-service/internal/core/domain"
	"github.com/tasktrack/tasks-service/internal/core/ports"
)

func TestTaskHandler_Create_Success(t *testing.T) {
	created := time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)
	stub := &stubTaskService{
		createFn: func(ctx context.Context, in ports.CreateTaskInput) (*ports.CreateTaskResult, error) {
			if in.UserID != 7 || in.Name != "ship it" || in.Description != nil {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.CreateTaskResult{Task: &domain.Task{
				ID: 11, UserID: in.UserID, Name: in.Name, Status: domain.TaskPending, CreatedAt: created,
			}}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/v1/tasks", `{"user_id":7,"name":"ship it"}`, "")

	if err := NewTaskHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "pending" || resp["created_at"] != "2026-04-01T09:30:00Z" {
		t.Errorf("unexpected payload: %+v", resp)
	}
	if resp["description"] != nil || resp["modified_at"] != nil {
		t.Errorf("optional fields must be null: %+v", resp)
	}
}

func TestTaskHandler_Create_Limits(t *testing.T) {
	h := NewTaskHandler(&stubTaskService{})

	longName := strings.Repeat("n", 101)
	longDesc := strings.Repeat("d", 501)
	bodies := []string{
		`{"name":"x"}`,
		`{"user_id":1,"name":"` + longName + `"}`,
		`{"user_id":1,"name":"x","description":"` + longDesc + `"}`,
	}
	for _, body := range bodies {
		c, _ := newContext(http.MethodPost, "/v1/tasks", body, "")
		if code := httpCode(t, h.Create(c)); code != http.StatusUnprocessableEntity {
			t.Errorf("expected 422, got %d", code)
		}
	}
}

func TestTaskHandler_Create_UnknownOwner(t *testing.T) {
	stub := &stubTaskService{
		createFn: func(ctx context.Context, in ports.CreateTaskInput) (*ports.CreateTaskResult, error) {
			return nil, domain.Invalid(domain.ErrUserDoesNotExist)
		},
	}
	c, _ := newContext(http.MethodPost, "/v1/tasks", `{"user_id":99,"name":"x"}`, "")

	err := NewTaskHandler(stub).Create(c)
	if !errors.Is(err, domain.ErrUserDoesNotExist) {
		t.Errorf("expected ErrUserDoesNotExist to reach the error handler, got %v", err)
	}
}

func TestTaskHandler_ListByUser(t *testing.T) {
	stub := &stubTaskService{
		listFn: func(ctx context.Context, userID int64) ([]*domain.Task, error) {
			if userID != 3 {
				return []*domain.Task{}, nil
			}
			return []*domain.Task{{ID: 1, UserID: 3}, {ID: 2, UserID: 3}}, nil
		},
	}
	h := NewTaskHandler(stub)

	c, rec := newContext(http.MethodGet, "/v1/users/3/tasks", "", "3")
	if err := h.ListByUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp []taskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 || resp[0].ID != 1 || resp[1].ID != 2 {
		t.Errorf("unexpected payload: %+v", resp)
	}

	c, rec = newContext(http.MethodGet, "/v1/users/404/tasks", "", "404")
	if err := h.ListByUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Body.String() != "[]\n" {
		t.Errorf("expected empty array, got %q", rec.Body.String())
	}
}

func TestTaskHandler_UpdateStatus(t *testing.T) {
	stub := &stubTaskService{
		statusFn: func(ctx context.Context, id int64, status domain.TaskStatus) (*domain.Task, error) {
			if id == 404 {
				return nil, domain.ErrTaskNotFound
			}
			return &domain.Task{ID: id, Status: status}, nil
		},
	}
	h := NewTaskHandler(stub)

	c, rec := newContext(http.MethodPatch, "/v1/tasks/1/status", `{"status":"done"}`, "1")
	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"done"`) {
		t.Errorf("unexpected response: %d %s", rec.Code, rec.Body.String())
	}

	c, _ = newContext(http.MethodPatch, "/v1/tasks/404/status", `{"status":"done"}`, "404")
	if err := h.UpdateStatus(c); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}

	c, _ = newContext(http.MethodPatch, "/v1/tasks/1/status", `{"status":"deleted"}`, "1")
	if code := httpCode(t, h.UpdateStatus(c)); code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for a user status on a task, got %d", code)
	}
}

func TestTaskHandler_GetAndHistory_BadID(t *testing.T) {
	h := NewTaskHandler(&stubTaskService{})

	for _, id := range []string{"0", "-1", "x"} {
		c, _ := newContext(http.MethodGet, "/v1/tasks/"+id, "", id)
		if code := httpCode(t, h.Get(c)); code != http.StatusBadRequest {
			t.Errorf("Get id=%s: expected 400, got %d", id, code)
		}
		c, _ = newContext(http.MethodGet, "/v1/tasks/"+id+"/history", "", id)
		if code := httpCode(t, h.History(c)); code != http.StatusBadRequest {
			t.Errorf("History id=%s: expected 400, got %d", id, code)
		}
	}
}
