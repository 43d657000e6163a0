package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/tasktrack/tasks-service/internal/core/domain"
	"github.com/tasktrack/tasks-service/internal/core/ports"
)

// newContext builds an echo context for method/target with an optional JSON
// body and an optional :id path parameter.
func newContext(method, target, body, id string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	return c, rec
}

// httpCode returns the status carried by an *echo.HTTPError, or 0.
func httpCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	return he.Code
}

type stubUserService struct {
	createFn  func(ctx context.Context, in ports.CreateUserInput) (*ports.CreateUserResult, error)
	getFn     func(ctx context.Context, id int64) (*domain.User, error)
	listFn    func(ctx context.Context) ([]*domain.User, error)
	statusFn  func(ctx context.Context, id int64, status domain.UserStatus) (*domain.User, error)
	premiumFn func(ctx context.Context, id int64) (*domain.User, error)
	historyFn func(ctx context.Context, id int64) ([]domain.StatusChange, error)
	listed    []string
}

func (s *stubUserService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*ports.CreateUserResult, error) {
	return s.createFn(ctx, in)
}

func (s *stubUserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	s.listed = append(s.listed, "all")
	return s.listFn(ctx)
}

func (s *stubUserService) ListActiveUsers(ctx context.Context) ([]*domain.User, error) {
	s.listed = append(s.listed, "active")
	return s.listFn(ctx)
}

func (s *stubUserService) ListPremiumActiveUsers(ctx context.Context) ([]*domain.User, error) {
	s.listed = append(s.listed, "premium")
	return s.listFn(ctx)
}

func (s *stubUserService) UpdateUserStatus(ctx context.Context, id int64, status domain.UserStatus) (*domain.User, error) {
	return s.statusFn(ctx, id, status)
}

func (s *stubUserService) UpgradeToPremium(ctx context.Context, id int64) (*domain.User, error) {
	return s.premiumFn(ctx, id)
}

func (s *stubUserService) UserHistory(ctx context.Context, id int64) ([]domain.StatusChange, error) {
	return s.historyFn(ctx, id)
}

type stubTaskService struct {
	createFn  func(ctx context.Context, in ports.CreateTaskInput) (*ports.CreateTaskResult, error)
	getFn     func(ctx context.Context, id int64) (*domain.Task, error)
	listFn    func(ctx context.Context, userID int64) ([]*domain.Task, error)
	statusFn  func(ctx context.Context, id int64, status domain.TaskStatus) (*domain.Task, error)
	historyFn func(ctx context.Context, id int64) ([]domain.StatusChange, error)
}

func (s *stubTaskService) CreateTask(ctx context.Context, in ports.CreateTaskInput) (*ports.CreateTaskResult, error) {
	return s.createFn(ctx, in)
}

func (s *stubTaskService) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	return s.getFn(ctx, id)
}

func (s *stubTaskService) ListUserTasks(ctx context.Context, userID int64) ([]*domain.Task, error) {
	return s.listFn(ctx, userID)
}

func (s *stubTaskService) UpdateTaskStatus(ctx context.Context, id int64, status domain.TaskStatus) (*domain.Task, error) {
	return s.statusFn(ctx, id, status)
}

func (s *stubTaskService) TaskHistory(ctx context.Context, id int64) ([]domain.StatusChange, error) {
	return s.historyFn(ctx, id)
}
