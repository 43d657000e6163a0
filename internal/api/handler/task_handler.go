package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tasktrack/tasks-service/internal/core/domain"
	"github.com/tasktrack/tasks-service/internal/core/ports"
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Create handles POST /v1/tasks.
//
// @Summary      Create a task
// @Description  The owner must exist and not be deleted.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string             false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createTaskRequest  true   "Task details"
// @Success      201              {object}  taskResponse
// @Success      200              {object}  taskResponse  "Idempotent replay"
// @Failure      400              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /v1/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var req createTaskRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	result, err := h.service.CreateTask(c.Request().Context(), ports.CreateTaskInput{
		UserID:         req.UserID,
		Name:           req.Name,
		Description:    req.Description,
		IdempotencyKey: c.Request().Header.Get(headerIdempotencyKey),
	})
	if err != nil {
		return err
	}

	return c.JSON(createdOrReplayed(result.AlreadyExisted), toTaskResponse(result.Task))
}

// Get handles GET /v1/tasks/:id.
//
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  taskResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	t, err := h.service.GetTask(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(t))
}

// ListByUser handles GET /v1/users/:id/tasks.
//
// @Summary      List the tasks of a user
// @Description  Tasks are returned whatever the owner's status. An unknown user has no tasks.
// @Tags         tasks
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {array}   taskResponse
// @Failure      400  {object}  errorResponse
// @Router       /v1/users/{id}/tasks [get]
func (h *TaskHandler) ListByUser(c echo.Context) error {
	userID, err := pathID(c)
	if err != nil {
		return err
	}

	tasks, err := h.service.ListUserTasks(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponses(tasks))
}

// UpdateStatus handles PATCH /v1/tasks/:id/status.
//
// @Summary      Change a task's status
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path      int                      true  "Task ID"
// @Param        body  body      updateTaskStatusRequest  true  "New status"
// @Success      200   {object}  taskResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/tasks/{id}/status [patch]
func (h *TaskHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateTaskStatusRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	t, err := h.service.UpdateTaskStatus(c.Request().Context(), id, domain.TaskStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(t))
}

// History handles GET /v1/tasks/:id/history.
//
// @Summary      Status changes of a task
// @Tags         tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {array}   statusChangeResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/tasks/{id}/history [get]
func (h *TaskHandler) History(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	changes, err := h.service.TaskHistory(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHistoryResponse(changes))
}
