package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tasktrack/tasks-service/internal/core/domain"
	"github.com/tasktrack/tasks-service/internal/core/ports"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Create handles POST /v1/users.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string             false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createUserRequest  true   "User details"
// @Success      201              {object}  userResponse
// @Success      200              {object}  userResponse  "Idempotent replay"
// @Failure      400              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	result, err := h.service.CreateUser(c.Request().Context(), ports.CreateUserInput{
		Name:           req.Name,
		Email:          req.Email,
		Premium:        req.Premium,
		Status:         domain.UserStatus(req.Status),
		IdempotencyKey: c.Request().Header.Get(headerIdempotencyKey),
	})
	if err != nil {
		return err
	}

	return c.JSON(createdOrReplayed(result.AlreadyExisted), toUserResponse(result.User))
}

// Get handles GET /v1/users/:id.
//
// @Summary      Get a user
// @Description  Deleted users are reported as not found.
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	u, err := h.service.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// List handles GET /v1/users.
//
// @Summary      List users that are not deleted
// @Tags         users
// @Produce      json
// @Success      200  {array}   userResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	return h.list(c, h.service.ListUsers)
}

// ListActive handles GET /v1/users/active.
//
// @Summary      List active users
// @Tags         users
// @Produce      json
// @Success      200  {array}   userResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/users/active [get]
func (h *UserHandler) ListActive(c echo.Context) error {
	return h.list(c, h.service.ListActiveUsers)
}

// ListPremium handles GET /v1/users/premium.
//
// @Summary      List active premium users
// @Tags         users
// @Produce      json
// @Success      200  {array}   userResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/users/premium [get]
func (h *UserHandler) ListPremium(c echo.Context) error {
	return h.list(c, h.service.ListPremiumActiveUsers)
}

func (h *UserHandler) list(c echo.Context, fetch func(ctx context.Context) ([]*domain.User, error)) error {
	users, err := fetch(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// UpdateStatus handles PATCH /v1/users/:id/status.
//
// @Summary      Change a user's status
// @Description  Setting "deleted" soft-deletes the user.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      int                      true  "User ID"
// @Param        body  body      updateUserStatusRequest  true  "New status"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/users/{id}/status [patch]
func (h *UserHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateUserStatusRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	u, err := h.service.UpdateUserStatus(c.Request().Context(), id, domain.UserStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// UpgradePremium handles PATCH /v1/users/:id/premium.
//
// @Summary      Upgrade a user to premium
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id}/premium [patch]
func (h *UserHandler) UpgradePremium(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	u, err := h.service.UpgradeToPremium(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// History handles GET /v1/users/:id/history.
//
// @Summary      Status and premium changes of a user
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {array}   statusChangeResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id}/history [get]
func (h *UserHandler) History(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	changes, err := h.service.UserHistory(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHistoryResponse(changes))
}
