package handler

import "time"

// --- Requests ---

type createUserRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Premium bool   `json:"premium"`
	Status  string `json:"status" validate:"omitempty,oneof=active inactive deleted" example:"active"`
}

type updateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive deleted" example:"inactive"`
}

type createTaskRequest struct {
	UserID      int64   `json:"user_id" validate:"required,gt=0"`
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type updateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending running done cancelled" example:"running"`
}

// --- Responses ---

type userResponse struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Status     string     `json:"status"`
	Premium    bool       `json:"premium"`
	ModifiedAt *time.Time `json:"modified_at"`
}

type taskResponse struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ModifiedAt  *time.Time `json:"modified_at"`
}

type statusChangeResponse struct {
	Field     string    `json:"field"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}
