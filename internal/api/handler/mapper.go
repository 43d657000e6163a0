package handler

import (
	"github.com/tasktrack/tasks-service/internal/core/domain"
)

// --- Domain → HTTP response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Status:     string(u.Status),
		Premium:    u.Premium,
		ModifiedAt: u.ModifiedAt,
	}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Name:        t.Name,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		ModifiedAt:  t.ModifiedAt,
	}
}

func toTaskResponses(tasks []*domain.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}

func toHistoryResponse(changes []domain.StatusChange) []statusChangeResponse {
	out := make([]statusChangeResponse, 0, len(changes))
	for _, c := range changes {
		out = append(out, statusChangeResponse{
			Field:     c.Field,
			From:      c.From,
			To:        c.To,
			ChangedAt: c.ChangedAt,
		})
	}
	return out
}
