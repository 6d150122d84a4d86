package dto

import (
	"time"

	"ridersclub/backend/internal/model"
)

type Notice struct {
	ID               uint       `json:"id"`
	Title            string     `json:"title"`
	Message          string     `json:"message"`
	Priority         string     `json:"priority"`
	IsActive         bool       `json:"is_active"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          *time.Time `json:"end_date"`
	CreatedBy        *uint      `json:"created_by"`
	CreatedByName    string     `json:"created_by_name"`
	IsCurrentlyValid bool       `json:"is_currently_valid"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func NewNotice(n *model.Notice, now time.Time) Notice {
	out := Notice{
		ID:               n.ID,
		Title:            n.Title,
		Message:          n.Message,
		Priority:         string(n.Priority),
		IsActive:         n.IsActive,
		StartDate:        n.StartDate,
		EndDate:          n.EndDate,
		CreatedBy:        n.CreatedByID,
		IsCurrentlyValid: n.IsCurrentlyValid(now),
		CreatedAt:        n.CreatedAt,
		UpdatedAt:        n.UpdatedAt,
	}
	if n.CreatedBy != nil {
		out.CreatedByName = n.CreatedBy.FullName()
	}
	return out
}

func NewNotices(list []model.Notice, now time.Time) []Notice {
	out := make([]Notice, 0, len(list))
	for i := range list {
		out = append(out, NewNotice(&list[i], now))
	}
	return out
}
