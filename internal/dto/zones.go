package dto

import (
	"time"

	"ridersclub/backend/internal/model"
)

type Zone struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewZone(z *model.Zone) Zone {
	return Zone{
		ID:          z.ID,
		Name:        z.Name,
		Description: z.Description,
		IsActive:    z.IsActive,
		CreatedAt:   z.CreatedAt,
		UpdatedAt:   z.UpdatedAt,
	}
}

func NewZones(list []model.Zone) []Zone {
	out := make([]Zone, 0, len(list))
	for i := range list {
		out = append(out, NewZone(&list[i]))
	}
	return out
}
