package repository

import (
	"context"
	"time"

	"ridersclub/backend/internal/model"
)

type NoticeFilter struct {
	// ActiveAt keeps only active notices whose window contains it.
	ActiveAt *time.Time
	Priority model.NoticePriority
	Page
}

type NoticeRepository interface {
	Create(ctx context.Context, notice *model.Notice) error
	GetByID(ctx context.Context, id uint) (*model.Notice, error)
	List(ctx context.Context, filter NoticeFilter) ([]model.Notice, error)
	Update(ctx context.Context, notice *model.Notice) error
	Delete(ctx context.Context, id uint) error
}
