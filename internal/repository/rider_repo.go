package repository

import (
	"context"

	"ridersclub/backend/internal/model"
)

type RiderFilter struct {
	ZoneID   *uint
	Featured *bool
	Page
}

type RiderRepository interface {
	Create(ctx context.Context, rider *model.Rider) error
	GetByID(ctx context.Context, id uint) (*model.Rider, error)
	GetByUserID(ctx context.Context, userID uint) (*model.Rider, error)
	List(ctx context.Context, filter RiderFilter) ([]model.Rider, error)
	Update(ctx context.Context, rider *model.Rider) error
	Delete(ctx context.Context, id uint) error
}
