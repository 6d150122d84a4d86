package repository

import (
	"context"

	"ridersclub/backend/internal/model"
)

type ZoneRepository interface {
	Create(ctx context.Context, zone *model.Zone) error
	GetByID(ctx context.Context, id uint) (*model.Zone, error)
	GetByName(ctx context.Context, name string) (*model.Zone, error)
	List(ctx context.Context, activeOnly bool) ([]model.Zone, error)
	ListByIDs(ctx context.Context, ids []uint) ([]model.Zone, error)
	Update(ctx context.Context, zone *model.Zone) error
	Delete(ctx context.Context, id uint) error
}
