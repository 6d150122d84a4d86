package repository

import (
	"context"
	"time"

	"ridersclub/backend/internal/model"
)

type BenefitFilter struct {
	CategoryID *uint
	Featured   *bool
	// VisibleAt keeps only active benefits whose validity window contains it.
	VisibleAt *time.Time
	// RestrictZone applies zone visibility for ZoneID: benefits with no zones
	// always pass, others only when ZoneID is among them.
	RestrictZone bool
	ZoneID       *uint
	Page
}

type UsageFilter struct {
	RiderID   *uint
	BenefitID *uint
	Page
}

type BenefitRepository interface {
	CreateCategory(ctx context.Context, category *model.BenefitCategory) error
	GetCategory(ctx context.Context, id uint) (*model.BenefitCategory, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]model.BenefitCategory, error)
	UpdateCategory(ctx context.Context, category *model.BenefitCategory) error
	DeleteCategory(ctx context.Context, id uint) error

	Create(ctx context.Context, benefit *model.Benefit, zoneIDs []uint) error
	GetByID(ctx context.Context, id uint) (*model.Benefit, error)
	LockByID(ctx context.Context, id uint) (*model.Benefit, error)
	List(ctx context.Context, filter BenefitFilter) ([]model.Benefit, error)
	// Update saves scalar fields; zoneIDs replaces the zone set unless nil.
	Update(ctx context.Context, benefit *model.Benefit, zoneIDs []uint) error
	Delete(ctx context.Context, id uint) error

	CountUsages(ctx context.Context, riderID, benefitID uint) (int64, error)
	// UsageCounts returns per-benefit usage counts for one rider.
	UsageCounts(ctx context.Context, riderID uint, benefitIDs []uint) (map[uint]int64, error)
	CreateUsage(ctx context.Context, usage *model.BenefitUsage) error
	GetUsage(ctx context.Context, id uint) (*model.BenefitUsage, error)
	ListUsages(ctx context.Context, filter UsageFilter) ([]model.BenefitUsage, error)
}
