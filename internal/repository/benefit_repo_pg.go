package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ridersclub/backend/internal/model"
)

type pgBenefitRepository struct {
	db *gorm.DB
}

func NewPGBenefitRepository(db *gorm.DB) BenefitRepository {
	return &pgBenefitRepository{db: db}
}

func (r *pgBenefitRepository) CreateCategory(ctx context.Context, category *model.BenefitCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *pgBenefitRepository) GetCategory(ctx context.Context, id uint) (*model.BenefitCategory, error) {
	var category model.BenefitCategory
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *pgBenefitRepository) ListCategories(ctx context.Context, activeOnly bool) ([]model.BenefitCategory, error) {
	var categories []model.BenefitCategory
	q := r.db.WithContext(ctx).Order("display_order ASC").Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&categories).Error
	return categories, err
}

func (r *pgBenefitRepository) UpdateCategory(ctx context.Context, category *model.BenefitCategory) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *pgBenefitRepository) DeleteCategory(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&model.Benefit{}).Where("category_id = ?", id).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) > 0 {
			if err := deleteBenefitRows(tx, ids); err != nil {
				return err
			}
		}
		return deleteByID(ctx, tx, &model.BenefitCategory{}, id)
	})
}

func (r *pgBenefitRepository) Create(ctx context.Context, benefit *model.Benefit, zoneIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(benefit).Error; err != nil {
			return err
		}
		return replaceZones(tx, benefit, zoneIDs)
	})
}

// replaceZones rewrites the benefit_zones rows for benefit. Zone IDs are
// expected to exist already.
func replaceZones(tx *gorm.DB, benefit *model.Benefit, zoneIDs []uint) error {
	if err := tx.Exec("DELETE FROM benefit_zones WHERE benefit_id = ?", benefit.ID).Error; err != nil {
		return err
	}
	if len(zoneIDs) == 0 {
		return nil
	}
	rows := make([]map[string]interface{}, 0, len(zoneIDs))
	seen := make(map[uint]bool, len(zoneIDs))
	for _, id := range zoneIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, map[string]interface{}{"benefit_id": benefit.ID, "zone_id": id})
	}
	return tx.Table("benefit_zones").Create(&rows).Error
}

func (r *pgBenefitRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("Zones", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		})
}

func (r *pgBenefitRepository) GetByID(ctx context.Context, id uint) (*model.Benefit, error) {
	var benefit model.Benefit
	if err := r.withRelations(ctx).First(&benefit, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &benefit, nil
}

func (r *pgBenefitRepository) LockByID(ctx context.Context, id uint) (*model.Benefit, error) {
	var benefit model.Benefit
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&benefit, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &benefit, nil
}

func (r *pgBenefitRepository) List(ctx context.Context, filter BenefitFilter) ([]model.Benefit, error) {
	var benefits []model.Benefit
	q := r.withRelations(ctx)
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Featured != nil {
		q = q.Where("is_featured = ?", *filter.Featured)
	}
	if filter.VisibleAt != nil {
		now := filter.VisibleAt.UTC()
		q = q.Where("is_active = ?", true).
			Where("valid_from IS NULL OR valid_from <= ?", now).
			Where("valid_until IS NULL OR valid_until >= ?", now)
	}
	if filter.RestrictZone {
		noZones := "NOT EXISTS (SELECT 1 FROM benefit_zones bz WHERE bz.benefit_id = benefits.id)"
		if filter.ZoneID != nil {
			q = q.Where(noZones+" OR EXISTS (SELECT 1 FROM benefit_zones bz WHERE bz.benefit_id = benefits.id AND bz.zone_id = ?)", *filter.ZoneID)
		} else {
			q = q.Where(noZones)
		}
	}
	q = q.Order("is_featured DESC").Order("created_at DESC").Order("id DESC")
	err := filter.Page.apply(q).Find(&benefits).Error
	return benefits, err
}

func (r *pgBenefitRepository) Update(ctx context.Context, benefit *model.Benefit, zoneIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(benefit).Error; err != nil {
			return err
		}
		if zoneIDs == nil {
			return nil
		}
		return replaceZones(tx, benefit, zoneIDs)
	})
}

func (r *pgBenefitRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM benefit_zones WHERE benefit_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("benefit_id = ?", id).Delete(&model.BenefitUsage{}).Error; err != nil {
			return err
		}
		return deleteByID(ctx, tx, &model.Benefit{}, id)
	})
}

func deleteBenefitRows(tx *gorm.DB, ids []uint) error {
	if err := tx.Exec("DELETE FROM benefit_zones WHERE benefit_id IN ?", ids).Error; err != nil {
		return err
	}
	if err := tx.Where("benefit_id IN ?", ids).Delete(&model.BenefitUsage{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&model.Benefit{}).Error
}

func (r *pgBenefitRepository) CountUsages(ctx context.Context, riderID, benefitID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.BenefitUsage{}).
		Where("rider_id = ? AND benefit_id = ?", riderID, benefitID).
		Count(&count).Error
	return count, err
}

func (r *pgBenefitRepository) UsageCounts(ctx context.Context, riderID uint, benefitIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(benefitIDs))
	if len(benefitIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		BenefitID uint
		Total     int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.BenefitUsage{}).
		Select("benefit_id, COUNT(*) AS total").
		Where("rider_id = ? AND benefit_id IN ?", riderID, benefitIDs).
		Group("benefit_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.BenefitID] = row.Total
	}
	return counts, nil
}

func (r *pgBenefitRepository) CreateUsage(ctx context.Context, usage *model.BenefitUsage) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(usage).Error
}

func (r *pgBenefitRepository) GetUsage(ctx context.Context, id uint) (*model.BenefitUsage, error) {
	var usage model.BenefitUsage
	err := r.db.WithContext(ctx).
		Preload("Rider.User").
		Preload("Benefit").
		First(&usage, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &usage, nil
}

func (r *pgBenefitRepository) ListUsages(ctx context.Context, filter UsageFilter) ([]model.BenefitUsage, error) {
	var usages []model.BenefitUsage
	q := r.db.WithContext(ctx).
		Preload("Rider.User").
		Preload("Benefit").
		Order("used_at DESC").Order("id DESC")
	if filter.RiderID != nil {
		q = q.Where("rider_id = ?", *filter.RiderID)
	}
	if filter.BenefitID != nil {
		q = q.Where("benefit_id = ?", *filter.BenefitID)
	}
	err := filter.Page.apply(q).Find(&usages).Error
	return usages, err
}
