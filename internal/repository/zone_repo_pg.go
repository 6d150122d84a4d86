package repository

import (
	"context"

	"gorm.io/gorm"

	"ridersclub/backend/internal/model"
)

type pgZoneRepository struct {
	db *gorm.DB
}

func NewPGZoneRepository(db *gorm.DB) ZoneRepository {
	return &pgZoneRepository{db: db}
}

func (r *pgZoneRepository) Create(ctx context.Context, zone *model.Zone) error {
	return r.db.WithContext(ctx).Create(zone).Error
}

func (r *pgZoneRepository) GetByID(ctx context.Context, id uint) (*model.Zone, error) {
	var zone model.Zone
	if err := r.db.WithContext(ctx).First(&zone, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *pgZoneRepository) GetByName(ctx context.Context, name string) (*model.Zone, error) {
	var zone model.Zone
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&zone).Error; err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *pgZoneRepository) List(ctx context.Context, activeOnly bool) ([]model.Zone, error) {
	var zones []model.Zone
	q := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&zones).Error
	return zones, err
}

func (r *pgZoneRepository) ListByIDs(ctx context.Context, ids []uint) ([]model.Zone, error) {
	var zones []model.Zone
	if len(ids) == 0 {
		return zones, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&zones).Error
	return zones, err
}

func (r *pgZoneRepository) Update(ctx context.Context, zone *model.Zone) error {
	return r.db.WithContext(ctx).Save(zone).Error
}

// Delete clears rider and event references to the zone, drops it from
// benefit scoping and removes applications filed under it.
func (r *pgZoneRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Rider{}).Where("zone_id = ?", id).UpdateColumn("zone_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.RideEvent{}).Where("zone_id = ?", id).UpdateColumn("zone_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM benefit_zones WHERE zone_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("zone_id = ?", id).Delete(&model.MembershipApplication{}).Error; err != nil {
			return err
		}
		return deleteByID(ctx, tx, &model.Zone{}, id)
	})
}

// deleteByID deletes one row and reports gorm.ErrRecordNotFound when
// nothing matched.
func deleteByID(ctx context.Context, db *gorm.DB, value interface{}, id uint) error {
	res := db.WithContext(ctx).Delete(value, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
