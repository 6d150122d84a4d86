package repository

import (
	"context"

	"gorm.io/gorm"

	"ridersclub/backend/internal/model"
)

type pgRiderRepository struct {
	db *gorm.DB
}

func NewPGRiderRepository(db *gorm.DB) RiderRepository {
	return &pgRiderRepository{db: db}
}

func (r *pgRiderRepository) Create(ctx context.Context, rider *model.Rider) error {
	return r.db.WithContext(ctx).Omit("User", "Zone").Create(rider).Error
}

func (r *pgRiderRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("User").Preload("Zone")
}

func (r *pgRiderRepository) GetByID(ctx context.Context, id uint) (*model.Rider, error) {
	var rider model.Rider
	if err := r.withRelations(ctx).First(&rider, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rider, nil
}

func (r *pgRiderRepository) GetByUserID(ctx context.Context, userID uint) (*model.Rider, error) {
	var rider model.Rider
	if err := r.withRelations(ctx).Where("user_id = ?", userID).First(&rider).Error; err != nil {
		return nil, err
	}
	return &rider, nil
}

func (r *pgRiderRepository) List(ctx context.Context, filter RiderFilter) ([]model.Rider, error) {
	var riders []model.Rider
	q := r.withRelations(ctx).Order("id ASC")
	if filter.ZoneID != nil {
		q = q.Where("zone_id = ?", *filter.ZoneID)
	}
	if filter.Featured != nil {
		q = q.Where("is_featured = ?", *filter.Featured)
	}
	err := filter.Page.apply(q).Find(&riders).Error
	return riders, err
}

func (r *pgRiderRepository) Update(ctx context.Context, rider *model.Rider) error {
	return r.db.WithContext(ctx).Omit("User", "Zone").Save(rider).Error
}

// Delete removes the rider together with everything it owns: organized
// events, authored posts, usage records and join rows.
func (r *pgRiderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteRiderRows(tx, id)
	})
}

func deleteRiderRows(tx *gorm.DB, riderID uint) error {
	var eventIDs, postIDs []uint
	if err := tx.Model(&model.RideEvent{}).Where("organizer_id = ?", riderID).Pluck("id", &eventIDs).Error; err != nil {
		return err
	}
	if err := tx.Model(&model.Post{}).Where("author_id = ?", riderID).Pluck("id", &postIDs).Error; err != nil {
		return err
	}
	steps := []func() error{
		func() error { return tx.Where("rider_id = ?", riderID).Delete(&model.EventParticipant{}).Error },
		func() error { return tx.Where("rider_id = ?", riderID).Delete(&model.PostLike{}).Error },
		func() error { return tx.Where("rider_id = ?", riderID).Delete(&model.BenefitUsage{}).Error },
		func() error {
			return tx.Model(&model.EventPhoto{}).Where("uploaded_by_id = ?", riderID).UpdateColumn("uploaded_by_id", nil).Error
		},
	}
	if len(eventIDs) > 0 {
		steps = append(steps,
			func() error { return tx.Where("ride_event_id IN ?", eventIDs).Delete(&model.EventParticipant{}).Error },
			func() error { return tx.Where("event_id IN ?", eventIDs).Delete(&model.EventPhoto{}).Error },
			func() error { return tx.Where("id IN ?", eventIDs).Delete(&model.RideEvent{}).Error },
		)
	}
	if len(postIDs) > 0 {
		steps = append(steps,
			func() error { return tx.Where("post_id IN ?", postIDs).Delete(&model.PostLike{}).Error },
			func() error { return tx.Where("id IN ?", postIDs).Delete(&model.Post{}).Error },
		)
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	res := tx.Delete(&model.Rider{}, "id = ?", riderID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
