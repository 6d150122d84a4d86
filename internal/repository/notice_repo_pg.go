package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ridersclub/backend/internal/model"
)

type pgNoticeRepository struct {
	db *gorm.DB
}

func NewPGNoticeRepository(db *gorm.DB) NoticeRepository {
	return &pgNoticeRepository{db: db}
}

func (r *pgNoticeRepository) Create(ctx context.Context, notice *model.Notice) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(notice).Error
}

func (r *pgNoticeRepository) GetByID(ctx context.Context, id uint) (*model.Notice, error) {
	var notice model.Notice
	if err := r.db.WithContext(ctx).Preload("CreatedBy").First(&notice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &notice, nil
}

func (r *pgNoticeRepository) List(ctx context.Context, filter NoticeFilter) ([]model.Notice, error) {
	var notices []model.Notice
	q := r.db.WithContext(ctx).Preload("CreatedBy")
	if filter.ActiveAt != nil {
		now := filter.ActiveAt.UTC()
		q = q.Where("is_active = ?", true).
			Where("start_date <= ?", now).
			Where("end_date IS NULL OR end_date > ?", now)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	q = q.Order(model.NoticePriorityOrder).Order("created_at DESC").Order("id DESC")
	err := filter.Page.apply(q).Find(&notices).Error
	return notices, err
}

func (r *pgNoticeRepository) Update(ctx context.Context, notice *model.Notice) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(notice).Error
}

func (r *pgNoticeRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &model.Notice{}, id)
}
