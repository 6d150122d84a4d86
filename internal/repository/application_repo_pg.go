package repository

import (
	"context"

	"gorm.io/gorm"

	"ridersclub/backend/internal/model"
)

type pgApplicationRepository struct {
	db *gorm.DB
}

func NewPGApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &pgApplicationRepository{db: db}
}

func (r *pgApplicationRepository) Create(ctx context.Context, app *model.MembershipApplication) error {
	return r.db.WithContext(ctx).Omit("Zone", "User").Create(app).Error
}

func (r *pgApplicationRepository) GetByID(ctx context.Context, id uint) (*model.MembershipApplication, error) {
	var app model.MembershipApplication
	if err := r.db.WithContext(ctx).Preload("Zone").First(&app, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *pgApplicationRepository) GetByUserID(ctx context.Context, userID uint) (*model.MembershipApplication, error) {
	var app model.MembershipApplication
	if err := r.db.WithContext(ctx).Preload("Zone").Where("user_id = ?", userID).First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *pgApplicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]model.MembershipApplication, error) {
	var apps []model.MembershipApplication
	q := r.db.WithContext(ctx).Preload("Zone").Order("created_at DESC").Order("id DESC")
	switch {
	case filter.Email != nil && filter.UserID != nil:
		q = q.Where("(email = ? AND email <> '') OR user_id = ?", *filter.Email, *filter.UserID)
	case filter.Email != nil:
		q = q.Where("email = ? AND email <> ''", *filter.Email)
	case filter.UserID != nil:
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	err := filter.Page.apply(q).Find(&apps).Error
	return apps, err
}

func (r *pgApplicationRepository) Update(ctx context.Context, app *model.MembershipApplication) error {
	return r.db.WithContext(ctx).Omit("Zone", "User").Save(app).Error
}

func (r *pgApplicationRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &model.MembershipApplication{}, id)
}
