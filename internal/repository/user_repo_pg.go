package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"ridersclub/backend/internal/model"
)

type pgUserRepository struct {
	db *gorm.DB
}

func NewPGUserRepository(db *gorm.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *pgUserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *pgUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *pgUserRepository) FindFirstByUsernames(ctx context.Context, usernames []string) (*model.User, error) {
	for _, username := range usernames {
		user, err := r.GetByUsername(ctx, username)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *pgUserRepository) ExistsByUsernames(ctx context.Context, usernames []string) (bool, error) {
	if len(usernames) == 0 {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("username IN ?", usernames).Count(&count).Error
	return count > 0, err
}

func (r *pgUserRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *pgUserRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).
		Error
}

func (r *pgUserRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login", at).
		Error
}

func (r *pgUserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var riderIDs []uint
		if err := tx.Model(&model.Rider{}).Where("user_id = ?", id).Pluck("id", &riderIDs).Error; err != nil {
			return err
		}
		for _, riderID := range riderIDs {
			if err := deleteRiderRows(tx, riderID); err != nil {
				return err
			}
		}
		if err := tx.Model(&model.MembershipApplication{}).Where("user_id = ?", id).UpdateColumn("user_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Notice{}).Where("created_by_id = ?", id).UpdateColumn("created_by_id", nil).Error; err != nil {
			return err
		}
		return deleteByID(ctx, tx, &model.User{}, id)
	})
}
