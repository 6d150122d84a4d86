package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ridersclub/backend/internal/model"
)

type pgPostRepository struct {
	db *gorm.DB
}

func NewPGPostRepository(db *gorm.DB) PostRepository {
	return &pgPostRepository{db: db}
}

func (r *pgPostRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
}

func (r *pgPostRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Author.User").Preload("Likes")
}

func (r *pgPostRepository) GetByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.withRelations(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *pgPostRepository) LockByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *pgPostRepository) List(ctx context.Context, filter PostFilter) ([]model.Post, error) {
	var posts []model.Post
	q := r.withRelations(ctx).Order("created_at DESC").Order("id DESC")
	if filter.AuthorID != nil {
		q = q.Where("author_id = ?", *filter.AuthorID)
	}
	err := filter.Page.apply(q).Find(&posts).Error
	return posts, err
}

func (r *pgPostRepository) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(post).Error
}

func (r *pgPostRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.PostLike{}).Error; err != nil {
			return err
		}
		return deleteByID(ctx, tx, &model.Post{}, id)
	})
}

func (r *pgPostRepository) HasLike(ctx context.Context, postID, riderID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.PostLike{}).
		Where("post_id = ? AND rider_id = ?", postID, riderID).
		Count(&count).Error
	return count > 0, err
}

func (r *pgPostRepository) AddLike(ctx context.Context, postID, riderID uint) error {
	return r.db.WithContext(ctx).Create(&model.PostLike{PostID: postID, RiderID: riderID}).Error
}

func (r *pgPostRepository) RemoveLike(ctx context.Context, postID, riderID uint) error {
	return r.db.WithContext(ctx).
		Where("post_id = ? AND rider_id = ?", postID, riderID).
		Delete(&model.PostLike{}).Error
}

func (r *pgPostRepository) CountLikes(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.PostLike{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}
