package repository

import (
	"context"

	"ridersclub/backend/internal/model"
)

type PostFilter struct {
	AuthorID *uint
	Page
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id uint) (*model.Post, error)
	LockByID(ctx context.Context, id uint) (*model.Post, error)
	List(ctx context.Context, filter PostFilter) ([]model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id uint) error

	HasLike(ctx context.Context, postID, riderID uint) (bool, error)
	AddLike(ctx context.Context, postID, riderID uint) error
	RemoveLike(ctx context.Context, postID, riderID uint) error
	CountLikes(ctx context.Context, postID uint) (int64, error)
}
