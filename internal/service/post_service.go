package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ridersclub/backend/internal/metrics"
	"ridersclub/backend/internal/model"
	"ridersclub/backend/internal/repository"
)

type PostInput struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Image   *string `json:"image"`
}

type LikeResult struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

type PostService interface {
	List(ctx context.Context, filter repository.PostFilter) ([]model.Post, error)
	Get(ctx context.Context, id uint) (*model.Post, error)
	Create(ctx context.Context, caller *model.User, in PostInput) (*model.Post, error)
	Update(ctx context.Context, caller *model.User, id uint, in PostInput) (*model.Post, error)
	Delete(ctx context.Context, caller *model.User, id uint) error
	// ToggleLike flips the caller's like on a post.
	ToggleLike(ctx context.Context, caller *model.User, id uint) (*LikeResult, error)
	// ViewerRiderID returns the caller's rider ID, or 0 when there is none.
	ViewerRiderID(ctx context.Context, caller *model.User) uint
}

type postService struct {
	repos *repository.Repositories
}

func NewPostService(repos *repository.Repositories) PostService {
	return &postService{repos: repos}
}

func (s *postService) List(ctx context.Context, filter repository.PostFilter) ([]model.Post, error) {
	posts, err := s.repos.Posts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *postService) Get(ctx context.Context, id uint) (*model.Post, error) {
	post, err := s.repos.Posts.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "load post")
	}
	return post, nil
}

func applyPost(post *model.Post, in PostInput) error {
	if in.Title != nil {
		post.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.Image != nil {
		post.Image = *in.Image
	}
	errs := fieldErrors{}
	if post.Title == "" {
		errs.add("title", "This field is required.")
	}
	if strings.TrimSpace(post.Content) == "" {
		errs.add("content", "This field is required.")
	}
	return errs.err()
}

func (s *postService) Create(ctx context.Context, caller *model.User, in PostInput) (*model.Post, error) {
	rider, err := riderFor(ctx, s.repos, caller)
	if err != nil {
		return nil, err
	}
	post := &model.Post{AuthorID: rider.ID}
	if err := applyPost(post, in); err != nil {
		return nil, err
	}
	if err := s.repos.Posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return s.Get(ctx, post.ID)
}

func (s *postService) authorize(ctx context.Context, caller *model.User, post *model.Post) error {
	if caller.IsStaff {
		return nil
	}
	rider, err := riderFor(ctx, s.repos, caller)
	if errors.Is(err, ErrRiderNotFound) {
		return ErrForbidden
	}
	if err != nil {
		return err
	}
	if rider.ID != post.AuthorID {
		return ErrForbidden
	}
	return nil
}

func (s *postService) Update(ctx context.Context, caller *model.User, id uint, in PostInput) (*model.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, caller, post); err != nil {
		return nil, err
	}
	if err := applyPost(post, in); err != nil {
		return nil, err
	}
	if err := s.repos.Posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *postService) Delete(ctx context.Context, caller *model.User, id uint) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, caller, post); err != nil {
		return err
	}
	if err := s.repos.Posts.Delete(ctx, id); err != nil {
		return lookupErr(err, "delete post")
	}
	return nil
}

func (s *postService) ToggleLike(ctx context.Context, caller *model.User, id uint) (*LikeResult, error) {
	rider, err := riderFor(ctx, s.repos, caller)
	if err != nil {
		return nil, err
	}

	res := &LikeResult{}
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Posts.LockByID(ctx, id); err != nil {
			return lookupErr(err, "lock post")
		}
		liked, err := tx.Posts.HasLike(ctx, id, rider.ID)
		if err != nil {
			return fmt.Errorf("check like: %w", err)
		}
		if liked {
			err = tx.Posts.RemoveLike(ctx, id, rider.ID)
		} else {
			err = tx.Posts.AddLike(ctx, id, rider.ID)
		}
		if err != nil {
			return fmt.Errorf("toggle like: %w", err)
		}
		res.Liked = !liked
		res.LikesCount, err = tx.Posts.CountLikes(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordLikeToggle(res.Liked)
	return res, nil
}

func (s *postService) ViewerRiderID(ctx context.Context, caller *model.User) uint {
	rider, err := riderFor(ctx, s.repos, caller)
	if err != nil {
		return 0
	}
	return rider.ID
}

var _ PostService = (*postService)(nil)
