package repository

import (
	"context"
	"time"

	"ridersclub/backend/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// FindFirstByUsernames returns the user matching the earliest candidate.
	FindFirstByUsernames(ctx context.Context, usernames []string) (*model.User, error)
	ExistsByUsernames(ctx context.Context, usernames []string) (bool, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
	Delete(ctx context.Context, id uint) error
}
