package repository

import (
	"context"

	"ridersclub/backend/internal/model"
)

type ApplicationFilter struct {
	// Email and UserID restrict results to one applicant. When both are set
	// an application matching either belongs to the applicant. An empty
	// email never matches.
	Email  *string
	UserID *uint
	Status model.ApplicationStatus
	Page
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *model.MembershipApplication) error
	GetByID(ctx context.Context, id uint) (*model.MembershipApplication, error)
	GetByUserID(ctx context.Context, userID uint) (*model.MembershipApplication, error)
	List(ctx context.Context, filter ApplicationFilter) ([]model.MembershipApplication, error)
	Update(ctx context.Context, app *model.MembershipApplication) error
	Delete(ctx context.Context, id uint) error
}
