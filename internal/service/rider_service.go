package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ridersclub/backend/internal/model"
	"ridersclub/backend/internal/repository"
)

// RiderPatch updates a rider profile. IsFeatured, MembershipStatus and
// ZoneID are reserved for staff.
type RiderPatch struct {
	Bio              *string                 `json:"bio"`
	Location         *string                 `json:"location"`
	BikeModel        *string                 `json:"bike_model"`
	ProfileImage     *string                 `json:"profile_image"`
	CustomUserType   *string                 `json:"custom_user_type"`
	IsFeatured       *bool                   `json:"is_featured"`
	MembershipStatus *model.MembershipStatus `json:"membership_status"`
	ZoneID           *uint                   `json:"zone"`
}

func (p RiderPatch) touchesStaffFields() bool {
	return p.IsFeatured != nil || p.MembershipStatus != nil || p.ZoneID != nil
}

type RiderService interface {
	List(ctx context.Context, filter repository.RiderFilter) ([]model.Rider, error)
	Featured(ctx context.Context) ([]model.Rider, error)
	Get(ctx context.Context, id uint) (*model.Rider, error)
	// ForUser returns the caller's rider profile or ErrRiderNotFound.
	ForUser(ctx context.Context, user *model.User) (*model.Rider, error)
	Update(ctx context.Context, caller *model.User, id uint, patch RiderPatch) (*model.Rider, error)
	Delete(ctx context.Context, id uint) error
}

type riderService struct {
	repos *repository.Repositories
}

func NewRiderService(repos *repository.Repositories) RiderService {
	return &riderService{repos: repos}
}

func (s *riderService) List(ctx context.Context, filter repository.RiderFilter) ([]model.Rider, error) {
	riders, err := s.repos.Riders.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list riders: %w", err)
	}
	return riders, nil
}

func (s *riderService) Featured(ctx context.Context) ([]model.Rider, error) {
	featured := true
	return s.List(ctx, repository.RiderFilter{Featured: &featured})
}

func (s *riderService) Get(ctx context.Context, id uint) (*model.Rider, error) {
	rider, err := s.repos.Riders.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "load rider")
	}
	return rider, nil
}

func (s *riderService) ForUser(ctx context.Context, user *model.User) (*model.Rider, error) {
	return riderFor(ctx, s.repos, user)
}

func riderFor(ctx context.Context, repos *repository.Repositories, user *model.User) (*model.Rider, error) {
	if user == nil {
		return nil, ErrRiderNotFound
	}
	rider, err := repos.Riders.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRiderNotFound
		}
		return nil, fmt.Errorf("load rider: %w", err)
	}
	return rider, nil
}

func (s *riderService) Update(ctx context.Context, caller *model.User, id uint, patch RiderPatch) (*model.Rider, error) {
	rider, err := s.repos.Riders.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "load rider")
	}
	if !caller.IsStaff && (rider.UserID != caller.ID || patch.touchesStaffFields()) {
		return nil, ErrForbidden
	}

	if patch.Bio != nil {
		rider.Bio = *patch.Bio
	}
	if patch.Location != nil {
		rider.Location = *patch.Location
	}
	if patch.BikeModel != nil {
		rider.BikeModel = *patch.BikeModel
	}
	if patch.ProfileImage != nil {
		rider.ProfileImage = *patch.ProfileImage
	}
	if patch.CustomUserType != nil {
		rider.CustomUserType = *patch.CustomUserType
	}
	if patch.IsFeatured != nil {
		rider.IsFeatured = *patch.IsFeatured
	}
	if patch.MembershipStatus != nil {
		if !patch.MembershipStatus.Valid() {
			return nil, &ValidationError{Fields: map[string]string{"membership_status": "Invalid choice."}}
		}
		rider.MembershipStatus = *patch.MembershipStatus
	}
	if patch.ZoneID != nil {
		if _, err := s.repos.Zones.GetByID(ctx, *patch.ZoneID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &ValidationError{Fields: map[string]string{"zone": "Invalid zone selected."}}
			}
			return nil, fmt.Errorf("load zone: %w", err)
		}
		rider.ZoneID = patch.ZoneID
	}

	if err := s.repos.Riders.Update(ctx, rider); err != nil {
		return nil, fmt.Errorf("update rider: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *riderService) Delete(ctx context.Context, id uint) error {
	if err := s.repos.Riders.Delete(ctx, id); err != nil {
		return lookupErr(err, "delete rider")
	}
	return nil
}

var _ RiderService = (*riderService)(nil)
