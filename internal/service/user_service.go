package service

import (
	"context"
	"fmt"
	"strings"

	"ridersclub/backend/internal/model"
	"ridersclub/backend/internal/repository"
)

// UserPatch is a staff edit of an account. Staff cannot change their own
// is_staff or is_active flags.
type UserPatch struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	IsActive  *bool   `json:"is_active"`
	IsStaff   *bool   `json:"is_staff"`
}

// UserService is the staff account administration surface.
type UserService interface {
	Get(ctx context.Context, id uint) (*model.User, error)
	Update(ctx context.Context, caller *model.User, id uint, patch UserPatch) (*model.User, error)
	// Delete removes the account together with its rider profile and
	// everything the rider owns. Applications are kept, unlinked.
	Delete(ctx context.Context, caller *model.User, id uint) error
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Get(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "load user")
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, caller *model.User, id uint, patch UserPatch) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.ID == user.ID && (patch.IsActive != nil || patch.IsStaff != nil) {
		return nil, ErrForbidden
	}

	if patch.Email != nil {
		user.Email = strings.TrimSpace(*patch.Email)
	}
	if patch.FirstName != nil {
		user.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		user.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}
	if patch.IsStaff != nil {
		user.IsStaff = *patch.IsStaff
	}

	errs := fieldErrors{}
	if user.Email != "" && !strings.Contains(user.Email, "@") {
		errs.add("email", "Enter a valid email address.")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, caller *model.User, id uint) error {
	if caller.ID == id {
		return ErrForbidden
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return lookupErr(err, "delete user")
	}
	return nil
}

var _ UserService = (*userService)(nil)
