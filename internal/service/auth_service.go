package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ridersclub/backend/internal/model"
	"ridersclub/backend/internal/repository"
	"ridersclub/backend/pkg/crypto"
	jwtpkg "ridersclub/backend/pkg/jwt"
	"ridersclub/backend/pkg/phone"
)

type LoginResult struct {
	Access  string
	Refresh string
	User    *model.User
}

// Profile is everything known about the signed-in member. Rider and
// Application are nil when the account has none.
type Profile struct {
	User        *model.User
	Rider       *model.Rider
	Application *model.MembershipApplication
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type ProfileUpdate struct {
	ZoneID    *uint   `json:"zone"`
	BikeModel *string `json:"bike_model"`
	Bio       *string `json:"bio"`
	Location  *string `json:"location"`
}

type AuthService interface {
	Login(ctx context.Context, phoneNumber, password string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
	// Authenticate resolves an access token to an active user.
	Authenticate(ctx context.Context, accessToken string) (*model.User, error)
	Profile(ctx context.Context, user *model.User) (*Profile, error)
	ChangePassword(ctx context.Context, user *model.User, in ChangePasswordInput) error
	UpdateProfile(ctx context.Context, user *model.User, in ProfileUpdate) (*Profile, error)
}

type authService struct {
	repos          *repository.Repositories
	denylist       repository.TokenDenylist
	jwtManager     *jwtpkg.Manager
	hasher         *crypto.Hasher
	minPasswordLen int
	logger         *zap.Logger
	now            func() time.Time
}

func NewAuthService(
	repos *repository.Repositories,
	denylist repository.TokenDenylist,
	jwtManager *jwtpkg.Manager,
	hasher *crypto.Hasher,
	minPasswordLen int,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repos:          repos,
		denylist:       denylist,
		jwtManager:     jwtManager,
		hasher:         hasher,
		minPasswordLen: minPasswordLen,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *authService) Login(ctx context.Context, phoneNumber, password string) (*LoginResult, error) {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" || password == "" {
		return nil, invalid("Phone number and password are required")
	}

	user, err := s.repos.Users.FindFirstByUsernames(ctx, phone.Candidates(phoneNumber))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.IsActive || !s.hasher.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	access, err := s.jwtManager.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, _, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	now := s.now().UTC()
	if err := s.repos.Users.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("failed to record last login", zap.Uint("user_id", user.ID), zap.Error(err))
	} else {
		user.LastLogin = &now
	}

	return &LoginResult{Access: access, Refresh: refresh, User: user}, nil
}

func (s *authService) parseRefresh(ctx context.Context, refreshToken string) (*jwtpkg.Claims, error) {
	claims, err := s.jwtManager.Validate(refreshToken)
	if err != nil || claims.TokenType != jwtpkg.TokenTypeRefresh {
		return nil, ErrRefreshTokenInvalid
	}
	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check token revocation: %w", err)
	}
	if revoked {
		return nil, ErrRefreshTokenInvalid
	}
	return claims, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.parseRefresh(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	user, err := s.repos.Users.GetByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return "", ErrRefreshTokenInvalid
	}
	return s.jwtManager.GenerateAccessToken(user.ID)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}
	claims, err := s.parseRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	return s.denylist.Revoke(ctx, claims.ID, claims.TTL(s.now()))
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (*model.User, error) {
	claims, err := s.jwtManager.Validate(accessToken)
	if err != nil || claims.TokenType != jwtpkg.TokenTypeAccess {
		return nil, ErrInvalidToken
	}
	user, err := s.repos.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidToken
	}
	return user, nil
}

func (s *authService) Profile(ctx context.Context, user *model.User) (*Profile, error) {
	return loadProfile(ctx, s.repos, user)
}

func loadProfile(ctx context.Context, repos *repository.Repositories, user *model.User) (*Profile, error) {
	p := &Profile{User: user}

	rider, err := repos.Riders.GetByUserID(ctx, user.ID)
	switch {
	case err == nil:
		p.Rider = rider
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("load rider: %w", err)
	}

	app, err := repos.Applications.GetByUserID(ctx, user.ID)
	switch {
	case err == nil:
		p.Application = app
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("load application: %w", err)
	}
	return p, nil
}

func (s *authService) ChangePassword(ctx context.Context, user *model.User, in ChangePasswordInput) error {
	if in.CurrentPassword == "" || in.NewPassword == "" || in.ConfirmPassword == "" {
		return invalid("Current password, new password, and confirmation are required")
	}
	if in.NewPassword != in.ConfirmPassword {
		return invalid("New passwords do not match")
	}
	if len(in.NewPassword) < s.minPasswordLen {
		return invalid(fmt.Sprintf("Password must be at least %d characters long", s.minPasswordLen))
	}
	if !s.hasher.CheckPassword(in.CurrentPassword, user.PasswordHash) {
		return invalid("Current password is incorrect")
	}

	hash, err := s.hasher.HashPassword(in.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repos.Users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	user.PasswordHash = hash
	return nil
}

func (s *authService) UpdateProfile(ctx context.Context, user *model.User, in ProfileUpdate) (*Profile, error) {
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		rider, err := tx.Riders.GetByUserID(ctx, user.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRiderNotFound
			}
			return fmt.Errorf("load rider: %w", err)
		}

		if in.ZoneID != nil {
			zone, err := tx.Zones.GetByID(ctx, *in.ZoneID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("load zone: %w", err)
			}
			if err != nil || !zone.IsActive {
				return &ValidationError{Fields: map[string]string{"zone": "Invalid zone selected"}}
			}
			rider.ZoneID = &zone.ID
		}
		if in.BikeModel != nil {
			rider.BikeModel = strings.TrimSpace(*in.BikeModel)
		}
		if in.Bio != nil {
			rider.Bio = *in.Bio
		}
		if in.Location != nil {
			rider.Location = *in.Location
		}
		if err := tx.Riders.Update(ctx, rider); err != nil {
			return fmt.Errorf("update rider: %w", err)
		}

		app, err := tx.Applications.GetByUserID(ctx, user.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load application: %w", err)
		}
		if in.ZoneID != nil {
			app.ZoneID = *rider.ZoneID
		}
		if in.BikeModel != nil {
			app.MotorcycleBrand, app.MotorcycleModel = model.SplitBikeModel(rider.BikeModel)
			app.HasMotorbike = app.MotorcycleBrand != ""
		}
		return tx.Applications.Update(ctx, app)
	})
	if err != nil {
		return nil, err
	}
	return loadProfile(ctx, s.repos, user)
}

var _ AuthService = (*authService)(nil)
