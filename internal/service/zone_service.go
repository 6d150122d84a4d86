package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"ridersclub/backend/internal/model"
	"ridersclub/backend/internal/repository"
)

type ZoneInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type ZoneService interface {
	List(ctx context.Context, includeInactive bool) ([]model.Zone, error)
	Get(ctx context.Context, id uint, includeInactive bool) (*model.Zone, error)
	Create(ctx context.Context, in ZoneInput) (*model.Zone, error)
	Update(ctx context.Context, id uint, in ZoneInput) (*model.Zone, error)
	Delete(ctx context.Context, id uint) error
}

type zoneService struct {
	zones repository.ZoneRepository
}

func NewZoneService(zones repository.ZoneRepository) ZoneService {
	return &zoneService{zones: zones}
}

func (s *zoneService) List(ctx context.Context, includeInactive bool) ([]model.Zone, error) {
	zones, err := s.zones.List(ctx, !includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	return zones, nil
}

func (s *zoneService) Get(ctx context.Context, id uint, includeInactive bool) (*model.Zone, error) {
	zone, err := s.zones.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "load zone")
	}
	if !zone.IsActive && !includeInactive {
		return nil, ErrNotFound
	}
	return zone, nil
}

func (s *zoneService) checkName(ctx context.Context, name string, selfID uint) error {
	if name == "" {
		return &ValidationError{Fields: map[string]string{"name": "This field may not be blank."}}
	}
	existing, err := s.zones.GetByName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check zone name: %w", err)
	}
	if existing.ID != selfID {
		return &ValidationError{Fields: map[string]string{"name": "zone with this name already exists."}}
	}
	return nil
}

func (s *zoneService) Create(ctx context.Context, in ZoneInput) (*model.Zone, error) {
	zone := &model.Zone{IsActive: true}
	if in.Name != nil {
		zone.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		zone.Description = *in.Description
	}
	if in.IsActive != nil {
		zone.IsActive = *in.IsActive
	}
	if err := s.checkName(ctx, zone.Name, 0); err != nil {
		return nil, err
	}
	if err := s.zones.Create(ctx, zone); err != nil {
		return nil, fmt.Errorf("create zone: %w", err)
	}
	return zone, nil
}

func (s *zoneService) Update(ctx context.Context, id uint, in ZoneInput) (*model.Zone, error) {
	zone, err := s.zones.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "load zone")
	}
	if in.Name != nil {
		zone.Name = strings.TrimSpace(*in.Name)
		if err := s.checkName(ctx, zone.Name, zone.ID); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		zone.Description = *in.Description
	}
	if in.IsActive != nil {
		zone.IsActive = *in.IsActive
	}
	if err := s.zones.Update(ctx, zone); err != nil {
		return nil, fmt.Errorf("update zone: %w", err)
	}
	return zone, nil
}

func (s *zoneService) Delete(ctx context.Context, id uint) error {
	if err := s.zones.Delete(ctx, id); err != nil {
		return lookupErr(err, "delete zone")
	}
	return nil
}

var _ ZoneService = (*zoneService)(nil)
