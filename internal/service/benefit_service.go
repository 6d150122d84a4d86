package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ridersclub/backend/internal/events"
	"ridersclub/backend/internal/metrics"
	"ridersclub/backend/internal/model"
	"ridersclub/backend/internal/repository"
)

type CategoryInput struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Icon         *string `json:"icon"`
	Color        *string `json:"color"`
	DisplayOrder *int    `json:"display_order"`
	IsActive     *bool   `json:"is_active"`
}

type BenefitInput struct {
	Title           *string             `json:"title"`
	Description     *string             `json:"description"`
	CategoryID      *uint               `json:"category"`
	PartnerName     *string             `json:"partner_name"`
	PartnerLogo     *string             `json:"partner_logo"`
	PartnerWebsite  *string             `json:"partner_website"`
	DiscountType    *model.DiscountType `json:"discount_type"`
	DiscountValue   *float64            `json:"discount_value"`
	DiscountText    *string             `json:"discount_text"`
	TermsConditions *string             `json:"terms_conditions"`
	HowToAvail      *string             `json:"how_to_avail"`
	ContactInfo     *string             `json:"contact_info"`
	ValidFrom       Nullable[time.Time] `json:"valid_from"`
	ValidUntil      Nullable[time.Time] `json:"valid_until"`
	UsageLimit      Nullable[int]       `json:"usage_limit"`
	MembershipLevel *string             `json:"membership_level"`
	IsActive        *bool               `json:"is_active"`
	IsFeatured      *bool               `json:"is_featured"`
	// ZoneIDs replaces the zone set when non-nil; an empty list means all zones.
	ZoneIDs []uint `json:"zones"`
}

// UsageQuery filters redemption records. RiderID is honoured for staff
// only; other callers always see their own records.
type UsageQuery struct {
	RiderID   *uint
	BenefitID *uint
	Page      repository.Page
}

type BenefitQuery struct {
	CategoryID *uint
	Featured   *bool
	Page       repository.Page
}

// BenefitView is a benefit as seen by one caller.
type BenefitView struct {
	Benefit    model.Benefit
	UsageCount int64
	CanUse     bool
}

type CategoryGroup struct {
	Category model.BenefitCategory
	Benefits []BenefitView
}

type BenefitService interface {
	ListCategories(ctx context.Context, caller *model.User) ([]model.BenefitCategory, error)
	GetCategory(ctx context.Context, caller *model.User, id uint) (*model.BenefitCategory, error)
	CreateCategory(ctx context.Context, in CategoryInput) (*model.BenefitCategory, error)
	UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*model.BenefitCategory, error)
	DeleteCategory(ctx context.Context, id uint) error

	List(ctx context.Context, caller *model.User, q BenefitQuery) ([]BenefitView, error)
	Featured(ctx context.Context, caller *model.User) ([]BenefitView, error)
	ByCategory(ctx context.Context, caller *model.User) ([]CategoryGroup, error)
	Get(ctx context.Context, caller *model.User, id uint) (*BenefitView, error)
	Create(ctx context.Context, in BenefitInput) (*BenefitView, error)
	Update(ctx context.Context, id uint, in BenefitInput) (*BenefitView, error)
	Delete(ctx context.Context, id uint) error

	// Use records one redemption of the benefit by the caller's rider.
	Use(ctx context.Context, caller *model.User, id uint, notes string) (*model.BenefitUsage, error)
	ListUsages(ctx context.Context, caller *model.User, q UsageQuery) ([]model.BenefitUsage, error)
	GetUsage(ctx context.Context, caller *model.User, id uint) (*model.BenefitUsage, error)
}

type benefitService struct {
	repos     *repository.Repositories
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewBenefitService(repos *repository.Repositories, publisher events.Publisher, logger *zap.Logger) BenefitService {
	return &benefitService{
		repos:     repos,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func isStaff(u *model.User) bool { return u != nil && u.IsStaff }

func (s *benefitService) ListCategories(ctx context.Context, caller *model.User) ([]model.BenefitCategory, error) {
	categories, err := s.repos.Benefits.ListCategories(ctx, !isStaff(caller))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *benefitService) GetCategory(ctx context.Context, caller *model.User, id uint) (*model.BenefitCategory, error) {
	category, err := s.repos.Benefits.GetCategory(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "load category")
	}
	if !category.IsActive && !isStaff(caller) {
		return nil, ErrNotFound
	}
	return category, nil
}

func applyCategory(category *model.BenefitCategory, in CategoryInput) error {
	if in.Name != nil {
		category.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		category.Description = *in.Description
	}
	if in.Icon != nil {
		category.Icon = *in.Icon
	}
	if in.Color != nil {
		category.Color = *in.Color
	}
	if in.DisplayOrder != nil {
		category.DisplayOrder = *in.DisplayOrder
	}
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}
	if category.Name == "" {
		return &ValidationError{Fields: map[string]string{"name": "This field is required."}}
	}
	return nil
}

func (s *benefitService) CreateCategory(ctx context.Context, in CategoryInput) (*model.BenefitCategory, error) {
	category := &model.BenefitCategory{IsActive: true}
	if err := applyCategory(category, in); err != nil {
		return nil, err
	}
	if err := s.repos.Benefits.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *benefitService) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*model.BenefitCategory, error) {
	category, err := s.repos.Benefits.GetCategory(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "load category")
	}
	if err := applyCategory(category, in); err != nil {
		return nil, err
	}
	if err := s.repos.Benefits.UpdateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

func (s *benefitService) DeleteCategory(ctx context.Context, id uint) error {
	if err := s.repos.Benefits.DeleteCategory(ctx, id); err != nil {
		return lookupErr(err, "delete category")
	}
	return nil
}

// scope describes what a caller may see: staff see everything; others
// only valid benefits, narrowed to their zone when they have a rider.
type scope struct {
	staff bool
	rider *model.Rider
	now   time.Time
}

func (s *benefitService) scopeFor(ctx context.Context, caller *model.User) (scope, error) {
	sc := scope{staff: isStaff(caller), now: s.now()}
	if caller == nil {
		return sc, nil
	}
	rider, err := riderFor(ctx, s.repos, caller)
	switch {
	case err == nil:
		sc.rider = rider
	case !errors.Is(err, ErrRiderNotFound):
		return sc, err
	}
	return sc, nil
}

func (sc scope) filter(q BenefitQuery) repository.BenefitFilter {
	f := repository.BenefitFilter{CategoryID: q.CategoryID, Featured: q.Featured, Page: q.Page}
	if sc.staff {
		return f
	}
	now := sc.now
	f.VisibleAt = &now
	if sc.rider != nil {
		f.RestrictZone = true
		f.ZoneID = sc.rider.ZoneID
	}
	return f
}

func (sc scope) visible(b *model.Benefit) bool {
	if sc.staff {
		return true
	}
	if !b.IsValid(sc.now) {
		return false
	}
	return sc.rider == nil || b.AvailableIn(sc.rider.ZoneID)
}

func (s *benefitService) views(ctx context.Context, sc scope, list []model.Benefit) ([]BenefitView, error) {
	out := make([]BenefitView, 0, len(list))
	counts := map[uint]int64{}
	if sc.rider != nil && len(list) > 0 {
		ids := make([]uint, 0, len(list))
		for _, b := range list {
			ids = append(ids, b.ID)
		}
		var err error
		counts, err = s.repos.Benefits.UsageCounts(ctx, sc.rider.ID, ids)
		if err != nil {
			return nil, fmt.Errorf("count usages: %w", err)
		}
	}
	for _, b := range list {
		v := BenefitView{Benefit: b, UsageCount: counts[b.ID]}
		if sc.rider != nil {
			v.CanUse = b.IsValid(sc.now) &&
				b.AvailableIn(sc.rider.ZoneID) &&
				(b.UsageLimit == nil || v.UsageCount < int64(*b.UsageLimit))
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *benefitService) List(ctx context.Context, caller *model.User, q BenefitQuery) ([]BenefitView, error) {
	sc, err := s.scopeFor(ctx, caller)
	if err != nil {
		return nil, err
	}
	list, err := s.repos.Benefits.List(ctx, sc.filter(q))
	if err != nil {
		return nil, fmt.Errorf("list benefits: %w", err)
	}
	return s.views(ctx, sc, list)
}

func (s *benefitService) Featured(ctx context.Context, caller *model.User) ([]BenefitView, error) {
	featured := true
	return s.List(ctx, caller, BenefitQuery{Featured: &featured})
}

func (s *benefitService) ByCategory(ctx context.Context, caller *model.User) ([]CategoryGroup, error) {
	sc, err := s.scopeFor(ctx, caller)
	if err != nil {
		return nil, err
	}
	categories, err := s.repos.Benefits.ListCategories(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	groups := make([]CategoryGroup, 0, len(categories))
	for _, c := range categories {
		id := c.ID
		list, err := s.repos.Benefits.List(ctx, sc.filter(BenefitQuery{CategoryID: &id}))
		if err != nil {
			return nil, fmt.Errorf("list benefits: %w", err)
		}
		if len(list) == 0 {
			continue
		}
		views, err := s.views(ctx, sc, list)
		if err != nil {
			return nil, err
		}
		groups = append(groups, CategoryGroup{Category: c, Benefits: views})
	}
	return groups, nil
}

func (s *benefitService) Get(ctx context.Context, caller *model.User, id uint) (*BenefitView, error) {
	sc, err := s.scopeFor(ctx, caller)
	if err != nil {
		return nil, err
	}
	b, err := s.repos.Benefits.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "load benefit")
	}
	if !sc.visible(b) {
		return nil, ErrNotFound
	}
	views, err := s.views(ctx, sc, []model.Benefit{*b})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *benefitService) apply(ctx context.Context, b *model.Benefit, in BenefitInput) error {
	errs := fieldErrors{}
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&b.Title, in.Title)
	setString(&b.Description, in.Description)
	setString(&b.PartnerName, in.PartnerName)
	setString(&b.PartnerLogo, in.PartnerLogo)
	setString(&b.PartnerWebsite, in.PartnerWebsite)
	setString(&b.DiscountText, in.DiscountText)
	setString(&b.TermsConditions, in.TermsConditions)
	setString(&b.HowToAvail, in.HowToAvail)
	setString(&b.ContactInfo, in.ContactInfo)
	b.Title = strings.TrimSpace(b.Title)

	if in.CategoryID != nil {
		if _, err := s.repos.Benefits.GetCategory(ctx, *in.CategoryID); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("load category: %w", err)
			}
			errs.add("category", "Invalid category selected.")
		} else {
			b.CategoryID = *in.CategoryID
		}
	}
	if in.DiscountType != nil {
		if !in.DiscountType.Valid() {
			errs.add("discount_type", strconv.Quote(string(*in.DiscountType))+" is not a valid choice.")
		}
		b.DiscountType = *in.DiscountType
	}
	if in.DiscountValue != nil {
		b.DiscountValue = *in.DiscountValue
	}
	in.ValidFrom.assign(&b.ValidFrom)
	in.ValidUntil.assign(&b.ValidUntil)
	if in.UsageLimit.Value != nil && *in.UsageLimit.Value < 1 {
		errs.add("usage_limit", "Ensure this value is greater than or equal to 1.")
	}
	in.UsageLimit.assign(&b.UsageLimit)
	if in.MembershipLevel != nil {
		if !contains(model.MembershipLevels, *in.MembershipLevel) {
			errs.add("membership_level", strconv.Quote(*in.MembershipLevel)+" is not a valid choice.")
		}
		b.MembershipLevel = *in.MembershipLevel
	}
	if in.IsActive != nil {
		b.IsActive = *in.IsActive
	}
	if in.IsFeatured != nil {
		b.IsFeatured = *in.IsFeatured
	}
	if len(in.ZoneIDs) > 0 {
		zones, err := s.repos.Zones.ListByIDs(ctx, in.ZoneIDs)
		if err != nil {
			return fmt.Errorf("load zones: %w", err)
		}
		if len(zones) != len(uniqueIDs(in.ZoneIDs)) {
			errs.add("zones", "Invalid zone selected.")
		}
	}

	if b.Title == "" {
		errs.add("title", "This field is required.")
	}
	if strings.TrimSpace(b.PartnerName) == "" {
		errs.add("partner_name", "This field is required.")
	}
	if b.CategoryID == 0 {
		errs.add("category", "This field is required.")
	}
	if b.ValidFrom != nil && b.ValidUntil != nil && b.ValidUntil.Before(*b.ValidFrom) {
		errs.add("valid_until", "Valid until must not be before valid from.")
	}
	return errs.err()
}

func uniqueIDs(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s *benefitService) Create(ctx context.Context, in BenefitInput) (*BenefitView, error) {
	b := &model.Benefit{
		DiscountType:    model.DiscountTypePercentage,
		MembershipLevel: model.MembershipLevels[0],
		IsActive:        true,
	}
	if err := s.apply(ctx, b, in); err != nil {
		return nil, err
	}
	zoneIDs := in.ZoneIDs
	if zoneIDs == nil {
		zoneIDs = []uint{}
	}
	if err := s.repos.Benefits.Create(ctx, b, zoneIDs); err != nil {
		return nil, fmt.Errorf("create benefit: %w", err)
	}
	return s.staffView(ctx, b.ID)
}

func (s *benefitService) staffView(ctx context.Context, id uint) (*BenefitView, error) {
	b, err := s.repos.Benefits.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "load benefit")
	}
	return &BenefitView{Benefit: *b}, nil
}

func (s *benefitService) Update(ctx context.Context, id uint, in BenefitInput) (*BenefitView, error) {
	b, err := s.repos.Benefits.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "load benefit")
	}
	if err := s.apply(ctx, b, in); err != nil {
		return nil, err
	}
	if err := s.repos.Benefits.Update(ctx, b, in.ZoneIDs); err != nil {
		return nil, fmt.Errorf("update benefit: %w", err)
	}
	return s.staffView(ctx, id)
}

func (s *benefitService) Delete(ctx context.Context, id uint) error {
	if err := s.repos.Benefits.Delete(ctx, id); err != nil {
		return lookupErr(err, "delete benefit")
	}
	return nil
}

func (s *benefitService) Use(ctx context.Context, caller *model.User, id uint, notes string) (*model.BenefitUsage, error) {
	rider, err := riderFor(ctx, s.repos, caller)
	if err != nil {
		return nil, err
	}

	usage := &model.BenefitUsage{RiderID: rider.ID, BenefitID: id, Notes: notes}
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Benefits.LockByID(ctx, id); err != nil {
			return lookupErr(err, "lock benefit")
		}
		b, err := tx.Benefits.GetByID(ctx, id)
		if err != nil {
			return lookupErr(err, "load benefit")
		}
		if !isStaff(caller) && !b.AvailableIn(rider.ZoneID) {
			return ErrNotFound
		}

		if b.UsageLimit != nil {
			used, err := tx.Benefits.CountUsages(ctx, rider.ID, id)
			if err != nil {
				return fmt.Errorf("count usages: %w", err)
			}
			if used >= int64(*b.UsageLimit) {
				return ErrUsageLimitReached
			}
		}
		now := s.now()
		if b.ValidUntil != nil && b.ValidUntil.Before(now) {
			return ErrBenefitExpired
		}
		if b.ValidFrom != nil && b.ValidFrom.After(now) {
			return ErrBenefitNotYetValid
		}
		if !b.IsActive {
			return ErrBenefitInactive
		}
		return tx.Benefits.CreateUsage(ctx, usage)
	})
	if err != nil {
		metrics.RecordRedemption(redemptionResult(err))
		return nil, err
	}

	metrics.RecordRedemption("ok")
	publish(ctx, s.publisher, s.logger, events.New(events.TypeBenefitUsed, strconv.FormatUint(uint64(usage.ID), 10), map[string]interface{}{
		"usage_id":   usage.ID,
		"benefit_id": id,
		"rider_id":   rider.ID,
	}))
	return s.repos.Benefits.GetUsage(ctx, usage.ID)
}

func redemptionResult(err error) string {
	switch {
	case errors.Is(err, ErrUsageLimitReached):
		return "limit_reached"
	case errors.Is(err, ErrBenefitExpired):
		return "expired"
	case errors.Is(err, ErrBenefitNotYetValid):
		return "not_yet_valid"
	case errors.Is(err, ErrBenefitInactive):
		return "inactive"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	}
	return "error"
}

func (s *benefitService) ListUsages(ctx context.Context, caller *model.User, q UsageQuery) ([]model.BenefitUsage, error) {
	filter := repository.UsageFilter{BenefitID: q.BenefitID, Page: q.Page}
	if isStaff(caller) {
		filter.RiderID = q.RiderID
	} else {
		rider, err := riderFor(ctx, s.repos, caller)
		if errors.Is(err, ErrRiderNotFound) {
			return []model.BenefitUsage{}, nil
		}
		if err != nil {
			return nil, err
		}
		filter.RiderID = &rider.ID
	}
	usages, err := s.repos.Benefits.ListUsages(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list usages: %w", err)
	}
	return usages, nil
}

func (s *benefitService) GetUsage(ctx context.Context, caller *model.User, id uint) (*model.BenefitUsage, error) {
	usage, err := s.repos.Benefits.GetUsage(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "load usage")
	}
	if isStaff(caller) {
		return usage, nil
	}
	rider, err := riderFor(ctx, s.repos, caller)
	if errors.Is(err, ErrRiderNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if usage.RiderID != rider.ID {
		return nil, ErrNotFound
	}
	return usage, nil
}

var _ BenefitService = (*benefitService)(nil)
