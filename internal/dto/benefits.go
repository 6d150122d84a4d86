package dto

import (
	"time"

	"ridersclub/backend/internal/model"
	"ridersclub/backend/internal/service"
)

type BenefitCategory struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Icon         string    `json:"icon"`
	Color        string    `json:"color"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewBenefitCategory(c *model.BenefitCategory) BenefitCategory {
	return BenefitCategory{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		Icon:         c.Icon,
		Color:        c.Color,
		DisplayOrder: c.DisplayOrder,
		IsActive:     c.IsActive,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func NewBenefitCategories(list []model.BenefitCategory) []BenefitCategory {
	out := make([]BenefitCategory, 0, len(list))
	for i := range list {
		out = append(out, NewBenefitCategory(&list[i]))
	}
	return out
}

type Benefit struct {
	ID              uint             `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Category        uint             `json:"category"`
	CategoryDetail  *BenefitCategory `json:"category_detail"`
	PartnerName     string           `json:"partner_name"`
	PartnerLogo     string           `json:"partner_logo"`
	PartnerWebsite  string           `json:"partner_website"`
	DiscountType    string           `json:"discount_type"`
	DiscountValue   float64          `json:"discount_value"`
	DiscountText    string           `json:"discount_text"`
	TermsConditions string           `json:"terms_conditions"`
	HowToAvail      string           `json:"how_to_avail"`
	ContactInfo     string           `json:"contact_info"`
	ValidFrom       *time.Time       `json:"valid_from"`
	ValidUntil      *time.Time       `json:"valid_until"`
	UsageLimit      *int             `json:"usage_limit"`
	MembershipLevel string           `json:"membership_level"`
	IsActive        bool             `json:"is_active"`
	IsFeatured      bool             `json:"is_featured"`
	Zones           []uint           `json:"zones"`
	ZoneNames       []string         `json:"zone_names"`
	IsValid         bool             `json:"is_valid"`
	UsageCount      int64            `json:"usage_count"`
	CanUse          bool             `json:"can_use"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func NewBenefit(v *service.BenefitView, now time.Time, m Media) Benefit {
	b := &v.Benefit
	out := Benefit{
		ID:              b.ID,
		Title:           b.Title,
		Description:     b.Description,
		Category:        b.CategoryID,
		PartnerName:     b.PartnerName,
		PartnerLogo:     m.URL(b.PartnerLogo),
		PartnerWebsite:  b.PartnerWebsite,
		DiscountType:    string(b.DiscountType),
		DiscountValue:   b.DiscountValue,
		DiscountText:    b.DiscountText,
		TermsConditions: b.TermsConditions,
		HowToAvail:      b.HowToAvail,
		ContactInfo:     b.ContactInfo,
		ValidFrom:       b.ValidFrom,
		ValidUntil:      b.ValidUntil,
		UsageLimit:      b.UsageLimit,
		MembershipLevel: b.MembershipLevel,
		IsActive:        b.IsActive,
		IsFeatured:      b.IsFeatured,
		Zones:           make([]uint, 0, len(b.Zones)),
		ZoneNames:       make([]string, 0, len(b.Zones)),
		IsValid:         b.IsValid(now),
		UsageCount:      v.UsageCount,
		CanUse:          v.CanUse,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if b.Category.ID != 0 {
		c := NewBenefitCategory(&b.Category)
		out.CategoryDetail = &c
	}
	for _, z := range b.Zones {
		out.Zones = append(out.Zones, z.ID)
		out.ZoneNames = append(out.ZoneNames, z.Name)
	}
	return out
}

func NewBenefits(list []service.BenefitView, now time.Time, m Media) []Benefit {
	out := make([]Benefit, 0, len(list))
	for i := range list {
		out = append(out, NewBenefit(&list[i], now, m))
	}
	return out
}

type CategoryGroup struct {
	Category BenefitCategory `json:"category"`
	Benefits []Benefit       `json:"benefits"`
}

func NewCategoryGroups(groups []service.CategoryGroup, now time.Time, m Media) []CategoryGroup {
	out := make([]CategoryGroup, 0, len(groups))
	for i := range groups {
		out = append(out, CategoryGroup{
			Category: NewBenefitCategory(&groups[i].Category),
			Benefits: NewBenefits(groups[i].Benefits, now, m),
		})
	}
	return out
}

type BenefitUsage struct {
	ID           uint      `json:"id"`
	Rider        uint      `json:"rider"`
	RiderName    string    `json:"rider_name"`
	Benefit      uint      `json:"benefit"`
	BenefitTitle string    `json:"benefit_title"`
	UsedAt       time.Time `json:"used_at"`
	Notes        string    `json:"notes"`
}

func NewBenefitUsage(u *model.BenefitUsage) BenefitUsage {
	return BenefitUsage{
		ID:           u.ID,
		Rider:        u.RiderID,
		RiderName:    u.Rider.User.FullName(),
		Benefit:      u.BenefitID,
		BenefitTitle: u.Benefit.Title,
		UsedAt:       u.UsedAt,
		Notes:        u.Notes,
	}
}

func NewBenefitUsages(list []model.BenefitUsage) []BenefitUsage {
	out := make([]BenefitUsage, 0, len(list))
	for i := range list {
		out = append(out, NewBenefitUsage(&list[i]))
	}
	return out
}
