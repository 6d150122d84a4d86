package model

import (
	"time"

	"gorm.io/gorm"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
	DiscountTypeSpecial    DiscountType = "special"
)

func (d DiscountType) Valid() bool {
	switch d {
	case DiscountTypePercentage, DiscountTypeFixed, DiscountTypeSpecial:
		return true
	}
	return false
}

var MembershipLevels = []string{"all", "basic", "premium", "vip"}

type BenefitCategory struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	Icon         string    `gorm:"type:varchar(50)" json:"icon"`
	Color        string    `gorm:"type:varchar(20)" json:"color"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (BenefitCategory) TableName() string { return "benefit_categories" }

type Benefit struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	Title           string       `gorm:"type:varchar(200);not null" json:"title"`
	Description     string       `gorm:"type:text" json:"description"`
	CategoryID      uint         `gorm:"not null;index" json:"category_id"`
	PartnerName     string       `gorm:"type:varchar(200);not null" json:"partner_name"`
	PartnerLogo     string       `gorm:"type:varchar(255)" json:"partner_logo"`
	PartnerWebsite  string       `gorm:"type:varchar(255)" json:"partner_website"`
	DiscountType    DiscountType `gorm:"type:varchar(20);not null;default:percentage" json:"discount_type"`
	DiscountValue   float64      `gorm:"type:decimal(10,2);not null;default:0" json:"discount_value"`
	DiscountText    string       `gorm:"type:varchar(200)" json:"discount_text"`
	TermsConditions string       `gorm:"type:text" json:"terms_conditions"`
	HowToAvail      string       `gorm:"type:text" json:"how_to_avail"`
	ContactInfo     string       `gorm:"type:varchar(255)" json:"contact_info"`
	ValidFrom       *time.Time   `json:"valid_from"`
	ValidUntil      *time.Time   `json:"valid_until"`
	UsageLimit      *int         `json:"usage_limit"`
	MembershipLevel string       `gorm:"type:varchar(20);not null;default:all" json:"membership_level"`
	IsActive        bool         `gorm:"not null;index" json:"is_active"`
	IsFeatured      bool         `gorm:"not null;default:false;index" json:"is_featured"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`

	Category BenefitCategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
	Zones    []Zone          `gorm:"many2many:benefit_zones;constraint:OnDelete:CASCADE" json:"-"`
}

func (Benefit) TableName() string { return "benefits" }

func (b *Benefit) BeforeSave(_ *gorm.DB) error {
	if b.ValidFrom != nil {
		from := b.ValidFrom.UTC()
		b.ValidFrom = &from
	}
	if b.ValidUntil != nil {
		until := b.ValidUntil.UTC()
		b.ValidUntil = &until
	}
	return nil
}

// WithinWindow reports whether now falls inside [valid_from, valid_until].
// Open ends are unbounded.
func (b *Benefit) WithinWindow(now time.Time) bool {
	if b.ValidFrom != nil && b.ValidFrom.After(now) {
		return false
	}
	if b.ValidUntil != nil && b.ValidUntil.Before(now) {
		return false
	}
	return true
}

// IsValid is the read-side eligibility flag: active and inside the window.
func (b *Benefit) IsValid(now time.Time) bool {
	return b.IsActive && b.WithinWindow(now)
}

// AvailableIn reports whether a rider in zoneID may see the benefit. A benefit
// with no zones is available everywhere; a rider without a zone only sees those.
func (b *Benefit) AvailableIn(zoneID *uint) bool {
	if len(b.Zones) == 0 {
		return true
	}
	if zoneID == nil {
		return false
	}
	for _, z := range b.Zones {
		if z.ID == *zoneID {
			return true
		}
	}
	return false
}

// BenefitUsage is an append-only redemption record.
type BenefitUsage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RiderID   uint      `gorm:"not null;index:idx_usage_rider_benefit" json:"rider_id"`
	BenefitID uint      `gorm:"not null;index:idx_usage_rider_benefit" json:"benefit_id"`
	UsedAt    time.Time `gorm:"autoCreateTime;index" json:"used_at"`
	Notes     string    `gorm:"type:text" json:"notes"`

	Rider   Rider   `gorm:"foreignKey:RiderID;constraint:OnDelete:CASCADE" json:"-"`
	Benefit Benefit `gorm:"foreignKey:BenefitID;constraint:OnDelete:CASCADE" json:"-"`
}

func (BenefitUsage) TableName() string { return "benefit_usages" }
