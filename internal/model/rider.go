package model

import "time"

type MembershipStatus string

const (
	MembershipStatusPending   MembershipStatus = "pending"
	MembershipStatusApproved  MembershipStatus = "approved"
	MembershipStatusRejected  MembershipStatus = "rejected"
	MembershipStatusSuspended MembershipStatus = "suspended"
)

func (s MembershipStatus) Valid() bool {
	switch s {
	case MembershipStatusPending, MembershipStatusApproved, MembershipStatusRejected, MembershipStatusSuspended:
		return true
	}
	return false
}

type Rider struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	UserID           uint             `gorm:"uniqueIndex;not null" json:"user_id"`
	Bio              string           `gorm:"type:text" json:"bio"`
	Location         string           `gorm:"type:varchar(100)" json:"location"`
	BikeModel        string           `gorm:"type:varchar(100)" json:"bike_model"`
	ProfileImage     string           `gorm:"type:varchar(255)" json:"profile_image"`
	MembershipStatus MembershipStatus `gorm:"type:varchar(20);not null;default:pending" json:"membership_status"`
	CustomUserType   string           `gorm:"type:varchar(100)" json:"custom_user_type"`
	IsFeatured       bool             `gorm:"not null;default:false;index" json:"is_featured"`
	ZoneID           *uint            `gorm:"index" json:"zone"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`

	User User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Zone *Zone `gorm:"foreignKey:ZoneID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Rider) TableName() string { return "riders" }
