package model

import (
	"strings"
	"time"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

var IDDocumentTypes = []string{"nid", "birth_certificate", "passport"}

var RidingExperiences = []string{"beginner", "intermediate", "advanced", "expert"}

type MembershipApplication struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Personal information
	ProfilePhoto     string    `gorm:"type:varchar(255)" json:"profile_photo"`
	FullName         string    `gorm:"type:varchar(200);not null" json:"full_name"`
	Email            string    `gorm:"type:varchar(254);index" json:"email"`
	Phone            string    `gorm:"type:varchar(20);not null;index" json:"phone"`
	AlternativePhone string    `gorm:"type:varchar(20)" json:"alternative_phone"`
	DateOfBirth      time.Time `gorm:"type:date;not null" json:"date_of_birth"`
	BloodGroup       string    `gorm:"type:varchar(3);not null" json:"blood_group"`
	Profession       string    `gorm:"type:varchar(200);not null" json:"profession"`
	Hobbies          string    `gorm:"type:text" json:"hobbies"`
	Address          string    `gorm:"type:text;not null" json:"address"`
	ZoneID           uint      `gorm:"not null;index" json:"zone"`

	// Identity verification
	IDDocumentType   string `gorm:"type:varchar(20);not null" json:"id_document_type"`
	IDDocumentNumber string `gorm:"type:varchar(50);not null" json:"id_document_number"`
	IDDocumentPhoto  string `gorm:"type:varchar(255)" json:"id_document_photo"`
	HoldingIDPhoto   string `gorm:"type:varchar(255)" json:"holding_id_photo"`

	EmergencyContact string `gorm:"type:varchar(200);not null" json:"emergency_contact"`
	EmergencyPhone   string `gorm:"type:varchar(20);not null" json:"emergency_phone"`

	// Motorcycle information
	HasMotorbike     bool   `gorm:"not null;default:false" json:"has_motorbike"`
	MotorcycleBrand  string `gorm:"type:varchar(100)" json:"motorcycle_brand"`
	MotorcycleModel  string `gorm:"type:varchar(100)" json:"motorcycle_model"`
	MotorcycleYear   *int   `json:"motorcycle_year"`
	RidingExperience string `gorm:"type:varchar(20);not null;default:beginner" json:"riding_experience"`

	CitizenshipConfirm bool              `gorm:"not null;default:false" json:"citizenship_confirm"`
	AgreeTerms         bool              `gorm:"not null;default:false" json:"agree_terms"`
	Status             ApplicationStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
	ReviewedAt         *time.Time        `json:"reviewed_at,omitempty"`

	UserID *uint `gorm:"uniqueIndex" json:"user"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Zone Zone  `gorm:"foreignKey:ZoneID;constraint:OnDelete:CASCADE" json:"-"`
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
}

func (MembershipApplication) TableName() string { return "membership_applications" }

// BikeInfo renders "brand model" for members who declared a motorcycle.
func (a *MembershipApplication) BikeInfo() string {
	if !a.HasMotorbike {
		return ""
	}
	return strings.TrimSpace(a.MotorcycleBrand + " " + a.MotorcycleModel)
}

// CanTransitionTo reports whether the review status change is allowed.
// Only pending applications may be approved or rejected.
func (a *MembershipApplication) CanTransitionTo(next ApplicationStatus) bool {
	if a.Status != ApplicationStatusPending {
		return false
	}
	return next == ApplicationStatusApproved || next == ApplicationStatusRejected
}

// SplitBikeModel splits "Brand Model Name" into brand and model at the
// first whitespace. A single word is treated as the brand.
func SplitBikeModel(bike string) (brand, model string) {
	fields := strings.Fields(bike)
	if len(fields) == 0 {
		return "", ""
	}
	brand = fields[0]
	if len(fields) > 1 {
		model = strings.Join(fields[1:], " ")
	}
	return brand, model
}
