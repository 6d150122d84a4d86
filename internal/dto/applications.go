package dto

import (
	"time"

	"ridersclub/backend/internal/model"
)

type MembershipApplication struct {
	ID                 uint       `json:"id"`
	ProfilePhoto       string     `json:"profile_photo"`
	FullName           string     `json:"full_name"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	AlternativePhone   string     `json:"alternative_phone"`
	DateOfBirth        string     `json:"date_of_birth"`
	BloodGroup         string     `json:"blood_group"`
	Profession         string     `json:"profession"`
	Hobbies            string     `json:"hobbies"`
	Address            string     `json:"address"`
	Zone               uint       `json:"zone"`
	ZoneName           string     `json:"zone_name"`
	IDDocumentType     string     `json:"id_document_type"`
	IDDocumentNumber   string     `json:"id_document_number"`
	IDDocumentPhoto    string     `json:"id_document_photo"`
	HoldingIDPhoto     string     `json:"holding_id_photo"`
	EmergencyContact   string     `json:"emergency_contact"`
	EmergencyPhone     string     `json:"emergency_phone"`
	HasMotorbike       bool       `json:"has_motorbike"`
	MotorcycleBrand    string     `json:"motorcycle_brand"`
	MotorcycleModel    string     `json:"motorcycle_model"`
	MotorcycleYear     *int       `json:"motorcycle_year"`
	RidingExperience   string     `json:"riding_experience"`
	CitizenshipConfirm bool       `json:"citizenship_confirm"`
	AgreeTerms         bool       `json:"agree_terms"`
	Status             string     `json:"status"`
	ReviewedAt         *time.Time `json:"reviewed_at"`
	User               *uint      `json:"user"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func NewMembershipApplication(a *model.MembershipApplication, m Media) MembershipApplication {
	return MembershipApplication{
		ID:                 a.ID,
		ProfilePhoto:       m.URL(a.ProfilePhoto),
		FullName:           a.FullName,
		Email:              a.Email,
		Phone:              a.Phone,
		AlternativePhone:   a.AlternativePhone,
		DateOfBirth:        a.DateOfBirth.UTC().Format(dateLayout),
		BloodGroup:         a.BloodGroup,
		Profession:         a.Profession,
		Hobbies:            a.Hobbies,
		Address:            a.Address,
		Zone:               a.ZoneID,
		ZoneName:           a.Zone.Name,
		IDDocumentType:     a.IDDocumentType,
		IDDocumentNumber:   a.IDDocumentNumber,
		IDDocumentPhoto:    m.URL(a.IDDocumentPhoto),
		HoldingIDPhoto:     m.URL(a.HoldingIDPhoto),
		EmergencyContact:   a.EmergencyContact,
		EmergencyPhone:     a.EmergencyPhone,
		HasMotorbike:       a.HasMotorbike,
		MotorcycleBrand:    a.MotorcycleBrand,
		MotorcycleModel:    a.MotorcycleModel,
		MotorcycleYear:     a.MotorcycleYear,
		RidingExperience:   a.RidingExperience,
		CitizenshipConfirm: a.CitizenshipConfirm,
		AgreeTerms:         a.AgreeTerms,
		Status:             string(a.Status),
		ReviewedAt:         a.ReviewedAt,
		User:               a.UserID,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

func NewMembershipApplications(list []model.MembershipApplication, m Media) []MembershipApplication {
	out := make([]MembershipApplication, 0, len(list))
	for i := range list {
		out = append(out, NewMembershipApplication(&list[i], m))
	}
	return out
}
