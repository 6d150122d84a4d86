package dto

import (
	"time"

	"ridersclub/backend/internal/model"
	"ridersclub/backend/internal/service"
)

type User struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func NewUser(u *model.User) User {
	return User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// Account is the staff view of a login account.
type Account struct {
	ID        uint       `json:"id"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	IsStaff   bool       `json:"is_staff"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"date_joined"`
}

func NewAccount(u *model.User) Account {
	return Account{
		ID:        u.ID,
		Phone:     u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsStaff:   u.IsStaff,
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}

// LoginUser is the account summary returned with a token pair.
type LoginUser struct {
	ID       uint   `json:"id"`
	Phone    string `json:"phone"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	IsStaff  bool   `json:"is_staff"`
}

func NewLoginUser(u *model.User) LoginUser {
	return LoginUser{
		ID:       u.ID,
		Phone:    u.Username,
		FullName: u.FullName(),
		Email:    u.Email,
		IsStaff:  u.IsStaff,
	}
}

type Login struct {
	Access  string    `json:"access"`
	Refresh string    `json:"refresh"`
	User    LoginUser `json:"user"`
}

func NewLogin(res *service.LoginResult) Login {
	return Login{Access: res.Access, Refresh: res.Refresh, User: NewLoginUser(res.User)}
}

type ZoneRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Rider struct {
	ID               uint      `json:"id"`
	User             User      `json:"user"`
	FullName         string    `json:"full_name"`
	Bio              string    `json:"bio"`
	Location         string    `json:"location"`
	BikeModel        string    `json:"bike_model"`
	ProfileImage     string    `json:"profile_image"`
	MembershipStatus string    `json:"membership_status"`
	CustomUserType   string    `json:"custom_user_type"`
	IsFeatured       bool      `json:"is_featured"`
	Zone             *uint     `json:"zone"`
	ZoneName         string    `json:"zone_name"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func NewRider(r *model.Rider, m Media) Rider {
	out := Rider{
		ID:               r.ID,
		User:             NewUser(&r.User),
		FullName:         r.User.FullName(),
		Bio:              r.Bio,
		Location:         r.Location,
		BikeModel:        r.BikeModel,
		ProfileImage:     m.URL(r.ProfileImage),
		MembershipStatus: string(r.MembershipStatus),
		CustomUserType:   r.CustomUserType,
		IsFeatured:       r.IsFeatured,
		Zone:             r.ZoneID,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if r.Zone != nil {
		out.ZoneName = r.Zone.Name
	}
	return out
}

func NewRiders(list []model.Rider, m Media) []Rider {
	out := make([]Rider, 0, len(list))
	for i := range list {
		out = append(out, NewRider(&list[i], m))
	}
	return out
}

// Profile merges account, rider and application data. Application values
// win over rider values where both exist.
type Profile struct {
	ID                    uint     `json:"id"`
	Phone                 string   `json:"phone"`
	FullName              string   `json:"full_name"`
	FirstName             string   `json:"first_name"`
	LastName              string   `json:"last_name"`
	Email                 string   `json:"email"`
	IsStaff               bool     `json:"is_staff"`
	MembershipStatus      string   `json:"membership_status"`
	Zone                  *ZoneRef `json:"zone"`
	RiderID               *uint    `json:"rider_id"`
	Bio                   string   `json:"bio"`
	Location              string   `json:"location"`
	BikeModel             string   `json:"bike_model"`
	ProfileImage          string   `json:"profile_image"`
	CustomUserType        string   `json:"custom_user_type"`
	IsFeatured            bool     `json:"is_featured"`
	BloodGroup            string   `json:"blood_group"`
	BikeInfo              string   `json:"bike_info"`
	Address               string   `json:"address"`
	DateOfBirth           *string  `json:"date_of_birth"`
	Profession            string   `json:"profession"`
	EmergencyContact      string   `json:"emergency_contact"`
	EmergencyPhone        string   `json:"emergency_phone"`
	ApplicationStatus     string   `json:"application_status,omitempty"`
	MembershipApplication *uint    `json:"membership_application"`
}

func NewProfile(p *service.Profile, m Media) Profile {
	u := p.User
	out := Profile{
		ID:               u.ID,
		Phone:            u.Username,
		FullName:         u.FullName(),
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Email:            u.Email,
		IsStaff:          u.IsStaff,
		MembershipStatus: string(model.MembershipStatusPending),
	}

	if r := p.Rider; r != nil {
		id := r.ID
		out.RiderID = &id
		out.MembershipStatus = string(r.MembershipStatus)
		out.Bio = r.Bio
		out.Location = r.Location
		out.BikeModel = r.BikeModel
		out.ProfileImage = m.URL(r.ProfileImage)
		out.CustomUserType = r.CustomUserType
		out.IsFeatured = r.IsFeatured
		out.BikeInfo = r.BikeModel
		out.Address = r.Location
		if r.Zone != nil {
			out.Zone = &ZoneRef{ID: r.Zone.ID, Name: r.Zone.Name}
		}
	}

	if a := p.Application; a != nil {
		id := a.ID
		out.MembershipApplication = &id
		out.ApplicationStatus = string(a.Status)
		out.BloodGroup = a.BloodGroup
		if info := a.BikeInfo(); info != "" {
			out.BikeInfo = info
		}
		if a.Address != "" {
			out.Address = a.Address
		}
		if !a.DateOfBirth.IsZero() {
			dob := a.DateOfBirth.Format(dateLayout)
			out.DateOfBirth = &dob
		}
		out.Profession = a.Profession
		out.EmergencyContact = a.EmergencyContact
		out.EmergencyPhone = a.EmergencyPhone
		if out.Zone == nil && a.Zone.ID != 0 {
			out.Zone = &ZoneRef{ID: a.Zone.ID, Name: a.Zone.Name}
		}
		if out.ProfileImage == "" {
			out.ProfileImage = m.URL(a.ProfilePhoto)
		}
	}
	return out
}
