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
	"ridersclub/backend/pkg/crypto"
	"ridersclub/backend/pkg/phone"
)

const dateLayout = "2006-01-02"

// ApplicationInput is the public intake form. Password is used for the
// account and never stored on the application.
type ApplicationInput struct {
	ProfilePhoto       string `json:"profile_photo"`
	FullName           string `json:"full_name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	AlternativePhone   string `json:"alternative_phone"`
	DateOfBirth        string `json:"date_of_birth"`
	BloodGroup         string `json:"blood_group"`
	Profession         string `json:"profession"`
	Hobbies            string `json:"hobbies"`
	Address            string `json:"address"`
	ZoneID             uint   `json:"zone"`
	IDDocumentType     string `json:"id_document_type"`
	IDDocumentNumber   string `json:"id_document_number"`
	IDDocumentPhoto    string `json:"id_document_photo"`
	HoldingIDPhoto     string `json:"holding_id_photo"`
	EmergencyContact   string `json:"emergency_contact"`
	EmergencyPhone     string `json:"emergency_phone"`
	HasMotorbike       bool   `json:"has_motorbike"`
	MotorcycleBrand    string `json:"motorcycle_brand"`
	MotorcycleModel    string `json:"motorcycle_model"`
	MotorcycleYear     *int   `json:"motorcycle_year"`
	RidingExperience   string `json:"riding_experience"`
	CitizenshipConfirm bool   `json:"citizenship_confirm"`
	AgreeTerms         bool   `json:"agree_terms"`
	Password           string `json:"password"`
}

// ApplicationPatch carries staff edits; nil fields are left unchanged.
type ApplicationPatch struct {
	FullName         *string `json:"full_name"`
	Email            *string `json:"email"`
	AlternativePhone *string `json:"alternative_phone"`
	Profession       *string `json:"profession"`
	Hobbies          *string `json:"hobbies"`
	Address          *string `json:"address"`
	ZoneID           *uint   `json:"zone"`
	EmergencyContact *string `json:"emergency_contact"`
	EmergencyPhone   *string `json:"emergency_phone"`
	HasMotorbike     *bool   `json:"has_motorbike"`
	MotorcycleBrand  *string `json:"motorcycle_brand"`
	MotorcycleModel  *string `json:"motorcycle_model"`
	MotorcycleYear   *int    `json:"motorcycle_year"`
	RidingExperience *string `json:"riding_experience"`
}

type MembershipService interface {
	Submit(ctx context.Context, in ApplicationInput) (*model.MembershipApplication, error)
	// List scopes results to the caller: staff see all, members see their
	// own email's applications, anonymous callers see none.
	List(ctx context.Context, caller *model.User, status model.ApplicationStatus, page repository.Page) ([]model.MembershipApplication, error)
	Get(ctx context.Context, caller *model.User, id uint) (*model.MembershipApplication, error)
	Update(ctx context.Context, id uint, patch ApplicationPatch) (*model.MembershipApplication, error)
	Delete(ctx context.Context, id uint) error
	Review(ctx context.Context, id uint, decision model.ApplicationStatus) (*model.MembershipApplication, error)
}

type membershipService struct {
	repos          *repository.Repositories
	hasher         *crypto.Hasher
	publisher      events.Publisher
	mailer         MailSender
	minPasswordLen int
	logger         *zap.Logger
	now            func() time.Time
}

func NewMembershipService(
	repos *repository.Repositories,
	hasher *crypto.Hasher,
	publisher events.Publisher,
	mailer MailSender,
	minPasswordLen int,
	logger *zap.Logger,
) MembershipService {
	return &membershipService{
		repos:          repos,
		hasher:         hasher,
		publisher:      publisher,
		mailer:         mailer,
		minPasswordLen: minPasswordLen,
		logger:         logger,
		now:            time.Now,
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func (s *membershipService) validate(ctx context.Context, in *ApplicationInput) (time.Time, error) {
	errs := fieldErrors{}
	required := map[string]string{
		"full_name":          in.FullName,
		"phone":              in.Phone,
		"date_of_birth":      in.DateOfBirth,
		"blood_group":        in.BloodGroup,
		"profession":         in.Profession,
		"address":            in.Address,
		"id_document_type":   in.IDDocumentType,
		"id_document_number": in.IDDocumentNumber,
		"emergency_contact":  in.EmergencyContact,
		"emergency_phone":    in.EmergencyPhone,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			errs.add(field, "This field is required.")
		}
	}
	if in.ZoneID == 0 {
		errs.add("zone", "This field is required.")
	}

	var dob time.Time
	if in.DateOfBirth != "" {
		parsed, err := time.Parse(dateLayout, in.DateOfBirth)
		if err != nil {
			errs.add("date_of_birth", "Date has wrong format. Use YYYY-MM-DD.")
		} else {
			dob = parsed
		}
	}
	if in.BloodGroup != "" && !contains(model.BloodGroups, in.BloodGroup) {
		errs.add("blood_group", strconv.Quote(in.BloodGroup)+" is not a valid choice.")
	}
	if in.IDDocumentType != "" && !contains(model.IDDocumentTypes, in.IDDocumentType) {
		errs.add("id_document_type", strconv.Quote(in.IDDocumentType)+" is not a valid choice.")
	}
	if in.RidingExperience == "" {
		in.RidingExperience = model.RidingExperiences[0]
	} else if !contains(model.RidingExperiences, in.RidingExperience) {
		errs.add("riding_experience", strconv.Quote(in.RidingExperience)+" is not a valid choice.")
	}
	if !in.CitizenshipConfirm {
		errs.add("citizenship_confirm", "You must confirm your citizenship.")
	}
	if !in.AgreeTerms {
		errs.add("agree_terms", "You must agree to the terms and conditions.")
	}
	if in.Password == "" {
		errs.add("password", "Password is required.")
	} else if len(in.Password) < s.minPasswordLen {
		errs.add("password", fmt.Sprintf("Password must be at least %d characters long.", s.minPasswordLen))
	}
	if err := errs.err(); err != nil {
		return time.Time{}, err
	}

	if _, err := s.repos.Zones.GetByID(ctx, in.ZoneID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, &ValidationError{Fields: map[string]string{"zone": "Invalid zone selected."}}
		}
		return time.Time{}, fmt.Errorf("load zone: %w", err)
	}
	taken, err := s.repos.Users.ExistsByUsernames(ctx, phone.Candidates(in.Phone))
	if err != nil {
		return time.Time{}, fmt.Errorf("check phone: %w", err)
	}
	if taken {
		return time.Time{}, ErrPhoneRegistered
	}
	return dob, nil
}

func (s *membershipService) Submit(ctx context.Context, in ApplicationInput) (*model.MembershipApplication, error) {
	in.Phone = strings.TrimSpace(in.Phone)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)

	dob, err := s.validate(ctx, &in)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(in.Password)
	if err != nil {
		return nil, &AccountCreationError{Err: err}
	}

	app := &model.MembershipApplication{
		ProfilePhoto:       in.ProfilePhoto,
		FullName:           in.FullName,
		Email:              in.Email,
		Phone:              in.Phone,
		AlternativePhone:   in.AlternativePhone,
		DateOfBirth:        model.StartOfDay(dob),
		BloodGroup:         in.BloodGroup,
		Profession:         in.Profession,
		Hobbies:            in.Hobbies,
		Address:            in.Address,
		ZoneID:             in.ZoneID,
		IDDocumentType:     in.IDDocumentType,
		IDDocumentNumber:   in.IDDocumentNumber,
		IDDocumentPhoto:    in.IDDocumentPhoto,
		HoldingIDPhoto:     in.HoldingIDPhoto,
		EmergencyContact:   in.EmergencyContact,
		EmergencyPhone:     in.EmergencyPhone,
		HasMotorbike:       in.HasMotorbike,
		MotorcycleBrand:    in.MotorcycleBrand,
		MotorcycleModel:    in.MotorcycleModel,
		MotorcycleYear:     in.MotorcycleYear,
		RidingExperience:   in.RidingExperience,
		CitizenshipConfirm: in.CitizenshipConfirm,
		AgreeTerms:         in.AgreeTerms,
		Status:             model.ApplicationStatusPending,
	}

	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		first, last := model.SplitFullName(in.FullName)
		user := &model.User{
			Username:     in.Phone,
			PasswordHash: hash,
			Email:        in.Email,
			FirstName:    first,
			LastName:     last,
			IsActive:     true,
		}
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}

		zoneID := in.ZoneID
		rider := &model.Rider{
			UserID:           user.ID,
			MembershipStatus: model.MembershipStatusPending,
			ZoneID:           &zoneID,
			BikeModel:        strings.TrimSpace(in.MotorcycleBrand + " " + in.MotorcycleModel),
		}
		if err := tx.Riders.Create(ctx, rider); err != nil {
			return err
		}

		app.UserID = &user.ID
		return tx.Applications.Create(ctx, app)
	})
	if err != nil {
		return nil, &AccountCreationError{Err: err}
	}

	metrics.RecordApplication(string(model.ApplicationStatusPending))
	publish(ctx, s.publisher, s.logger, events.New(events.TypeApplicationSubmitted, strconv.FormatUint(uint64(app.ID), 10), map[string]interface{}{
		"application_id": app.ID,
		"user_id":        app.UserID,
		"zone_id":        app.ZoneID,
		"phone":          app.Phone,
	}))

	return s.repos.Applications.GetByID(ctx, app.ID)
}

func (s *membershipService) List(ctx context.Context, caller *model.User, status model.ApplicationStatus, page repository.Page) ([]model.MembershipApplication, error) {
	if caller == nil {
		return []model.MembershipApplication{}, nil
	}
	filter := repository.ApplicationFilter{Status: status, Page: page}
	if !caller.IsStaff {
		filter.UserID = &caller.ID
		if email := strings.TrimSpace(caller.Email); email != "" {
			filter.Email = &email
		}
	}
	apps, err := s.repos.Applications.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

func (s *membershipService) Get(ctx context.Context, caller *model.User, id uint) (*model.MembershipApplication, error) {
	if caller == nil {
		return nil, ErrNotFound
	}
	app, err := s.repos.Applications.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "load application")
	}
	if !caller.IsStaff && !ownsApplication(caller, app) {
		return nil, ErrNotFound
	}
	return app, nil
}

// ownsApplication matches by linked account, or by email when the caller
// has one.
func ownsApplication(caller *model.User, app *model.MembershipApplication) bool {
	if app.UserID != nil && *app.UserID == caller.ID {
		return true
	}
	email := strings.TrimSpace(caller.Email)
	return email != "" && app.Email == email
}

func (s *membershipService) Update(ctx context.Context, id uint, patch ApplicationPatch) (*model.MembershipApplication, error) {
	app, err := s.repos.Applications.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "load application")
	}

	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&app.FullName, patch.FullName)
	setString(&app.Email, patch.Email)
	setString(&app.AlternativePhone, patch.AlternativePhone)
	setString(&app.Profession, patch.Profession)
	setString(&app.Hobbies, patch.Hobbies)
	setString(&app.Address, patch.Address)
	setString(&app.EmergencyContact, patch.EmergencyContact)
	setString(&app.EmergencyPhone, patch.EmergencyPhone)
	setString(&app.MotorcycleBrand, patch.MotorcycleBrand)
	setString(&app.MotorcycleModel, patch.MotorcycleModel)
	if patch.HasMotorbike != nil {
		app.HasMotorbike = *patch.HasMotorbike
	}
	if patch.MotorcycleYear != nil {
		app.MotorcycleYear = patch.MotorcycleYear
	}
	if patch.RidingExperience != nil {
		if !contains(model.RidingExperiences, *patch.RidingExperience) {
			return nil, &ValidationError{Fields: map[string]string{"riding_experience": "Invalid choice."}}
		}
		app.RidingExperience = *patch.RidingExperience
	}
	if patch.ZoneID != nil {
		if _, err := s.repos.Zones.GetByID(ctx, *patch.ZoneID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &ValidationError{Fields: map[string]string{"zone": "Invalid zone selected."}}
			}
			return nil, fmt.Errorf("load zone: %w", err)
		}
		app.ZoneID = *patch.ZoneID
	}
	if strings.TrimSpace(app.FullName) == "" {
		return nil, &ValidationError{Fields: map[string]string{"full_name": "This field may not be blank."}}
	}

	if err := s.repos.Applications.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("update application: %w", err)
	}
	return s.repos.Applications.GetByID(ctx, id)
}

func (s *membershipService) Delete(ctx context.Context, id uint) error {
	if err := s.repos.Applications.Delete(ctx, id); err != nil {
		return lookupErr(err, "delete application")
	}
	return nil
}

func (s *membershipService) Review(ctx context.Context, id uint, decision model.ApplicationStatus) (*model.MembershipApplication, error) {
	var app *model.MembershipApplication
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		app, err = tx.Applications.GetByID(ctx, id)
		if err != nil {
			return lookupErr(err, "load application")
		}
		if !app.CanTransitionTo(decision) {
			return ErrInvalidTransition
		}

		reviewedAt := s.now().UTC()
		app.Status = decision
		app.ReviewedAt = &reviewedAt
		if err := tx.Applications.Update(ctx, app); err != nil {
			return fmt.Errorf("update application: %w", err)
		}

		if app.UserID == nil {
			return nil
		}
		rider, err := tx.Riders.GetByUserID(ctx, *app.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load rider: %w", err)
		}
		rider.MembershipStatus = model.MembershipStatus(decision)
		return tx.Riders.Update(ctx, rider)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordApplication(string(decision))
	s.notifyReview(ctx, app)
	return app, nil
}

func (s *membershipService) notifyReview(ctx context.Context, app *model.MembershipApplication) {
	if s.mailer == nil || strings.TrimSpace(app.Email) == "" {
		return
	}
	subject := "Your Riders Club membership application"
	var body string
	if app.Status == model.ApplicationStatusApproved {
		body = fmt.Sprintf("Hello %s,\n\nYour membership application has been approved. You can now sign in with your phone number %s.\n", app.FullName, app.Phone)
	} else {
		body = fmt.Sprintf("Hello %s,\n\nWe are sorry, your membership application was not approved.\n", app.FullName)
	}
	if err := s.mailer.Send(ctx, app.Email, subject, body); err != nil {
		s.logger.Warn("failed to send review email",
			zap.Uint("application_id", app.ID),
			zap.Error(err),
		)
	}
}

var _ MembershipService = (*membershipService)(nil)
