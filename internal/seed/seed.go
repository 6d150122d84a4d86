// Package seed loads reference data (zones, benefit catalogue, sample
// events) and the initial staff account from a YAML fixtures file.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"ridersclub/backend/internal/model"
	"ridersclub/backend/internal/repository"
	"ridersclub/backend/pkg/crypto"
)

type Fixtures struct {
	Zones      []ZoneFixture     `yaml:"zones"`
	Categories []CategoryFixture `yaml:"benefit_categories"`
	Events     []EventFixture    `yaml:"events"`
}

type ZoneFixture struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type CategoryFixture struct {
	Name         string           `yaml:"name"`
	Description  string           `yaml:"description"`
	Icon         string           `yaml:"icon"`
	Color        string           `yaml:"color"`
	DisplayOrder int              `yaml:"display_order"`
	Benefits     []BenefitFixture `yaml:"benefits"`
}

type BenefitFixture struct {
	Title          string   `yaml:"title"`
	Description    string   `yaml:"description"`
	PartnerName    string   `yaml:"partner_name"`
	PartnerWebsite string   `yaml:"partner_website"`
	DiscountType   string   `yaml:"discount_type"`
	DiscountValue  float64  `yaml:"discount_value"`
	DiscountText   string   `yaml:"discount_text"`
	HowToAvail     string   `yaml:"how_to_avail"`
	UsageLimit     *int     `yaml:"usage_limit"`
	Featured       bool     `yaml:"featured"`
	Zones          []string `yaml:"zones"`
}

// EventFixture dates are relative to the day the seeder runs, so sample
// data always has both upcoming and past rides.
type EventFixture struct {
	Title           string   `yaml:"title"`
	Description     string   `yaml:"description"`
	Location        string   `yaml:"location"`
	DaysFromNow     int      `yaml:"days_from_now"`
	Time            string   `yaml:"time"`
	DurationDays    int      `yaml:"duration_days"`
	Price           float64  `yaml:"price"`
	Duration        string   `yaml:"duration"`
	Difficulty      string   `yaml:"difficulty"`
	Requirements    []string `yaml:"requirements"`
	OrganizerName   string   `yaml:"organizer_name"`
	MaxParticipants int      `yaml:"max_participants"`
	Status          string   `yaml:"status"`
	Zone            string   `yaml:"zone"`
	Photos          []string `yaml:"photos"`
}

type Admin struct {
	Phone    string
	Password string
	Email    string
}

func LoadFixtures(path string) (*Fixtures, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(raw)
}

func ParseFixtures(raw []byte) (*Fixtures, error) {
	var fx Fixtures
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &fx, nil
}

// Report counts rows written by one Run.
type Report struct {
	Zones      int
	Categories int
	Benefits   int
	Events     int
	AdminNew   bool
}

type Seeder struct {
	repos  *repository.Repositories
	hasher *crypto.Hasher
	logger *zap.Logger
	now    func() time.Time
}

func NewSeeder(repos *repository.Repositories, hasher *crypto.Hasher, logger *zap.Logger) *Seeder {
	return &Seeder{repos: repos, hasher: hasher, logger: logger, now: time.Now}
}

// Run is idempotent for zones, categories, benefits and the admin account.
// Sample events with fixture titles are replaced on every run.
func (s *Seeder) Run(ctx context.Context, fx *Fixtures, admin Admin) (*Report, error) {
	report := &Report{}
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		zones, err := s.seedZones(ctx, tx, fx.Zones, report)
		if err != nil {
			return err
		}
		if err := s.seedBenefits(ctx, tx, fx.Categories, zones, report); err != nil {
			return err
		}
		organizer, err := s.seedAdmin(ctx, tx, admin, report)
		if err != nil {
			return err
		}
		if organizer == nil {
			if len(fx.Events) > 0 {
				s.logger.Warn("no admin account configured, skipping sample events")
			}
			return nil
		}
		return s.seedEvents(ctx, tx, fx.Events, organizer, zones, report)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *Seeder) seedZones(ctx context.Context, tx *repository.Repositories, fixtures []ZoneFixture, report *Report) (map[string]uint, error) {
	ids := make(map[string]uint, len(fixtures))
	for _, f := range fixtures {
		zone, err := tx.Zones.GetByName(ctx, f.Name)
		switch {
		case err == nil:
		case errors.Is(err, gorm.ErrRecordNotFound):
			zone = &model.Zone{Name: f.Name, Description: f.Description, IsActive: true}
			if err := tx.Zones.Create(ctx, zone); err != nil {
				return nil, fmt.Errorf("create zone %q: %w", f.Name, err)
			}
			report.Zones++
			s.logger.Info("created zone", zap.String("name", zone.Name))
		default:
			return nil, fmt.Errorf("load zone %q: %w", f.Name, err)
		}
		ids[zone.Name] = zone.ID
	}
	return ids, nil
}

func (s *Seeder) seedBenefits(ctx context.Context, tx *repository.Repositories, fixtures []CategoryFixture, zones map[string]uint, report *Report) error {
	existing, err := tx.Benefits.ListCategories(ctx, false)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	byName := make(map[string]model.BenefitCategory, len(existing))
	for _, c := range existing {
		byName[c.Name] = c
	}

	for _, f := range fixtures {
		category, ok := byName[f.Name]
		if !ok {
			category = model.BenefitCategory{
				Name:         f.Name,
				Description:  f.Description,
				Icon:         f.Icon,
				Color:        f.Color,
				DisplayOrder: f.DisplayOrder,
				IsActive:     true,
			}
			if err := tx.Benefits.CreateCategory(ctx, &category); err != nil {
				return fmt.Errorf("create category %q: %w", f.Name, err)
			}
			report.Categories++
		}

		current, err := tx.Benefits.List(ctx, repository.BenefitFilter{CategoryID: &category.ID})
		if err != nil {
			return fmt.Errorf("list benefits: %w", err)
		}
		titles := make(map[string]bool, len(current))
		for _, b := range current {
			titles[b.Title] = true
		}

		for _, bf := range f.Benefits {
			if titles[bf.Title] {
				continue
			}
			zoneIDs, err := resolveZones(bf.Zones, zones)
			if err != nil {
				return fmt.Errorf("benefit %q: %w", bf.Title, err)
			}
			discount := model.DiscountType(bf.DiscountType)
			if discount == "" {
				discount = model.DiscountTypePercentage
			}
			if !discount.Valid() {
				return fmt.Errorf("benefit %q: unknown discount type %q", bf.Title, bf.DiscountType)
			}
			b := &model.Benefit{
				Title:           bf.Title,
				Description:     bf.Description,
				CategoryID:      category.ID,
				PartnerName:     bf.PartnerName,
				PartnerWebsite:  bf.PartnerWebsite,
				DiscountType:    discount,
				DiscountValue:   bf.DiscountValue,
				DiscountText:    bf.DiscountText,
				HowToAvail:      bf.HowToAvail,
				UsageLimit:      bf.UsageLimit,
				MembershipLevel: "all",
				IsActive:        true,
				IsFeatured:      bf.Featured,
			}
			if err := tx.Benefits.Create(ctx, b, zoneIDs); err != nil {
				return fmt.Errorf("create benefit %q: %w", bf.Title, err)
			}
			report.Benefits++
		}
	}
	return nil
}

func resolveZones(names []string, zones map[string]uint) ([]uint, error) {
	ids := make([]uint, 0, len(names))
	for _, name := range names {
		id, ok := zones[name]
		if !ok {
			return nil, fmt.Errorf("unknown zone %q", name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// seedAdmin returns the admin's rider profile, creating the account and
// profile when missing. It returns nil when no admin phone is configured.
func (s *Seeder) seedAdmin(ctx context.Context, tx *repository.Repositories, admin Admin, report *Report) (*model.Rider, error) {
	phone := strings.TrimSpace(admin.Phone)
	if phone == "" {
		return nil, nil
	}

	user, err := tx.Users.GetByUsername(ctx, phone)
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		if admin.Password == "" {
			return nil, errors.New("admin password is required to create the admin account")
		}
		hash, err := s.hasher.HashPassword(admin.Password)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		user = &model.User{
			Username:     phone,
			PasswordHash: hash,
			Email:        admin.Email,
			FirstName:    "Club",
			LastName:     "Admin",
			IsStaff:      true,
			IsActive:     true,
		}
		if err := tx.Users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create admin: %w", err)
		}
		report.AdminNew = true
		s.logger.Info("created admin account", zap.String("phone", phone))
	default:
		return nil, fmt.Errorf("load admin: %w", err)
	}

	rider, err := tx.Riders.GetByUserID(ctx, user.ID)
	if err == nil {
		return rider, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load admin rider: %w", err)
	}
	rider = &model.Rider{
		UserID:           user.ID,
		Bio:              "System Administrator",
		Location:         "Dhaka",
		MembershipStatus: model.MembershipStatusApproved,
	}
	if err := tx.Riders.Create(ctx, rider); err != nil {
		return nil, fmt.Errorf("create admin rider: %w", err)
	}
	return rider, nil
}

func (s *Seeder) seedEvents(ctx context.Context, tx *repository.Repositories, fixtures []EventFixture, organizer *model.Rider, zones map[string]uint, report *Report) error {
	if len(fixtures) == 0 {
		return nil
	}
	titles := make(map[string]bool, len(fixtures))
	for _, f := range fixtures {
		titles[f.Title] = true
	}
	current, err := tx.Events.List(ctx, repository.EventFilter{})
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	for _, e := range current {
		if titles[e.Title] {
			if err := tx.Events.Delete(ctx, e.ID); err != nil {
				return fmt.Errorf("replace event %q: %w", e.Title, err)
			}
		}
	}

	today := model.StartOfDay(s.now())
	for _, f := range fixtures {
		event := &model.RideEvent{
			Title:           f.Title,
			Description:     f.Description,
			Location:        f.Location,
			Date:            today.AddDate(0, 0, f.DaysFromNow),
			Time:            f.Time,
			Price:           f.Price,
			Duration:        f.Duration,
			Difficulty:      f.Difficulty,
			Requirements:    strings.Join(f.Requirements, "\n"),
			OrganizerName:   f.OrganizerName,
			MaxParticipants: f.MaxParticipants,
			Status:          model.EventStatus(f.Status),
			Photos:          model.StringSlice(f.Photos),
			OrganizerID:     organizer.ID,
		}
		if event.Difficulty == "" {
			event.Difficulty = "beginner"
		}
		if event.MaxParticipants <= 0 {
			event.MaxParticipants = model.DefaultMaxParticipants
		}
		if event.Status == "" {
			event.Status = model.EventStatusUpcoming
		}
		if !event.Status.Valid() {
			return fmt.Errorf("event %q: unknown status %q", f.Title, f.Status)
		}
		if f.DurationDays > 1 {
			end := event.Date.AddDate(0, 0, f.DurationDays-1)
			event.EndDate = &end
		}
		if f.Zone != "" {
			id, ok := zones[f.Zone]
			if !ok {
				return fmt.Errorf("event %q: unknown zone %q", f.Title, f.Zone)
			}
			event.ZoneID = &id
		}
		if err := tx.Events.Create(ctx, event); err != nil {
			return fmt.Errorf("create event %q: %w", f.Title, err)
		}
		report.Events++
	}
	return nil
}
