package seed

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"ridersclub/backend/internal/config"
	"ridersclub/backend/internal/model"
	"ridersclub/backend/internal/repository"
	"ridersclub/backend/pkg/crypto"
)

const sampleFixtures = `
zones:
  - {name: Dhaka North, description: Northern part of Dhaka city}
  - {name: "Cox's Bazar", description: Longest sea beach}
benefit_categories:
  - name: Servicing
    display_order: 1
    benefits:
      - title: Free wash
        partner_name: MotoCare
        usage_limit: 2
        zones: [Dhaka North]
      - title: Tyre check
        partner_name: MotoCare
        discount_type: special
events:
  - title: Beach Ride
    days_from_now: 10
    duration_days: 3
    zone: "Cox's Bazar"
    requirements: [Helmet, Jacket]
  - title: Club Meet
    days_from_now: -30
    status: completed
    photos: [events/meet1.jpg]
`

func newRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	db, err := config.NewSQLiteDB(config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "seed.db")})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repository.NewRepositories(db)
}

func TestParseFixtures(t *testing.T) {
	fx, err := ParseFixtures([]byte(sampleFixtures))
	require.NoError(t, err)
	require.Len(t, fx.Zones, 2)
	assert.Equal(t, "Cox's Bazar", fx.Zones[1].Name)
	require.Len(t, fx.Categories, 1)
	require.Len(t, fx.Categories[0].Benefits, 2)
	require.NotNil(t, fx.Categories[0].Benefits[0].UsageLimit)
	assert.Equal(t, 2, *fx.Categories[0].Benefits[0].UsageLimit)
	assert.Nil(t, fx.Categories[0].Benefits[1].UsageLimit)
	assert.Equal(t, []string{"Helmet", "Jacket"}, fx.Events[0].Requirements)

	_, err = ParseFixtures([]byte("zones: {"))
	assert.Error(t, err)
}

func TestLoadRepositoryFixtures(t *testing.T) {
	fx, err := LoadFixtures(filepath.Join("..", "..", "fixtures.yaml"))
	require.NoError(t, err)
	assert.Len(t, fx.Zones, 18)
	assert.NotEmpty(t, fx.Categories)
	assert.NotEmpty(t, fx.Events)
}

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	fx, err := ParseFixtures([]byte(sampleFixtures))
	require.NoError(t, err)

	seeder := NewSeeder(repos, crypto.NewHasher(bcrypt.MinCost), zap.NewNop())
	today := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	seeder.now = func() time.Time { return today }
	admin := Admin{Phone: "01700000000", Password: "admin12345", Email: "admin@example.com"}

	report, err := seeder.Run(ctx, fx, admin)
	require.NoError(t, err)
	assert.Equal(t, &Report{Zones: 2, Categories: 1, Benefits: 2, Events: 2, AdminNew: true}, report)

	report, err = seeder.Run(ctx, fx, admin)
	require.NoError(t, err)
	assert.Equal(t, &Report{Events: 2}, report)

	zones, err := repos.Zones.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, zones, 2)

	benefits, err := repos.Benefits.List(ctx, repository.BenefitFilter{})
	require.NoError(t, err)
	require.Len(t, benefits, 2)
	for _, b := range benefits {
		if b.Title == "Free wash" {
			require.Len(t, b.Zones, 1)
			assert.Equal(t, "Dhaka North", b.Zones[0].Name)
		} else {
			assert.Equal(t, model.DiscountTypeSpecial, b.DiscountType)
			assert.Empty(t, b.Zones)
		}
	}

	events, err := repos.Events.List(ctx, repository.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	meet, beach := events[0], events[1]
	assert.Equal(t, "Club Meet", meet.Title)
	assert.Equal(t, model.EventStatusCompleted, meet.Status)
	assert.Equal(t, model.StringSlice{"events/meet1.jpg"}, meet.Photos)
	assert.Equal(t, "Beach Ride", beach.Title)
	assert.Equal(t, "2025-03-20", beach.Date.UTC().Format("2006-01-02"))
	require.NotNil(t, beach.EndDate)
	assert.Equal(t, "2025-03-22", beach.EndDate.UTC().Format("2006-01-02"))
	assert.Equal(t, "Helmet\nJacket", beach.Requirements)
	require.NotNil(t, beach.Zone)
	assert.Equal(t, "Cox's Bazar", beach.Zone.Name)

	user, err := repos.Users.GetByUsername(ctx, "01700000000")
	require.NoError(t, err)
	assert.True(t, user.IsStaff)
	rider, err := repos.Riders.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, rider.ID, beach.OrganizerID)
	assert.Equal(t, model.MembershipStatusApproved, rider.MembershipStatus)
}

func TestRunWithoutAdminSkipsEvents(t *testing.T) {
	repos := newRepos(t)
	fx, err := ParseFixtures([]byte(sampleFixtures))
	require.NoError(t, err)

	report, err := NewSeeder(repos, crypto.NewHasher(bcrypt.MinCost), zap.NewNop()).Run(context.Background(), fx, Admin{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Events)
	assert.False(t, report.AdminNew)
	assert.Equal(t, 2, report.Benefits)
}

func TestRunRejectsUnknownZone(t *testing.T) {
	repos := newRepos(t)
	fx := &Fixtures{Categories: []CategoryFixture{{
		Name:     "Fuel",
		Benefits: []BenefitFixture{{Title: "Pump discount", PartnerName: "Padma Oil", Zones: []string{"Atlantis"}}},
	}}}

	_, err := NewSeeder(repos, crypto.NewHasher(bcrypt.MinCost), zap.NewNop()).Run(context.Background(), fx, Admin{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown zone "Atlantis"`)

	categories, err := repos.Benefits.ListCategories(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, categories)
}
