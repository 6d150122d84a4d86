package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"ridersclub/backend/internal/config"
	"ridersclub/backend/internal/events"
	"ridersclub/backend/internal/model"
	"ridersclub/backend/internal/repository"
	"ridersclub/backend/pkg/crypto"
	jwtpkg "ridersclub/backend/pkg/jwt"
)

const testPassword = "ride12345"

type testEnv struct {
	ctx    context.Context
	repos  *repository.Repositories
	hasher *crypto.Hasher
	jwt    *jwtpkg.Manager

	auth     AuthService
	members  MembershipService
	zones    ZoneService
	riders   RiderService
	events   EventService
	posts    PostService
	benefits BenefitService
	notices  NoticeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := config.NewSQLiteDB(config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "club.db")})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	logger := zap.NewNop()
	repos := repository.NewRepositories(db)
	hasher := crypto.NewHasher(bcrypt.MinCost)
	manager := jwtpkg.NewManager("test-signing-key", "ridersclub-test", 15*time.Minute, 24*time.Hour)
	publisher := events.NewLogPublisher(logger)

	return &testEnv{
		ctx:      context.Background(),
		repos:    repos,
		hasher:   hasher,
		jwt:      manager,
		auth:     NewAuthService(repos, repository.NewMemoryTokenDenylist(), manager, hasher, 8, logger),
		members:  NewMembershipService(repos, hasher, publisher, nil, 8, logger),
		zones:    NewZoneService(repos.Zones),
		riders:   NewRiderService(repos),
		events:   NewEventService(repos, publisher, logger),
		posts:    NewPostService(repos),
		benefits: NewBenefitService(repos, publisher, logger),
		notices:  NewNoticeService(repos.Notices),
	}
}

func (e *testEnv) zone(t *testing.T, name string) *model.Zone {
	t.Helper()
	z := &model.Zone{Name: name, IsActive: true}
	require.NoError(t, e.repos.Zones.Create(e.ctx, z))
	return z
}

// user creates an active account with testPassword.
func (e *testEnv) user(t *testing.T, username string, staff bool) *model.User {
	t.Helper()
	hash, err := e.hasher.HashPassword(testPassword)
	require.NoError(t, err)
	u := &model.User{
		Username:     username,
		PasswordHash: hash,
		FirstName:    "Test",
		LastName:     username,
		Email:        username + "@example.com",
		IsStaff:      staff,
		IsActive:     true,
	}
	require.NoError(t, e.repos.Users.Create(e.ctx, u))
	return u
}

// member creates an approved rider with its account.
func (e *testEnv) member(t *testing.T, username string, zone *model.Zone) (*model.User, *model.Rider) {
	t.Helper()
	u := e.user(t, username, false)
	r := &model.Rider{UserID: u.ID, MembershipStatus: model.MembershipStatusApproved}
	if zone != nil {
		r.ZoneID = &zone.ID
	}
	require.NoError(t, e.repos.Riders.Create(e.ctx, r))
	return u, r
}

func ptr[T any](v T) *T { return &v }

func dateFromToday(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format(dateLayout)
}

func (e *testEnv) event(t *testing.T, organizer *model.User, days int, max int, status model.EventStatus) *model.RideEvent {
	t.Helper()
	ev, err := e.events.Create(e.ctx, organizer, EventInput{
		Title:           ptr("Ride " + dateFromToday(days)),
		Date:            ptr(dateFromToday(days)),
		MaxParticipants: ptr(max),
		Status:          ptr(status),
	})
	require.NoError(t, err)
	return ev
}
