package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"ridersclub/backend/internal/config"
	"ridersclub/backend/internal/dto"
	"ridersclub/backend/internal/events"
	"ridersclub/backend/internal/model"
	"ridersclub/backend/internal/repository"
	"ridersclub/backend/internal/service"
	"ridersclub/backend/pkg/crypto"
	jwtpkg "ridersclub/backend/pkg/jwt"
)

const password = "ride12345"

type testServer struct {
	t      *testing.T
	router *gin.Engine
	repos  *repository.Repositories
	hasher *crypto.Hasher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
	media := dto.NewMedia("http://club.test", "/media/")

	authService := service.NewAuthService(repos, repository.NewMemoryTokenDenylist(), manager, hasher, 8, logger)
	riderService := service.NewRiderService(repos)

	cfg := &config.Config{}
	cfg.Metrics.Enabled = true
	router := SetupRouter(cfg, logger, authService, Handlers{
		Auth:         NewAuthHandler(authService, media),
		Zones:        NewZoneHandler(service.NewZoneService(repos.Zones)),
		Applications: NewApplicationHandler(service.NewMembershipService(repos, hasher, publisher, nil, 8, logger), media),
		Riders:       NewRiderHandler(riderService, media),
		Events:       NewEventHandler(service.NewEventService(repos, publisher, logger), riderService, media),
		Posts:        NewPostHandler(service.NewPostService(repos), media),
		Benefits:     NewBenefitHandler(service.NewBenefitService(repos, publisher, logger), media),
		Notices:      NewNoticeHandler(service.NewNoticeService(repos.Notices)),
		Users:        NewUserHandler(service.NewUserService(repos.Users)),
		Health:       NewHealthHandler(repos),
	})

	return &testServer{t: t, router: router, repos: repos, hasher: hasher}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// account creates a user, plus an approved rider unless staff, and returns
// an access token for it.
func (s *testServer) account(phoneNumber string, staff bool) (string, *model.User) {
	s.t.Helper()
	ctx := context.Background()
	hash, err := s.hasher.HashPassword(password)
	require.NoError(s.t, err)
	u := &model.User{Username: phoneNumber, PasswordHash: hash, FirstName: "Rider", LastName: phoneNumber, IsStaff: staff, IsActive: true}
	require.NoError(s.t, s.repos.Users.Create(ctx, u))
	if !staff {
		require.NoError(s.t, s.repos.Riders.Create(ctx, &model.Rider{UserID: u.ID, MembershipStatus: model.MembershipStatusApproved}))
	}

	w := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"phone": phoneNumber, "password": password})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return decode(s.t, w)["access"].(string), u
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])

	w = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginAndProfile(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.account("01711111111", false)

	w := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"phone": "+8801711111111", "password": password})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.NotEmpty(t, body["refresh"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "01711111111", user["phone"])
	assert.Equal(t, false, user["is_staff"])

	w = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"phone": "01711111111", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decode(t, w)["detail"])

	w = s.do(http.MethodGet, "/api/auth/user", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/auth/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication credentials were not provided.", decode(t, w)["detail"])

	w = s.do(http.MethodGet, "/api/zones", "bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Given token not valid for any token type", decode(t, w)["detail"])
}

func TestLogoutRevokesRefresh(t *testing.T) {
	s := newTestServer(t)
	s.account("01711111111", false)

	w := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"phone": "01711111111", "password": password})
	require.Equal(t, http.StatusOK, w.Code)
	refresh := decode(t, w)["refresh"].(string)

	w = s.do(http.MethodPost, "/api/auth/refresh", "", gin.H{"refresh": refresh})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["access"])

	w = s.do(http.MethodPost, "/api/auth/logout", "", gin.H{"refresh": refresh})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Successfully logged out", decode(t, w)["detail"])

	w = s.do(http.MethodPost, "/api/auth/refresh", "", gin.H{"refresh": refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/auth/logout", "", gin.H{"refresh": refresh})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Error logging out", decode(t, w)["detail"])
}

func TestJoinFlow(t *testing.T) {
	s := newTestServer(t)
	organizer, _ := s.account("01700000001", false)
	first, _ := s.account("01700000002", false)
	second, _ := s.account("01700000003", false)

	date := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
	w := s.do(http.MethodPost, "/api/events", organizer, gin.H{"title": "Dhaka Night Ride", "date": date, "max_participants": 1})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, date, created["date"])
	assert.Equal(t, true, created["is_upcoming"])
	path := "/api/events/" + strconv.Itoa(int(created["id"].(float64)))

	w = s.do(http.MethodPost, path+"/join", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, path+"/join", first, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Successfully joined the event", body["message"])
	assert.Equal(t, float64(1), body["participant_count"])

	w = s.do(http.MethodPost, path+"/join", first, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Already joined this event", decode(t, w)["error"])

	w = s.do(http.MethodPost, path+"/join", second, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Event is full", decode(t, w)["error"])

	w = s.do(http.MethodGet, path, first, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, true, body["is_joined"])
	assert.Equal(t, float64(1), body["participant_count"])

	w = s.do(http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["is_joined"])

	w = s.do(http.MethodPost, path+"/leave", first, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, "Successfully left the event", body["message"])
	assert.Equal(t, float64(0), body["participant_count"])

	w = s.do(http.MethodPost, path+"/leave", first, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Not joined this event", decode(t, w)["error"])
}

func TestNotFoundPaths(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/events/999", "/api/events/abc", "/api/posts/42", "/api/notices/7", "/api/benefits/3"} {
		w := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Equal(t, "Not found.", decode(t, w)["detail"], path)
	}
}

func TestStaffGating(t *testing.T) {
	s := newTestServer(t)
	member, _ := s.account("01700000001", false)
	staff, _ := s.account("01700000009", true)

	w := s.do(http.MethodPost, "/api/zones", "", gin.H{"name": "Sylhet"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/zones", member, gin.H{"name": "Sylhet"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You do not have permission to perform this action.", decode(t, w)["detail"])

	w = s.do(http.MethodPost, "/api/zones", staff, gin.H{"name": "Sylhet"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Sylhet", decode(t, w)["name"])

	w = s.do(http.MethodPost, "/api/zones", staff, gin.H{"name": "Sylhet"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []interface{}{"zone with this name already exists."}, decode(t, w)["name"])

	w = s.do(http.MethodGet, "/api/zones", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var zones []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &zones))
	assert.Len(t, zones, 1)
}

func TestApplicationSubmitValidation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/membership-applications", "", gin.H{"full_name": "Rahim"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, []interface{}{"This field is required."}, body["phone"])
	assert.Equal(t, []interface{}{"You must agree to the terms and conditions."}, body["agree_terms"])
	assert.NotContains(t, body, "full_name")

	w = s.do(http.MethodGet, "/api/membership-applications", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestBenefitRedemptionOverHTTP(t *testing.T) {
	s := newTestServer(t)
	member, _ := s.account("01700000001", false)
	staff, _ := s.account("01700000009", true)

	w := s.do(http.MethodPost, "/api/benefit-categories", staff, gin.H{"name": "Service"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	categoryID := decode(t, w)["id"]

	w = s.do(http.MethodPost, "/api/benefits", staff, gin.H{
		"title":        "Free wash",
		"partner_name": "Speed Garage",
		"category":     categoryID,
		"usage_limit":  1,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	path := "/api/benefits/" + strconv.Itoa(int(decode(t, w)["id"].(float64)))

	w = s.do(http.MethodPost, path+"/use_benefit", member, gin.H{"notes": "Saturday"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Free wash", decode(t, w)["benefit_title"])

	w = s.do(http.MethodPost, path+"/use_benefit", member, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Usage limit reached for this benefit", decode(t, w)["error"])

	w = s.do(http.MethodGet, "/api/benefit-usage", member, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var usages []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &usages))
	assert.Len(t, usages, 1)

	w = s.do(http.MethodGet, "/api/benefit-usage?benefit=999", member, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	w = s.do(http.MethodGet, "/api/benefit-usage?benefit=abc", member, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/benefit-usage", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNoticeNullEndDateAndPriorityFilter(t *testing.T) {
	s := newTestServer(t)
	staff, _ := s.account("01700000009", true)

	w := s.do(http.MethodPost, "/api/notices", staff, gin.H{
		"title":    "Road closure",
		"message":  "Tejgaon link road closed",
		"priority": "high",
		"end_date": time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	require.NotNil(t, created["end_date"])
	path := "/api/notices/" + strconv.Itoa(int(created["id"].(float64)))

	w = s.do(http.MethodPatch, path, staff, gin.H{"end_date": nil})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode(t, w)
	assert.Nil(t, updated["end_date"])
	assert.Equal(t, "Road closure", updated["title"])

	w = s.do(http.MethodGet, "/api/notices?priority=high", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var notices []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notices))
	assert.Len(t, notices, 1)

	w = s.do(http.MethodGet, "/api/notices?priority=low", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	w = s.do(http.MethodGet, "/api/notices?priority=critical", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w), "priority")
}

func TestStaffUserAdministration(t *testing.T) {
	s := newTestServer(t)
	member, memberUser := s.account("01700000001", false)
	staff, staffUser := s.account("01700000009", true)
	memberPath := "/api/users/" + strconv.Itoa(int(memberUser.ID))

	w := s.do(http.MethodGet, memberPath, member, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, memberPath, staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "01700000001", decode(t, w)["phone"])

	w = s.do(http.MethodPatch, memberPath, staff, gin.H{"is_active": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, false, decode(t, w)["is_active"])

	w = s.do(http.MethodGet, "/api/auth/user", member, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodDelete, "/api/users/"+strconv.Itoa(int(staffUser.ID)), staff, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, memberPath, staff, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(http.MethodDelete, memberPath, staff, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
