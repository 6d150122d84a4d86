package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridersclub/backend/internal/model"
)

func (e *testEnv) category(t *testing.T, name string) *model.BenefitCategory {
	t.Helper()
	c, err := e.benefits.CreateCategory(e.ctx, CategoryInput{Name: ptr(name)})
	require.NoError(t, err)
	return c
}

func (e *testEnv) benefit(t *testing.T, in BenefitInput) *model.Benefit {
	t.Helper()
	if in.PartnerName == nil {
		in.PartnerName = ptr("Partner")
	}
	v, err := e.benefits.Create(e.ctx, in)
	require.NoError(t, err)
	return &v.Benefit
}

func TestUseHonoursUsageLimit(t *testing.T) {
	env := newTestEnv(t)
	north := env.zone(t, "Dhaka North")
	rider, _ := env.member(t, "01700000001", north)
	cat := env.category(t, "Service")
	b := env.benefit(t, BenefitInput{Title: ptr("Free oil change"), CategoryID: &cat.ID, UsageLimit: Some(2)})

	for i := 0; i < 2; i++ {
		usage, err := env.benefits.Use(env.ctx, rider, b.ID, "workshop visit")
		require.NoError(t, err)
		assert.Equal(t, "workshop visit", usage.Notes)
		assert.Equal(t, b.Title, usage.Benefit.Title)
	}

	_, err := env.benefits.Use(env.ctx, rider, b.ID, "")
	assert.ErrorIs(t, err, ErrUsageLimitReached)

	view, err := env.benefits.Get(env.ctx, rider, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), view.UsageCount)
	assert.False(t, view.CanUse)

	usages, err := env.benefits.ListUsages(env.ctx, rider, UsageQuery{})
	require.NoError(t, err)
	assert.Len(t, usages, 2)
}

func TestUseChecksValidity(t *testing.T) {
	env := newTestEnv(t)
	rider, _ := env.member(t, "01700000001", nil)
	cat := env.category(t, "Gear")

	yesterday := time.Now().Add(-24 * time.Hour)
	tomorrow := time.Now().Add(24 * time.Hour)
	expired := env.benefit(t, BenefitInput{Title: ptr("Old deal"), CategoryID: &cat.ID, ValidUntil: Some(yesterday)})
	future := env.benefit(t, BenefitInput{Title: ptr("Coming soon"), CategoryID: &cat.ID, ValidFrom: Some(tomorrow)})
	inactive := env.benefit(t, BenefitInput{Title: ptr("Paused"), CategoryID: &cat.ID, IsActive: ptr(false)})

	_, err := env.benefits.Use(env.ctx, rider, expired.ID, "")
	assert.ErrorIs(t, err, ErrBenefitExpired)
	_, err = env.benefits.Use(env.ctx, rider, future.ID, "")
	assert.ErrorIs(t, err, ErrBenefitNotYetValid)
	_, err = env.benefits.Use(env.ctx, rider, inactive.ID, "")
	assert.ErrorIs(t, err, ErrBenefitInactive)
	_, err = env.benefits.Use(env.ctx, rider, 999, "")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := env.benefits.List(env.ctx, rider, BenefitQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestBenefitZoneVisibility(t *testing.T) {
	env := newTestEnv(t)
	north := env.zone(t, "Dhaka North")
	south := env.zone(t, "Dhaka South")
	northRider, _ := env.member(t, "01700000001", north)
	southRider, _ := env.member(t, "01700000002", south)
	staff := env.user(t, "01700000009", true)
	cat := env.category(t, "Fuel")

	everywhere := env.benefit(t, BenefitInput{Title: ptr("Fuel discount"), CategoryID: &cat.ID, ZoneIDs: []uint{}})
	northOnly := env.benefit(t, BenefitInput{Title: ptr("North garage"), CategoryID: &cat.ID, ZoneIDs: []uint{north.ID}, IsFeatured: ptr(true)})
	env.benefit(t, BenefitInput{Title: ptr("Hidden"), CategoryID: &cat.ID, IsActive: ptr(false)})

	titles := func(views []BenefitView) []string {
		out := []string{}
		for _, v := range views {
			out = append(out, v.Benefit.Title)
		}
		return out
	}

	list, err := env.benefits.List(env.ctx, northRider, BenefitQuery{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{everywhere.Title, northOnly.Title}, titles(list))
	for _, v := range list {
		assert.True(t, v.CanUse, v.Benefit.Title)
	}

	list, err = env.benefits.List(env.ctx, southRider, BenefitQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{everywhere.Title}, titles(list))

	list, err = env.benefits.List(env.ctx, nil, BenefitQuery{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{everywhere.Title, northOnly.Title}, titles(list))
	for _, v := range list {
		assert.False(t, v.CanUse)
	}

	list, err = env.benefits.List(env.ctx, staff, BenefitQuery{})
	require.NoError(t, err)
	assert.Len(t, list, 3)

	featured, err := env.benefits.Featured(env.ctx, northRider)
	require.NoError(t, err)
	assert.Equal(t, []string{northOnly.Title}, titles(featured))

	_, err = env.benefits.Get(env.ctx, southRider, northOnly.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.benefits.Use(env.ctx, southRider, northOnly.ID, "")
	assert.ErrorIs(t, err, ErrNotFound)

	groups, err := env.benefits.ByCategory(env.ctx, southRider)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Fuel", groups[0].Category.Name)
	assert.Len(t, groups[0].Benefits, 1)
}

func TestBenefitValidationAndZoneReplace(t *testing.T) {
	env := newTestEnv(t)
	north := env.zone(t, "Dhaka North")
	south := env.zone(t, "Dhaka South")
	cat := env.category(t, "Insurance")

	_, err := env.benefits.Create(env.ctx, BenefitInput{ZoneIDs: []uint{999}, UsageLimit: Some(0)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"title", "partner_name", "category", "zones", "usage_limit"} {
		assert.Contains(t, verr.Fields, field)
	}

	b := env.benefit(t, BenefitInput{Title: ptr("Third party cover"), CategoryID: &cat.ID, ZoneIDs: []uint{north.ID}})

	v, err := env.benefits.Update(env.ctx, b.ID, BenefitInput{DiscountText: ptr("15% off")})
	require.NoError(t, err)
	require.Len(t, v.Benefit.Zones, 1)
	assert.Equal(t, "15% off", v.Benefit.DiscountText)

	v, err = env.benefits.Update(env.ctx, b.ID, BenefitInput{ZoneIDs: []uint{north.ID, south.ID}})
	require.NoError(t, err)
	assert.Len(t, v.Benefit.Zones, 2)

	require.NoError(t, env.benefits.DeleteCategory(env.ctx, cat.ID))
	_, err = env.benefits.Get(env.ctx, nil, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryVisibility(t *testing.T) {
	env := newTestEnv(t)
	staff := env.user(t, "01700000009", true)
	env.category(t, "Active")
	hidden, err := env.benefits.CreateCategory(env.ctx, CategoryInput{Name: ptr("Hidden"), IsActive: ptr(false)})
	require.NoError(t, err)

	list, err := env.benefits.ListCategories(env.ctx, nil)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = env.benefits.ListCategories(env.ctx, staff)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = env.benefits.GetCategory(env.ctx, nil, hidden.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.benefits.GetCategory(env.ctx, staff, hidden.ID)
	assert.NoError(t, err)
}

func TestUsageRecordsAreScopedToRider(t *testing.T) {
	env := newTestEnv(t)
	owner, ownerRider := env.member(t, "01700000001", nil)
	other, _ := env.member(t, "01700000002", nil)
	staff := env.user(t, "01700000009", true)
	cat := env.category(t, "Food")
	b := env.benefit(t, BenefitInput{Title: ptr("Cafe stop"), CategoryID: &cat.ID})

	usage, err := env.benefits.Use(env.ctx, owner, b.ID, "")
	require.NoError(t, err)
	assert.Equal(t, ownerRider.ID, usage.RiderID)

	_, err = env.benefits.GetUsage(env.ctx, other, usage.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	got, err := env.benefits.GetUsage(env.ctx, owner, usage.ID)
	require.NoError(t, err)
	assert.Equal(t, usage.ID, got.ID)

	list, err := env.benefits.ListUsages(env.ctx, other, UsageQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = env.benefits.ListUsages(env.ctx, staff, UsageQuery{RiderID: &ownerRider.ID})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	tea := env.benefit(t, BenefitInput{Title: ptr("Tea break"), CategoryID: &cat.ID})
	_, err = env.benefits.Use(env.ctx, owner, tea.ID, "")
	require.NoError(t, err)

	list, err = env.benefits.ListUsages(env.ctx, owner, UsageQuery{BenefitID: &b.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].BenefitID)

	// RiderID from a non-staff caller is ignored.
	list, err = env.benefits.ListUsages(env.ctx, other, UsageQuery{RiderID: &ownerRider.ID})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestBenefitUpdateClearsLimitAndWindow(t *testing.T) {
	env := newTestEnv(t)
	rider, _ := env.member(t, "01700000001", nil)
	cat := env.category(t, "Service")
	lastWeek := time.Now().Add(-7 * 24 * time.Hour)
	yesterday := time.Now().Add(-24 * time.Hour)
	b := env.benefit(t, BenefitInput{
		Title:      ptr("Chain lube"),
		CategoryID: &cat.ID,
		UsageLimit: Some(1),
		ValidFrom:  Some(lastWeek),
		ValidUntil: Some(yesterday),
	})

	_, err := env.benefits.Use(env.ctx, rider, b.ID, "")
	assert.ErrorIs(t, err, ErrBenefitExpired)

	var patch BenefitInput
	require.NoError(t, json.Unmarshal([]byte(`{"usage_limit": null, "valid_until": null}`), &patch))
	v, err := env.benefits.Update(env.ctx, b.ID, patch)
	require.NoError(t, err)
	assert.Nil(t, v.Benefit.UsageLimit)
	assert.Nil(t, v.Benefit.ValidUntil)
	assert.NotNil(t, v.Benefit.ValidFrom)

	for i := 0; i < 3; i++ {
		_, err := env.benefits.Use(env.ctx, rider, b.ID, "")
		require.NoError(t, err)
	}

	var invalid BenefitInput
	require.NoError(t, json.Unmarshal([]byte(`{"usage_limit": 0}`), &invalid))
	_, err = env.benefits.Update(env.ctx, b.ID, invalid)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "usage_limit")
}
