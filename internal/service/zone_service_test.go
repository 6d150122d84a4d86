package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridersclub/backend/internal/model"
	"ridersclub/backend/internal/repository"
)

func TestZoneLifecycle(t *testing.T) {
	env := newTestEnv(t)

	north, err := env.zones.Create(env.ctx, ZoneInput{Name: ptr(" Dhaka North ")})
	require.NoError(t, err)
	assert.Equal(t, "Dhaka North", north.Name)
	assert.True(t, north.IsActive)

	var verr *ValidationError
	_, err = env.zones.Create(env.ctx, ZoneInput{Name: ptr("Dhaka North")})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "zone with this name already exists.", verr.Fields["name"])

	_, err = env.zones.Create(env.ctx, ZoneInput{})
	require.ErrorAs(t, err, &verr)

	sylhet, err := env.zones.Create(env.ctx, ZoneInput{Name: ptr("Sylhet"), IsActive: ptr(false)})
	require.NoError(t, err)

	list, err := env.zones.List(env.ctx, false)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = env.zones.List(env.ctx, true)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = env.zones.Get(env.ctx, sylhet.ID, false)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.zones.Get(env.ctx, sylhet.ID, true)
	assert.NoError(t, err)

	renamed, err := env.zones.Update(env.ctx, north.ID, ZoneInput{Name: ptr("Dhaka North"), Description: ptr("Uttara to Gulshan")})
	require.NoError(t, err)
	assert.Equal(t, "Uttara to Gulshan", renamed.Description)
}

func TestZoneDeleteDetachesRiders(t *testing.T) {
	env := newTestEnv(t)
	north := env.zone(t, "Dhaka North")
	_, rider := env.member(t, "01700000001", north)

	require.NoError(t, env.zones.Delete(env.ctx, north.ID))
	assert.ErrorIs(t, env.zones.Delete(env.ctx, north.ID), ErrNotFound)

	got, err := env.riders.Get(env.ctx, rider.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ZoneID)
}

func TestRiderUpdatePermissions(t *testing.T) {
	env := newTestEnv(t)
	north := env.zone(t, "Dhaka North")
	owner, ownerRider := env.member(t, "01700000001", nil)
	other, _ := env.member(t, "01700000002", nil)
	staff := env.user(t, "01700000009", true)

	updated, err := env.riders.Update(env.ctx, owner, ownerRider.ID, RiderPatch{Bio: ptr("Touring since 2015")})
	require.NoError(t, err)
	assert.Equal(t, "Touring since 2015", updated.Bio)

	_, err = env.riders.Update(env.ctx, owner, ownerRider.ID, RiderPatch{IsFeatured: ptr(true)})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = env.riders.Update(env.ctx, other, ownerRider.ID, RiderPatch{Bio: ptr("nope")})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.riders.Update(env.ctx, staff, ownerRider.ID, RiderPatch{IsFeatured: ptr(true), ZoneID: &north.ID})
	require.NoError(t, err)

	featured, err := env.riders.Featured(env.ctx)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, ownerRider.ID, featured[0].ID)

	inZone, err := env.riders.List(env.ctx, repository.RiderFilter{ZoneID: &north.ID})
	require.NoError(t, err)
	assert.Len(t, inZone, 1)

	var verr *ValidationError
	_, err = env.riders.Update(env.ctx, staff, ownerRider.ID, RiderPatch{MembershipStatus: ptr(model.MembershipStatus("vip"))})
	assert.ErrorAs(t, err, &verr)

	require.NoError(t, env.riders.Delete(env.ctx, ownerRider.ID))
	_, err = env.riders.Get(env.ctx, ownerRider.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
